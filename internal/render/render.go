// Package render writes view models to a terminal as tables or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"histpattern/internal/presenter"
	"histpattern/pkg/model"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func paint(c presenter.Cell) string {
	switch c.Polarity {
	case presenter.Positive:
		return green(c.Text)
	case presenter.Negative:
		return red(c.Text)
	default:
		return dim(c.Text)
	}
}

// JSON writes v as indented JSON
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Results writes the occurrence table and per-horizon summaries
func Results(w io.Writer, v presenter.View) error {
	title := fmt.Sprintf("%s  %s", bold(v.Ticker), v.Condition)
	if v.ReferenceTicker != "" {
		title += fmt.Sprintf("  (returns measured on %s)", v.ReferenceTicker)
	}
	fmt.Fprintln(w, title)

	if v.Empty() {
		fmt.Fprintln(w, "No historical occurrences matched this condition.")
		return nil
	}
	fmt.Fprintf(w, "Historical Occurrences: %d\n\n", v.TotalOccurrences)

	table := tablewriter.NewTable(w, tablewriter.WithHeader(v.Columns))
	for _, row := range v.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.Date)
		for _, c := range row.Cells {
			cells = append(cells, paint(c))
		}
		table.Append(cells)
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(v.Rows) == 0 {
		fmt.Fprintf(w, "Page %d is past the last page (%d).\n", v.Page+1, v.PageCount)
	} else {
		fmt.Fprintf(w, "Showing %d-%d of %d (page %d/%d)\n", v.From+1, v.To, v.Count, v.Page+1, v.PageCount)
	}

	if len(v.Summaries) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\n--- Summary Statistics ---")
	return Summaries(w, v.Summaries)
}

// Summaries writes one row per horizon
func Summaries(w io.Writer, cards []presenter.SummaryCard) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Horizon", "Average", "Median", "Win Rate", "Best / Worst", "Std Dev", "Count"}),
	)
	for _, c := range cards {
		winRate := paint(c.WinRate)
		if c.Sentiment != "" {
			winRate += " " + c.Sentiment
		}
		table.Append([]string{
			c.Title,
			paint(c.Average),
			paint(c.Median),
			winRate,
			paint(c.Best) + " / " + paint(c.Worst),
			c.Std,
			strconv.Itoa(c.Count),
		})
	}
	return table.Render()
}

// Suggestions writes an autocomplete list
func Suggestions(w io.Writer, list []model.TickerSuggestion) {
	if len(list) == 0 {
		fmt.Fprintln(w, dim("(no suggestions)"))
		return
	}
	for _, s := range list {
		if s.Name != "" {
			fmt.Fprintf(w, "  %-8s %s\n", s.Ticker, s.Name)
		} else {
			fmt.Fprintf(w, "  %s\n", s.Ticker)
		}
	}
}

// Tickers writes the supported ticker groups
func Tickers(w io.Writer, list *model.TickerListResponse) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Group", "Count", "Tickers"}))
	groups := []struct {
		name    string
		tickers []string
	}{
		{"Market Indices", list.MarketIndices},
		{"Sector ETFs", list.SectorETFs},
		{"Volatility", list.VolatilityIndicators},
		{"Sentiment", list.SentimentIndicators},
		{"Commodities", list.Commodities},
		{"Top Stocks", list.TopStocks},
	}
	for _, g := range groups {
		table.Append([]string{g.name, strconv.Itoa(len(g.tickers)), wrap(g.tickers, 10)})
	}
	return table.Render()
}

// ETF writes an ETF's constituents
func ETF(w io.Writer, etf *model.ETFConstituents) {
	fmt.Fprintf(w, "%s: %d constituents\n", bold(etf.ETF), etf.Count)
	fmt.Fprintln(w, wrap(etf.Constituents, 12))
}

// Chart writes a short textual summary of a price chart
func Chart(w io.Writer, c presenter.Chart) error {
	if len(c.Points) == 0 {
		fmt.Fprintf(w, "No price data for %s\n", c.Ticker)
		return nil
	}
	first, last := c.Points[0], c.Points[len(c.Points)-1]
	lo, hi := first.Close, first.Close
	for _, p := range c.Points {
		if p.Close < lo {
			lo = p.Close
		}
		if p.Close > hi {
			hi = p.Close
		}
	}
	fmt.Fprintf(w, "%s  %s .. %s  (%d bars)\n", bold(c.Ticker), first.Date, last.Date, len(c.Points))
	fmt.Fprintf(w, "Close: first $%.2f  last $%.2f  low $%.2f  high $%.2f\n", first.Close, last.Close, lo, hi)

	if c.Occurrences == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nOccurrences in window: %d\n", c.Occurrences)
	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Date", "Close"}))
	for _, p := range c.Points {
		if p.Occurrence {
			table.Append([]string{p.Date, fmt.Sprintf("$%.2f", p.Close)})
		}
	}
	return table.Render()
}

// Spinner shows an indeterminate progress indicator on stderr
func Spinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// StartSpinner animates a spinner until the returned stop func is called
func StartSpinner(description string) (stop func()) {
	bar := Spinner(description)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			bar.Finish()
		})
	}
}

func wrap(items []string, perLine int) string {
	var b strings.Builder
	for i, s := range items {
		if i > 0 {
			if i%perLine == 0 {
				b.WriteString("\n")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(s)
	}
	return b.String()
}
