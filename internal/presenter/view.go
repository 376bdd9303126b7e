package presenter

import (
	"strings"

	"histpattern/pkg/model"
)

// Cell is one formatted value and its styling polarity
type Cell struct {
	Text     string   `json:"text"`
	Polarity Polarity `json:"polarity"`
}

// Row is one matched date across the ordered horizons
type Row struct {
	Date  string `json:"date"`
	Cells []Cell `json:"cells"`
}

// SummaryCard is the formatted statistics block for one horizon
type SummaryCard struct {
	Horizon   string `json:"horizon"`
	Title     string `json:"title"`
	Average   Cell   `json:"average"`
	Median    Cell   `json:"median"`
	WinRate   Cell   `json:"win_rate"`
	Sentiment string `json:"sentiment"` // Bullish, Bearish or empty when unknown
	Best      Cell   `json:"best"`
	Worst     Cell   `json:"worst"`
	Std       string `json:"std"`
	Count     int    `json:"count"`
}

// View is everything needed to render a query result
type View struct {
	Ticker           string        `json:"ticker"`
	Condition        string        `json:"condition"`
	ReferenceTicker  string        `json:"reference_ticker,omitempty"`
	Horizons         []string      `json:"horizons"`
	Columns          []string      `json:"columns"`
	Rows             []Row         `json:"rows"`
	Summaries        []SummaryCard `json:"summaries"`
	Count            int           `json:"count"`
	TotalOccurrences int           `json:"total_occurrences"`
	Page             int           `json:"page"`
	PageSize         int           `json:"page_size"`
	PageCount        int           `json:"page_count"`
	From             int           `json:"from"`
	To               int           `json:"to"`
}

// Empty reports whether the query matched nothing
func (v View) Empty() bool {
	return v.Count == 0
}

// BuildView formats resp for the page selected by p. Counts come from the
// instance list; total_occurrences is carried for display only.
func BuildView(resp *model.QueryResponse, p Paginator) View {
	if resp == nil {
		return View{Page: p.Page, PageSize: p.size()}
	}

	horizons := StatisticsHorizons(resp.SummaryStatistics)
	n := len(resp.Instances)
	from, to := p.Bounds(n)

	columns := make([]string, 0, len(horizons)+1)
	columns = append(columns, "Date")
	for _, h := range horizons {
		columns = append(columns, strings.ToUpper(h))
	}

	rows := make([]Row, 0, to-from)
	for _, inst := range resp.Instances[from:to] {
		cells := make([]Cell, len(horizons))
		for i, h := range horizons {
			cells[i] = percentCell(inst.ForwardReturns[h])
		}
		rows = append(rows, Row{Date: inst.Date, Cells: cells})
	}

	summaries := make([]SummaryCard, 0, len(horizons))
	for _, h := range horizons {
		summaries = append(summaries, buildSummary(resp.Ticker, h, resp.SummaryStatistics[h]))
	}

	return View{
		Ticker:           resp.Ticker,
		Condition:        resp.Condition,
		ReferenceTicker:  resp.ReferenceTicker,
		Horizons:         horizons,
		Columns:          columns,
		Rows:             rows,
		Summaries:        summaries,
		Count:            n,
		TotalOccurrences: resp.TotalOccurrences,
		Page:             p.Page,
		PageSize:         p.size(),
		PageCount:        p.PageCount(n),
		From:             from,
		To:               to,
	}
}

func buildSummary(ticker, horizon string, s model.SummaryStatistics) SummaryCard {
	card := SummaryCard{
		Horizon: horizon,
		Title:   ticker + " +" + strings.ToUpper(horizon),
		Average: percentCell(s.Mean),
		Median:  percentCell(s.Median),
		WinRate: Cell{Text: FormatWinRate(s.WinRate)},
		Best:    percentCell(s.Max),
		Worst:   percentCell(s.Min),
		Std:     FormatPercentage(s.Std),
		Count:   s.Count,
	}
	if present(s.WinRate) {
		if *s.WinRate >= 0.5 {
			card.Sentiment = "Bullish"
			card.WinRate.Polarity = Positive
		} else {
			card.Sentiment = "Bearish"
			card.WinRate.Polarity = Negative
		}
	}
	return card
}

func percentCell(v *float64) Cell {
	return Cell{Text: FormatPercentage(v), Polarity: Classify(v)}
}
