package presenter

import "histpattern/pkg/model"

// DefaultChartWindow is roughly two years of trading days
const DefaultChartWindow = 504

// ChartPoint is one close on the price chart
type ChartPoint struct {
	Date       string  `json:"date"`
	Close      float64 `json:"close"`
	Occurrence bool    `json:"occurrence,omitempty"`
}

// Chart is the windowed close series for a ticker
type Chart struct {
	Ticker      string       `json:"ticker"`
	Points      []ChartPoint `json:"points"`
	Occurrences int          `json:"occurrences"` // matched dates inside the window
}

// ChartSeries keeps the last window bars of history and marks matched dates.
// window <= 0 uses DefaultChartWindow.
func ChartSeries(history *model.PriceHistory, occurrenceDates []string, window int) Chart {
	if history == nil {
		return Chart{Points: []ChartPoint{}}
	}
	if window <= 0 {
		window = DefaultChartWindow
	}

	bars := history.Prices
	if len(bars) > window {
		bars = bars[len(bars)-window:]
	}

	matched := make(map[string]bool, len(occurrenceDates))
	for _, d := range occurrenceDates {
		matched[d] = true
	}

	chart := Chart{Ticker: history.Ticker, Points: make([]ChartPoint, len(bars))}
	for i, b := range bars {
		hit := matched[b.Date]
		if hit {
			chart.Occurrences++
		}
		chart.Points[i] = ChartPoint{Date: b.Date, Close: b.Close, Occurrence: hit}
	}
	return chart
}

// OccurrenceDates lists the matched dates of a response
func OccurrenceDates(resp *model.QueryResponse) []string {
	if resp == nil {
		return nil
	}
	dates := make([]string, len(resp.Instances))
	for i, inst := range resp.Instances {
		dates[i] = inst.Date
	}
	return dates
}
