package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"histpattern/internal/presenter"
	"histpattern/pkg/model"
)

func init() {
	color.NoColor = true
}

func sampleView() presenter.View {
	resp := &model.QueryResponse{
		Ticker:          "VIX",
		Condition:       "absolute_threshold gte 30",
		ReferenceTicker: "SPY",
		Instances: []model.PatternInstance{
			{Date: "2020-03-09", ForwardReturns: map[string]*float64{"1d": model.Float(4.94)}},
			{Date: "2020-03-10", ForwardReturns: map[string]*float64{"1d": nil}},
		},
		SummaryStatistics: map[string]model.SummaryStatistics{
			"1d": {Mean: model.Float(4.94), WinRate: model.Float(0.623), Count: 1},
		},
		TotalOccurrences: 2,
	}
	return presenter.BuildView(resp, presenter.NewPaginator())
}

func TestResults(t *testing.T) {
	var buf bytes.Buffer
	if err := Results(&buf, sampleView()); err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"VIX", "SPY", "2020-03-09", "+4.94%", "N/A", "62.3%", "Bullish", "Showing 1-2 of 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	v := presenter.BuildView(&model.QueryResponse{Ticker: "NVDA"}, presenter.NewPaginator())
	if err := Results(&buf, v); err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No historical occurrences") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleView()); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["ticker"] != "VIX" {
		t.Errorf("ticker = %v", decoded["ticker"])
	}
}

func TestSuggestions(t *testing.T) {
	var buf bytes.Buffer
	Suggestions(&buf, []model.TickerSuggestion{{Ticker: "NVDA", Name: "NVIDIA Corp"}})
	if !strings.Contains(buf.String(), "NVIDIA Corp") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	Suggestions(&buf, nil)
	if !strings.Contains(buf.String(), "no suggestions") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestChart(t *testing.T) {
	chart := presenter.ChartSeries(&model.PriceHistory{
		Ticker: "SPY",
		Prices: []model.PriceBar{
			{Date: "2024-01-01", Close: 470},
			{Date: "2024-01-02", Close: 460},
			{Date: "2024-01-03", Close: 480},
		},
	}, []string{"2024-01-02"}, 0)

	var buf bytes.Buffer
	if err := Chart(&buf, chart); err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"3 bars", "low $460.00", "high $480.00", "Occurrences in window: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWrap(t *testing.T) {
	got := wrap([]string{"A", "B", "C", "D", "E"}, 2)
	if got != "A B\nC D\nE" {
		t.Errorf("wrap = %q", got)
	}
}

func TestStartSpinnerStopIsIdempotent(t *testing.T) {
	stop := StartSpinner("testing")
	stop()
	stop()
}
