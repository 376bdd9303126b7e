package assetclass

import (
	"testing"

	"histpattern/pkg/model"
)

func TestClassify(t *testing.T) {
	r := Default()

	tests := []struct {
		symbol string
		want   model.AssetClass
	}{
		{"VIX", model.AssetIndicators},
		{"^vix", model.AssetIndicators},
		{"pcr", model.AssetIndicators},
		{"GLD", model.AssetCommodities},
		{" xlk ", model.AssetSectors},
		{"SPY", model.AssetStocks},
		{"NVDA", model.AssetStocks},
		{"ZZZZ", model.AssetStocks}, // unknown falls back to stocks
		{"", model.AssetStocks},
	}

	for _, tt := range tests {
		if got := r.Classify(tt.symbol); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}

func TestDefaultCatalogDisjoint(t *testing.T) {
	seen := make(map[string]model.AssetClass)
	for class, syms := range DefaultCatalog() {
		for _, s := range syms {
			if prev, ok := seen[s]; ok && prev != class {
				t.Errorf("%s is in both %s and %s", s, prev, class)
			}
			seen[s] = class
		}
	}
}

func TestNewRejectsOverlap(t *testing.T) {
	_, err := New(map[model.AssetClass][]string{
		model.AssetStocks:  {"SPY", "XLK"},
		model.AssetSectors: {"xlk"},
	})
	if err == nil {
		t.Fatal("Expected error for overlapping symbol sets")
	}
}

func TestNewRejectsUnknownClass(t *testing.T) {
	_, err := New(map[model.AssetClass][]string{"crypto": {"BTC"}})
	if err == nil {
		t.Fatal("Expected error for unknown asset class")
	}
}

func TestMembersOfReturnsCopy(t *testing.T) {
	r := Default()
	members := r.MembersOf(model.AssetCommodities)
	if len(members) != 3 {
		t.Fatalf("Expected 3 commodities, got %d", len(members))
	}
	members[0] = "MUTATED"
	if r.MembersOf(model.AssetCommodities)[0] == "MUTATED" {
		t.Error("MembersOf must not expose internal state")
	}
}

func TestFromTickerList(t *testing.T) {
	r, err := FromTickerList(model.TickerListResponse{
		MarketIndices:        []string{"SPY"},
		SectorETFs:           []string{"XLF"},
		VolatilityIndicators: []string{"VIX"},
		SentimentIndicators:  []string{"PCR"},
		Commodities:          []string{"GLD"},
		TopStocks:            []string{"NVDA"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.Classify("PCR") != model.AssetIndicators {
		t.Error("Sentiment indicators should classify as indicators")
	}
	if r.Classify("XLF") != model.AssetSectors {
		t.Error("Sector ETFs should classify as sectors")
	}
	if !r.Contains("nvda") {
		t.Error("Top stocks should be listed")
	}
}

func TestAllowedDirections(t *testing.T) {
	tests := []struct {
		class model.AssetClass
		ct    model.ConditionType
		want  []model.Direction
	}{
		{model.AssetStocks, model.PercentageChange, []model.Direction{model.Increase, model.Decrease}},
		{model.AssetStocks, model.AbsoluteThreshold, []model.Direction{model.Above, model.Below}},
		{model.AssetIndicators, model.PercentageChange, []model.Direction{model.Above, model.Below}},
		{model.AssetSectors, model.PercentageChange, []model.Direction{model.Increase, model.Decrease}},
	}

	for _, tt := range tests {
		got := AllowedDirections(tt.class, tt.ct)
		if len(got) != len(tt.want) || got[0] != tt.want[0] || got[1] != tt.want[1] {
			t.Errorf("AllowedDirections(%s, %s) = %v, want %v", tt.class, tt.ct, got, tt.want)
		}
	}
}

func TestAllowedConditionTypes(t *testing.T) {
	if got := AllowedConditionTypes(model.AssetIndicators); len(got) != 1 || got[0] != model.AbsoluteThreshold {
		t.Errorf("Indicators should only allow absolute_threshold, got %v", got)
	}
	if DefaultConditionType(model.AssetStocks) != model.PercentageChange {
		t.Error("Stocks should default to percentage_change")
	}
	if ConditionAllowed(model.AssetIndicators, model.PercentageChange) {
		t.Error("Indicators must not allow percentage_change")
	}
}
