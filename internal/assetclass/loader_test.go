package assetclass

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"histpattern/pkg/model"
)

type stubLister struct {
	list *model.TickerListResponse
	err  error
}

func (s stubLister) Tickers(ctx context.Context) (*model.TickerListResponse, error) {
	return s.list, s.err
}

func TestLoadFromService(t *testing.T) {
	r := Load(context.Background(), stubLister{list: &model.TickerListResponse{
		MarketIndices:        []string{"SPY"},
		SectorETFs:           []string{"XLK"},
		VolatilityIndicators: []string{"^VIX"},
		Commodities:          []string{"GLD"},
		TopStocks:            []string{"NVDA", "PLTR"},
	}}, zerolog.Nop())

	if r == Default() {
		t.Fatal("Load returned the built-in catalog for a valid list")
	}
	if !r.Contains("PLTR") || r.Classify("PLTR") != model.AssetStocks {
		t.Error("PLTR should be listed as a stock")
	}
	if got := r.Classify("^VIX"); got != model.AssetIndicators {
		t.Errorf("Classify(^VIX) = %s, want indicators", got)
	}
}

func TestLoadFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		lister stubLister
	}{
		{"fetch error", stubLister{err: errors.New("connection refused")}},
		{"nil list", stubLister{}},
		{"empty list", stubLister{list: &model.TickerListResponse{}}},
		{"overlap", stubLister{list: &model.TickerListResponse{
			SectorETFs: []string{"XLK"},
			TopStocks:  []string{"xlk"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := Load(context.Background(), tt.lister, zerolog.Nop()); r != Default() {
				t.Error("expected the built-in catalog")
			}
		})
	}
}
