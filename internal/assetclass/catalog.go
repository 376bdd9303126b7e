package assetclass

import "histpattern/pkg/model"

// MarketIndices are the broad index ETFs, offered with stocks
var MarketIndices = []string{"SPY", "QQQ", "DIA"}

// VolatilityIndicators include the caret-prefixed index forms
var VolatilityIndicators = []string{"VIX", "^VIX", "VXN", "^VXN"}

// SentimentIndicators are non-price indicators queried by absolute level
var SentimentIndicators = []string{"PCR"}

// Commodities are commodity-tracking ETFs
var Commodities = []string{"GLD", "USO", "SLV"}

// SectorETFs are the SPDR sector funds
var SectorETFs = []string{"XLF", "XLE", "XLK", "XLV", "XLY", "XLP"}

// PopularStocks is the offline stock list used before /api/tickers answers.
// Any ticker not listed anywhere still classifies as a stock.
var PopularStocks = []string{
	// Tech
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "AMD", "INTC", "CRM",
	"ORCL", "ADBE", "CSCO", "AVGO", "QCOM", "NFLX",
	// Finance
	"JPM", "BAC", "WFC", "GS", "MS", "C", "BLK", "SCHW", "AXP", "V", "MA", "PYPL",
	// Healthcare
	"JNJ", "UNH", "PFE", "ABBV", "MRK", "LLY", "TMO", "ABT", "BMY", "AMGN",
	// Consumer
	"WMT", "HD", "PG", "KO", "PEP", "COST", "NKE", "MCD", "SBUX", "TGT",
	// Industrial
	"CAT", "BA", "HON", "UPS", "GE", "MMM", "LMT", "RTX",
	// Energy
	"XOM", "CVX", "COP", "SLB", "EOG",
}

// DefaultCatalog returns the built-in symbol sets per asset class
func DefaultCatalog() map[model.AssetClass][]string {
	stocks := make([]string, 0, len(MarketIndices)+len(PopularStocks))
	stocks = append(stocks, MarketIndices...)
	stocks = append(stocks, PopularStocks...)

	indicators := make([]string, 0, len(VolatilityIndicators)+len(SentimentIndicators))
	indicators = append(indicators, VolatilityIndicators...)
	indicators = append(indicators, SentimentIndicators...)

	return map[model.AssetClass][]string{
		model.AssetStocks:      stocks,
		model.AssetIndicators:  indicators,
		model.AssetCommodities: append([]string(nil), Commodities...),
		model.AssetSectors:     append([]string(nil), SectorETFs...),
	}
}

// CatalogFromTickerList maps the /api/tickers response onto asset classes
func CatalogFromTickerList(list model.TickerListResponse) map[model.AssetClass][]string {
	var stocks, indicators []string
	stocks = append(stocks, list.MarketIndices...)
	stocks = append(stocks, list.TopStocks...)
	indicators = append(indicators, list.VolatilityIndicators...)
	indicators = append(indicators, list.SentimentIndicators...)

	return map[model.AssetClass][]string{
		model.AssetStocks:      stocks,
		model.AssetIndicators:  indicators,
		model.AssetCommodities: append([]string(nil), list.Commodities...),
		model.AssetSectors:     append([]string(nil), list.SectorETFs...),
	}
}
