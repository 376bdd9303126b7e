package model

// AssetClass groups tickers that share condition semantics in the query form
type AssetClass string

const (
	AssetStocks      AssetClass = "stocks"
	AssetIndicators  AssetClass = "indicators"
	AssetCommodities AssetClass = "commodities"
	AssetSectors     AssetClass = "sectors"
)

// AssetClasses lists every asset class in display order
var AssetClasses = []AssetClass{AssetStocks, AssetIndicators, AssetCommodities, AssetSectors}

// ConditionType is how the analytics service interprets a threshold
type ConditionType string

const (
	PercentageChange  ConditionType = "percentage_change"
	AbsoluteThreshold ConditionType = "absolute_threshold"
)

// Operator is the comparison applied server-side: actual <op> threshold
type Operator string

const (
	OpGT  Operator = "gt"
	OpLT  Operator = "lt"
	OpGTE Operator = "gte"
	OpLTE Operator = "lte"
	OpEQ  Operator = "eq"
)

// Direction is the user-facing semantic chosen before a threshold is signed
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
	Above    Direction = "above"
	Below    Direction = "below"
)

// MatchType is the comparison strength chosen for percentage-change conditions
type MatchType string

const (
	MatchGTE MatchType = "gte"
	MatchEQ  MatchType = "eq"
	MatchGT  MatchType = "gt"
)

// Horizon is a forward window measured from a matched date
type Horizon string

const (
	Horizon1D Horizon = "1d"
	Horizon1W Horizon = "1w"
	Horizon1M Horizon = "1m"
	Horizon1Y Horizon = "1y"
)

// Horizons is the canonical horizon order
var Horizons = []Horizon{Horizon1D, Horizon1W, Horizon1M, Horizon1Y}

// QueryRequest is the canonical body of POST /api/query
type QueryRequest struct {
	Ticker        string        `json:"ticker" validate:"required,uppercase"`
	ConditionType ConditionType `json:"condition_type" validate:"required,oneof=percentage_change absolute_threshold"`
	Threshold     float64       `json:"threshold"`
	Operator      Operator      `json:"operator" validate:"required,oneof=gt lt gte lte eq"`
	TimeHorizons  []Horizon     `json:"time_horizons" validate:"required,min=1,dive,oneof=1d 1w 1m 1y"`
}

// PatternInstance is one date on which the condition held.
// A nil or missing forward return means the window ran past available history.
type PatternInstance struct {
	Date           string              `json:"date"`
	ForwardReturns map[string]*float64 `json:"forward_returns"`
}

// SummaryStatistics holds the service-computed aggregates for one horizon
type SummaryStatistics struct {
	Mean    *float64 `json:"mean"`
	Median  *float64 `json:"median"`
	Std     *float64 `json:"std"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	WinRate *float64 `json:"win_rate"` // fraction in [0,1]
	Count   int      `json:"count"`
}

// QueryResponse is the body returned by POST /api/query
type QueryResponse struct {
	Ticker            string                       `json:"ticker"`
	Condition         string                       `json:"condition"`
	ReferenceTicker   string                       `json:"reference_ticker,omitempty"` // e.g. SPY for a VIX query
	Instances         []PatternInstance            `json:"instances"`
	SummaryStatistics map[string]SummaryStatistics `json:"summary_statistics"`
	TotalOccurrences  int                          `json:"total_occurrences"` // display only
}

// TickerSuggestion is a single autocomplete candidate
type TickerSuggestion struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// SuggestResponse is the body returned by GET /api/tickers/suggest
type SuggestResponse struct {
	Suggestions []TickerSuggestion `json:"suggestions"`
}

// TickerListResponse is the body returned by GET /api/tickers
type TickerListResponse struct {
	MarketIndices        []string `json:"market_indices"`
	SectorETFs           []string `json:"sector_etfs"`
	VolatilityIndicators []string `json:"volatility_indicators"`
	SentimentIndicators  []string `json:"sentiment_indicators"`
	Commodities          []string `json:"commodities"`
	TopStocks            []string `json:"top_stocks"`
}

// ETFConstituents is the body returned by GET /api/tickers/etf/{symbol}
type ETFConstituents struct {
	ETF          string   `json:"etf"`
	Constituents []string `json:"constituents"`
	Count        int      `json:"count"`
}

// PriceBar is one daily OHLCV row
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PriceHistory is the body returned by GET /api/prices/{ticker}
type PriceHistory struct {
	Ticker string     `json:"ticker"`
	Prices []PriceBar `json:"prices"`
}

// HealthStatus is the body returned by GET /health
type HealthStatus struct {
	Status string `json:"status"`
}

// Float returns a pointer to v, for building optional values
func Float(v float64) *float64 {
	return &v
}
