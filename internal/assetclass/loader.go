package assetclass

import (
	"context"

	"github.com/rs/zerolog"

	"histpattern/pkg/model"
)

// Lister fetches the ticker groups served by GET /api/tickers
type Lister interface {
	Tickers(ctx context.Context) (*model.TickerListResponse, error)
}

// Load builds the registry from the service's ticker list.
// It falls back to the built-in catalog when the list cannot be fetched,
// is empty, or places a symbol in two classes.
func Load(ctx context.Context, l Lister, logger zerolog.Logger) *Registry {
	list, err := l.Tickers(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Ticker list unavailable, using built-in catalog")
		return Default()
	}
	if list == nil || emptyList(*list) {
		logger.Warn().Msg("Ticker list is empty, using built-in catalog")
		return Default()
	}

	r, err := FromTickerList(*list)
	if err != nil {
		logger.Warn().Err(err).Msg("Ticker list rejected, using built-in catalog")
		return Default()
	}

	logger.Debug().Int("symbols", len(r.index)).Msg("Loaded ticker catalog from service")
	return r
}

func emptyList(l model.TickerListResponse) bool {
	return len(l.MarketIndices)+len(l.SectorETFs)+len(l.VolatilityIndicators)+
		len(l.SentimentIndicators)+len(l.Commodities)+len(l.TopStocks) == 0
}
