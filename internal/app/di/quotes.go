package di

import (
	"market_data/internal/app/config"
	"market_data/internal/feature/quotes/usecase"
)

// Quotes bundles the use cases of the quotes feature.
type Quotes struct {
	Refresh *usecase.RefreshUsecase
	Resolve *usecase.QuotesUsecase
}

// NewQuotes wires the fetch coordinator, refresh engine and composite resolver
// over store and market. observer may be nil.
func NewQuotes(cfg config.Config, store usecase.QuoteRepository, market usecase.MarketRepository, observer usecase.FetchObserver) *Quotes {
	opts := []usecase.CoordinatorOption{
		usecase.WithFetchTimeout(cfg.FetchTimeout),
		usecase.WithConcurrency(cfg.FetchConcurrency),
	}
	if observer != nil {
		opts = append(opts, usecase.WithObserver(observer))
	}
	coordinator := usecase.NewFetchCoordinator(market, opts...)
	refresh := usecase.NewRefreshUsecase(store, coordinator)
	return &Quotes{
		Refresh: refresh,
		Resolve: usecase.NewQuotesUsecase(store, refresh),
	}
}
