// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"market_data/internal/feature/quotes/adapters"
	"market_data/internal/feature/quotes/usecase"
	"market_data/internal/platform/externalapi/nasdaqdatalink"
	"market_data/internal/platform/externalapi/stooq"
	infrahttp "market_data/internal/platform/http"
	"market_data/internal/shared/ratelimiter"
)

// NewMarket creates the routed upstream source: Nasdaq Data Link for the
// symbols it has datasets for, stooq for everything else.
func NewMarket() (*adapters.RoutedMarket, error) {
	scfg, err := stooq.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load stooq config: %w", err)
	}
	ncfg, err := nasdaqdatalink.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load nasdaq data link config: %w", err)
	}

	stooqMarket := stooq.NewStooqMarket(scfg,
		infrahttp.NewHTTPClient(scfg.Timeout),
		ratelimiter.NewRateLimiter(scfg.RPS, scfg.Burst))
	ndlMarket := nasdaqdatalink.NewMarket(ncfg,
		infrahttp.NewHTTPClient(ncfg.Timeout),
		ratelimiter.NewRateLimiter(ncfg.RPS, ncfg.Burst))

	overrides := make(map[string]usecase.MarketRepository)
	for _, s := range ndlMarket.Symbols() {
		overrides[s] = ndlMarket
	}
	return adapters.NewRoutedMarket(stooqMarket, overrides), nil
}
