package adapters

import (
	"context"

	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/feature/quotes/usecase"
)

// RoutedMarket sends each symbol to its override source, or to the default
// source when the symbol has no override.
type RoutedMarket struct {
	fallback  usecase.MarketRepository
	overrides map[string]usecase.MarketRepository
}

var _ usecase.MarketRepository = (*RoutedMarket)(nil)

// NewRoutedMarket creates a RoutedMarket. overrides maps symbol to source.
func NewRoutedMarket(fallback usecase.MarketRepository, overrides map[string]usecase.MarketRepository) *RoutedMarket {
	o := make(map[string]usecase.MarketRepository, len(overrides))
	for s, m := range overrides {
		o[s] = m
	}
	return &RoutedMarket{fallback: fallback, overrides: o}
}

// FetchSeries delegates to the source responsible for symbol.
func (r *RoutedMarket) FetchSeries(ctx context.Context, symbol, from string) (entity.Series, error) {
	if m, ok := r.overrides[symbol]; ok {
		return m.FetchSeries(ctx, symbol, from)
	}
	return r.fallback.FetchSeries(ctx, symbol, from)
}
