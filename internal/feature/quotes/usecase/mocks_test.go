package usecase_test

import (
	"context"
	"errors"
	"sync"

	"market_data/internal/feature/quotes/domain/entity"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockQuoteRepository はQuoteRepositoryインターフェースのモック実装です。
type mockQuoteRepository struct {
	UpsertManyFunc func(ctx context.Context, quotes []entity.Quote) error
	ReadSeriesFunc func(ctx context.Context, symbols []string) (map[string]entity.Series, error)
	LastDatesFunc  func(ctx context.Context, symbols []string) (map[string]string, error)
	UpsertCalls    int
}

func (m *mockQuoteRepository) UpsertMany(ctx context.Context, quotes []entity.Quote) error {
	m.UpsertCalls++
	if m.UpsertManyFunc != nil {
		return m.UpsertManyFunc(ctx, quotes)
	}
	return errors.New("UpsertManyFunc is not implemented")
}

func (m *mockQuoteRepository) ReadSeries(ctx context.Context, symbols []string) (map[string]entity.Series, error) {
	if m.ReadSeriesFunc != nil {
		return m.ReadSeriesFunc(ctx, symbols)
	}
	return nil, errors.New("ReadSeriesFunc is not implemented")
}

func (m *mockQuoteRepository) LastDates(ctx context.Context, symbols []string) (map[string]string, error) {
	if m.LastDatesFunc != nil {
		return m.LastDatesFunc(ctx, symbols)
	}
	return nil, errors.New("LastDatesFunc is not implemented")
}

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
// FetchSeriesは並行に呼ばれるため、呼び出し記録はミューテックスで保護します。
type mockMarketRepository struct {
	FetchSeriesFunc func(ctx context.Context, symbol, from string) (entity.Series, error)

	mu    sync.Mutex
	calls map[string]string
}

func (m *mockMarketRepository) FetchSeries(ctx context.Context, symbol, from string) (entity.Series, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]string)
	}
	m.calls[symbol] = from
	m.mu.Unlock()
	if m.FetchSeriesFunc != nil {
		return m.FetchSeriesFunc(ctx, symbol, from)
	}
	return nil, errors.New("FetchSeriesFunc is not implemented")
}

func (m *mockMarketRepository) Calls() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.calls))
	for k, v := range m.calls {
		out[k] = v
	}
	return out
}

// mockSeriesFetcher はSeriesFetcherインターフェースのモック実装です。
type mockSeriesFetcher struct {
	FetchAllFunc func(ctx context.Context, requests map[string]string) map[string]entity.Series
	Requests     map[string]string
}

func (m *mockSeriesFetcher) FetchAll(ctx context.Context, requests map[string]string) map[string]entity.Series {
	m.Requests = requests
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx, requests)
	}
	return map[string]entity.Series{}
}

// mockRefresher はRefresherインターフェースのモック実装です。
type mockRefresher struct {
	RefreshFunc func(ctx context.Context, symbols []string) error
	Symbols     []string
	Calls       int
}

func (m *mockRefresher) Refresh(ctx context.Context, symbols []string) error {
	m.Calls++
	m.Symbols = symbols
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, symbols)
	}
	return nil
}

// pts は (date, close) の組からSeriesを組み立てるヘルパーです。
func pts(pairs ...any) entity.Series {
	s := make(entity.Series, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		s = append(s, entity.Point{Date: pairs[i].(string), Close: toFloat(pairs[i+1])})
	}
	return s
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("unsupported close value")
}
