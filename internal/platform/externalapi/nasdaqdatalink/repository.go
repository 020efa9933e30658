package nasdaqdatalink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/feature/quotes/usecase"
	"market_data/internal/platform/externalapi/csvquote"
	"market_data/internal/shared/ratelimiter"
)

// Dataset identifies a Nasdaq Data Link table and the column holding the close.
type Dataset struct {
	Code        string // e.g. "LBMA/GOLD"
	CloseColumn string // e.g. "USD (PM)"
}

// Datasets maps the symbols served by this source to their dataset.
var Datasets = map[string]Dataset{
	"LBMA": {Code: "LBMA/GOLD", CloseColumn: "USD (PM)"},
}

// Market はNasdaq Data Linkのデータセットから終値を取得するMarketRepository実装です。
type Market struct {
	cfg      Config
	fetcher  *csvquote.Fetcher
	datasets map[string]Dataset
}

// MarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*Market)(nil)

// NewMarket は指定された設定とHTTPクライアントでMarketの新しいインスタンスを生成します。
func NewMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Market {
	return &Market{
		cfg: cfg,
		fetcher: &csvquote.Fetcher{
			Source:  "nasdaqdatalink",
			Client:  client,
			Limiter: limiter,
		},
		datasets: Datasets,
	}
}

// Symbols returns the symbols this source can serve.
func (m *Market) Symbols() []string {
	out := make([]string, 0, len(m.datasets))
	for s := range m.datasets {
		out = append(out, s)
	}
	return out
}

// FetchSeries はシンボルに対応するデータセットをfrom以降について取得します。
func (m *Market) FetchSeries(ctx context.Context, symbol, from string) (entity.Series, error) {
	ds, ok := m.datasets[symbol]
	if !ok {
		return nil, fmt.Errorf("nasdaqdatalink: no dataset for symbol %q", symbol)
	}

	q := url.Values{}
	q.Set("start_date", from)
	if m.cfg.APIKey != "" {
		q.Set("api_key", m.cfg.APIKey)
	}

	u := fmt.Sprintf("%s/api/v3/datasets/%s.csv?%s", strings.TrimRight(m.cfg.BaseURL, "/"), ds.Code, q.Encode())
	return m.fetcher.Get(ctx, u, ds.CloseColumn)
}
