package stooq

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/feature/quotes/usecase"
	"market_data/internal/platform/externalapi/csvquote"
	"market_data/internal/shared/ratelimiter"
)

const (
	// closeColumn はstooqのCSVで終値を表す列名です。
	closeColumn = "Close"
	// queryDateLayout はd1/d2パラメータの日付形式です。
	queryDateLayout = "20060102"
	// noDataBody は該当データが無い場合にstooqが200で返す本文です。
	noDataBody = "No data"
)

// StooqMarket はstooqから日次終値を取得するMarketRepository実装です。
type StooqMarket struct {
	cfg     Config
	fetcher *csvquote.Fetcher
	now     func() time.Time
}

// StooqMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*StooqMarket)(nil)

// NewStooqMarket は指定された設定とHTTPクライアントでStooqMarketの新しいインスタンスを生成します。
func NewStooqMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *StooqMarket {
	return &StooqMarket{
		cfg: cfg,
		fetcher: &csvquote.Fetcher{
			Source:     "stooq",
			Client:     client,
			Limiter:    limiter,
			NoDataBody: noDataBody,
		},
		now: time.Now,
	}
}

// FetchSeries はfrom（YYYY-MM-DD、当日を含む）から本日までの日次終値を取得します。
func (s *StooqMarket) FetchSeries(ctx context.Context, symbol, from string) (entity.Series, error) {
	start, err := time.Parse(entity.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("stooq: parse from date %q: %w", from, err)
	}

	q := url.Values{}
	q.Set("s", strings.ToLower(symbol))
	q.Set("d1", start.Format(queryDateLayout))
	q.Set("d2", s.now().UTC().Format(queryDateLayout))
	q.Set("i", "d")

	u := fmt.Sprintf("%s/q/d/l/?%s", strings.TrimRight(s.cfg.BaseURL, "/"), q.Encode())
	return s.fetcher.Get(ctx, u, closeColumn)
}
