package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"market_data/internal/feature/quotes/domain"
	"market_data/internal/feature/quotes/domain/entity"
)

// FetchObserver に報告される取得結果の種別です。
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// MarketRepository は外部ソースから1銘柄の終値を取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// FetchSeries はfrom（その日を含む）以降のsymbolの時系列を日付の昇順で返します。
	// データがない場合は空の時系列とnilエラーを返します。
	FetchSeries(ctx context.Context, symbol, from string) (entity.Series, error)
}

// FetchObserver は1回ごとの取得結果と所要時間を受け取ります。
type FetchObserver interface {
	ObserveFetch(outcome string, elapsed time.Duration)
}

// FetchCoordinator は複数銘柄を並行して取得し、結果をまとめます。
type FetchCoordinator struct {
	market   MarketRepository
	timeout  time.Duration
	limit    int
	observer FetchObserver
}

// CoordinatorOption は FetchCoordinator の設定を変更します。
type CoordinatorOption func(*FetchCoordinator)

// WithFetchTimeout は1回の取得ごとのタイムアウトを設定します。0は無制限です。
func WithFetchTimeout(d time.Duration) CoordinatorOption {
	return func(fc *FetchCoordinator) {
		fc.timeout = d
	}
}

// WithConcurrency は同時に実行する取得の上限を設定します。0は無制限です。
func WithConcurrency(n int) CoordinatorOption {
	return func(fc *FetchCoordinator) {
		fc.limit = n
	}
}

// WithObserver は取得結果をoに報告します。
func WithObserver(o FetchObserver) CoordinatorOption {
	return func(fc *FetchCoordinator) {
		fc.observer = o
	}
}

// NewFetchCoordinator はmarketを使う新しい FetchCoordinator を作成します。
func NewFetchCoordinator(market MarketRepository, opts ...CoordinatorOption) *FetchCoordinator {
	fc := &FetchCoordinator{market: market}
	for _, opt := range opts {
		opt(fc)
	}
	return fc
}

// FetchAll はrequests（銘柄 -> 開始日）の全銘柄を並行して取得し、
// すべての取得が終わってから返ります。
//
// 失敗・タイムアウト・空の取得はその銘柄の空の時系列になり、他の取得には影響しません。
// 結果には要求されたすべての銘柄がキーとして含まれます。
func (fc *FetchCoordinator) FetchAll(ctx context.Context, requests map[string]string) map[string]entity.Series {
	symbols := make([]string, 0, len(requests))
	for s := range requests {
		symbols = append(symbols, s)
	}
	results := make([]entity.Series, len(symbols))

	var g errgroup.Group
	if fc.limit > 0 {
		g.SetLimit(fc.limit)
	}
	for i, symbol := range symbols {
		from := requests[symbol]
		g.Go(func() error {
			results[i] = fc.fetchOne(ctx, symbol, from)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]entity.Series, len(symbols))
	for i, s := range symbols {
		out[s] = results[i]
	}
	return out
}

func (fc *FetchCoordinator) fetchOne(ctx context.Context, symbol, from string) entity.Series {
	if fc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fc.timeout)
		defer cancel()
	}

	start := time.Now()
	series, err := fc.market.FetchSeries(ctx, symbol, from)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			slog.Error("upstream returned malformed data", "symbol", symbol, "from", from, "error", err)
		} else {
			slog.Warn("quote fetch failed", "symbol", symbol, "from", from, "error", err)
		}
		fc.observe(OutcomeError, elapsed)
		return entity.Series{}
	}
	if len(series) == 0 {
		fc.observe(OutcomeEmpty, elapsed)
		return entity.Series{}
	}
	fc.observe(OutcomeOK, elapsed)
	return series
}

func (fc *FetchCoordinator) observe(outcome string, elapsed time.Duration) {
	if fc.observer != nil {
		fc.observer.ObserveFetch(outcome, elapsed)
	}
}
