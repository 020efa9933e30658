package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"market_data/internal/feature/quotes/domain/entity"
)

// EpochDate はデータが保存されていない銘柄の取得開始日です。
const EpochDate = "1980-01-01"

// SeriesFetcher は複数銘柄をそれぞれの開始日から一括で取得します。
type SeriesFetcher interface {
	FetchAll(ctx context.Context, requests map[string]string) map[string]entity.Series
}

// RefreshUsecase は外部ソースから新しいデータを取得し、データベースに永続化するユースケースを定義します。
type RefreshUsecase struct {
	store   QuoteRepository
	fetcher SeriesFetcher
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
func NewRefreshUsecase(store QuoteRepository, fetcher SeriesFetcher) *RefreshUsecase {
	return &RefreshUsecase{store: store, fetcher: fetcher}
}

// startDates は銘柄ごとの取得開始日を決めます。保存済みの最新日付、
// データがなければ EpochDate です。最新日付そのものも再取得されます。
func (ru *RefreshUsecase) startDates(ctx context.Context, symbols []string) (map[string]string, error) {
	last, err := ru.store.LastDates(ctx, symbols)
	if err != nil {
		return nil, err
	}
	requests := make(map[string]string, len(symbols))
	for _, s := range symbols {
		if d, ok := last[s]; ok && d != "" {
			requests[s] = d
			continue
		}
		requests[s] = EpochDate
	}
	return requests, nil
}

// Refresh は全銘柄を開始日から取得し、正の終値をすべて1つのトランザクションで保存します。
// コミット後に返ります。取得の失敗は「新しいデータなし」として扱い、保存の失敗はエラーとして返します。
func (ru *RefreshUsecase) Refresh(ctx context.Context, symbols []string) error {
	symbols = dedupe(symbols)
	if len(symbols) == 0 {
		return nil
	}
	start := time.Now()

	requests, err := ru.startDates(ctx, symbols)
	if err != nil {
		return fmt.Errorf("read last dates: %w", err)
	}

	fetched := ru.fetcher.FetchAll(ctx, requests)

	var (
		quotes []entity.Quote
		points int
	)
	for _, s := range symbols {
		series := fetched[s]
		points += len(series)
		quotes = append(quotes, series.Positive().Quotes(s)...)
	}

	if err := ru.store.UpsertMany(ctx, quotes); err != nil {
		return fmt.Errorf("store quotes: %w", err)
	}

	slog.Info("quotes refreshed",
		"symbols", len(symbols),
		"fetched", points,
		"stored", len(quotes),
		"elapsed", time.Since(start),
	)
	return nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
