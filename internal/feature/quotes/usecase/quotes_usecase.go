// Package usecase は終値データの取得・更新・合成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"market_data/internal/feature/quotes/domain"
	"market_data/internal/feature/quotes/domain/entity"
)

// QuoteRepository は終値データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	// UpsertMany は全件を1つのトランザクションで挿入（または更新）します。
	UpsertMany(ctx context.Context, quotes []entity.Quote) error
	// ReadSeries は銘柄ごとの保存済み時系列を日付の昇順で返します。
	ReadSeries(ctx context.Context, symbols []string) (map[string]entity.Series, error)
	// LastDates は銘柄ごとの最新日付を返します。データのない銘柄は含まれません。
	LastDates(ctx context.Context, symbols []string) (map[string]string, error)
}

// Refresher は指定された銘柄の保存済み時系列を最新の状態に更新します。
type Refresher interface {
	Refresh(ctx context.Context, symbols []string) error
}

// QuotesUsecase は合成シンボルを合成済みの時系列に解決するユースケースを定義します。
type QuotesUsecase struct {
	quotes    QuoteRepository
	refresher Refresher
}

// NewQuotesUsecase は新しい QuotesUsecase を作成します。
func NewQuotesUsecase(quotes QuoteRepository, refresher Refresher) *QuotesUsecase {
	return &QuotesUsecase{quotes: quotes, refresher: refresher}
}

// Resolve は要求された合成シンボルごとに1つの時系列を、要求どおりの式をキーとして返します。
//
// 1銘柄の場合は時系列をそのまま返します。2銘柄以上の場合は同じ日付の終値を掛け合わせ、
// 左から順に畳み込みます。refreshが指定された場合は読み出し前に全構成銘柄を更新します。
func (qu *QuotesUsecase) Resolve(ctx context.Context, exprs []string, refresh bool) (map[string]entity.Series, error) {
	composites := make([]entity.CompositeSymbol, 0, len(exprs))
	for _, e := range exprs {
		c, err := entity.ParseComposite(e)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSymbol, err)
		}
		composites = append(composites, c)
	}

	symbols := entity.Constituents(composites)
	if refresh && qu.refresher != nil {
		if err := qu.refresher.Refresh(ctx, symbols); err != nil {
			return nil, err
		}
	}

	cached, err := qu.quotes.ReadSeries(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}

	out := make(map[string]entity.Series, len(composites))
	for _, c := range composites {
		parts := make([]entity.Series, 0, len(c.Parts))
		for _, p := range c.Parts {
			parts = append(parts, cached[p])
		}
		out[c.Raw] = entity.MultiplyAll(parts...)
	}
	return out, nil
}
