// Package adapters provides the repository implementations for the quotes feature.
package adapters

import (
	"context"

	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/feature/quotes/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertBatchSize bounds the number of rows per INSERT statement so large
// first-time loads stay under the driver's bound-parameter limit.
const upsertBatchSize = 500

type quoteGorm struct {
	db *gorm.DB
}

var _ usecase.QuoteRepository = (*quoteGorm)(nil)

// NewQuoteRepository returns the gorm-backed quote store.
func NewQuoteRepository(db *gorm.DB) *quoteGorm {
	return &quoteGorm{db: db}
}

// QuoteModel is the persisted (symbol, date, close) fact row.
type QuoteModel struct {
	ID     uint    `gorm:"primaryKey"`
	Symbol string  `gorm:"size:32;not null;uniqueIndex:ux_quotes_symbol_date,priority:1"`
	Date   string  `gorm:"size:10;not null;uniqueIndex:ux_quotes_symbol_date,priority:2"`
	Close  float64 `gorm:"not null"`
}

func (QuoteModel) TableName() string {
	return "quotes"
}

func toModel(q entity.Quote) QuoteModel {
	return QuoteModel{
		Symbol: q.Symbol,
		Date:   q.Date,
		Close:  q.Close,
	}
}

// UpsertMany inserts or replaces every quote inside a single transaction.
// Either all rows are written or none are.
func (r *quoteGorm) UpsertMany(ctx context.Context, quotes []entity.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	ms := make([]QuoteModel, 0, len(quotes))
	for _, q := range quotes {
		ms = append(ms, toModel(q))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"close"}),
		}).CreateInBatches(&ms, upsertBatchSize).Error
	})
}

// ReadSeries returns the stored series of every requested symbol, ascending by date.
// Symbols without rows map to an empty series.
func (r *quoteGorm) ReadSeries(ctx context.Context, symbols []string) (map[string]entity.Series, error) {
	out := make(map[string]entity.Series, len(symbols))
	for _, s := range symbols {
		out[s] = entity.Series{}
	}
	if len(symbols) == 0 {
		return out, nil
	}

	var rows []QuoteModel
	if err := r.db.WithContext(ctx).
		Where("symbol IN ?", symbols).
		Order("symbol ASC").
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.Symbol] = append(out[m.Symbol], entity.Point{Date: m.Date, Close: m.Close})
	}
	return out, nil
}

type lastDateRow struct {
	Symbol   string
	LastDate string
}

// LastDates returns the latest stored date per symbol. Symbols with no rows are absent.
func (r *quoteGorm) LastDates(ctx context.Context, symbols []string) (map[string]string, error) {
	out := make(map[string]string, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	var rows []lastDateRow
	if err := r.db.WithContext(ctx).
		Model(&QuoteModel{}).
		Select("symbol, MAX(date) AS last_date").
		Where("symbol IN ?", symbols).
		Group("symbol").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Symbol] = row.LastDate
	}
	return out, nil
}
