package adapters

import (
	"context"
	"testing"

	"market_data/internal/feature/quotes/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// every pooled connection to ":memory:" would otherwise see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&QuoteModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedQuote creates a quote row directly in the database.
func seedQuote(t *testing.T, db *gorm.DB, symbol, date string, close float64) {
	t.Helper()

	err := db.Create(&QuoteModel{Symbol: symbol, Date: date, Close: close}).Error
	require.NoError(t, err, "failed to seed quote")
}

func allRows(t *testing.T, db *gorm.DB) []QuoteModel {
	t.Helper()

	var rows []QuoteModel
	require.NoError(t, db.Order("symbol ASC").Order("date ASC").Find(&rows).Error)
	return rows
}

func TestNewQuoteRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewQuoteRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestQuoteGorm_UpsertMany(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		quotes       []entity.Quote
		setupFunc    func(t *testing.T, db *gorm.DB)
		validateFunc func(t *testing.T, db *gorm.DB)
	}{
		{
			name: "success: insert rows for several symbols",
			quotes: []entity.Quote{
				{Symbol: "AAA", Date: "2020-01-01", Close: 10},
				{Symbol: "AAA", Date: "2020-01-02", Close: 11},
				{Symbol: "BBB", Date: "2020-01-01", Close: 2},
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				assert.Len(t, allRows(t, db), 3)
			},
		},
		{
			name:   "success: empty slice",
			quotes: []entity.Quote{},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				assert.Empty(t, allRows(t, db))
			},
		},
		{
			name: "success: existing (symbol, date) is replaced",
			quotes: []entity.Quote{
				{Symbol: "AAA", Date: "2020-01-01", Close: 99},
			},
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedQuote(t, db, "AAA", "2020-01-01", 10)
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				rows := allRows(t, db)
				require.Len(t, rows, 1, "row count should remain 1 after upsert")
				assert.Equal(t, 99.0, rows[0].Close, "Close should be updated")
			},
		},
		{
			name: "success: mixed insert and update",
			quotes: []entity.Quote{
				{Symbol: "AAA", Date: "2020-01-01", Close: 12},
				{Symbol: "AAA", Date: "2020-01-02", Close: 13},
			},
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedQuote(t, db, "AAA", "2020-01-01", 10)
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				rows := allRows(t, db)
				require.Len(t, rows, 2)
				assert.Equal(t, 12.0, rows[0].Close)
				assert.Equal(t, 13.0, rows[1].Close)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewQuoteRepository(db)

			if tt.setupFunc != nil {
				tt.setupFunc(t, db)
			}

			err := repo.UpsertMany(context.Background(), tt.quotes)

			require.NoError(t, err)
			tt.validateFunc(t, db)
		})
	}
}

func TestQuoteGorm_UpsertMany_Idempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewQuoteRepository(db)
	quotes := []entity.Quote{
		{Symbol: "AAA", Date: "2020-01-01", Close: 10},
		{Symbol: "AAA", Date: "2020-01-02", Close: 11},
		{Symbol: "BBB", Date: "2020-01-01", Close: 2},
	}

	require.NoError(t, repo.UpsertMany(context.Background(), quotes))
	first := allRows(t, db)

	require.NoError(t, repo.UpsertMany(context.Background(), quotes))
	second := allRows(t, db)

	assert.Equal(t, first, second, "applying the same records twice must not change stored rows")
}

func TestQuoteGorm_UpsertMany_LargeBatch(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewQuoteRepository(db)

	quotes := make([]entity.Quote, 0, 1200)
	for i := 0; i < 1200; i++ {
		d := 1 + i%28
		m := 1 + (i/28)%12
		y := 1980 + i/(28*12)
		quotes = append(quotes, entity.Quote{
			Symbol: "AAA",
			Date:   fmtDate(y, m, d),
			Close:  float64(i + 1),
		})
	}

	require.NoError(t, repo.UpsertMany(context.Background(), quotes))
	assert.Len(t, allRows(t, db), 1200)
}

func TestQuoteGorm_UpsertMany_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewQuoteRepository(db)
	seedQuote(t, db, "AAA", "2020-01-01", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.UpsertMany(ctx, []entity.Quote{
		{Symbol: "AAA", Date: "2020-01-01", Close: 50},
		{Symbol: "BBB", Date: "2020-01-01", Close: 2},
	})

	require.Error(t, err)
	rows := allRows(t, db)
	require.Len(t, rows, 1, "failed batch must leave the store unchanged")
	assert.Equal(t, 10.0, rows[0].Close)
}

func TestQuoteGorm_ReadSeries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		symbols   []string
		setupFunc func(t *testing.T, db *gorm.DB)
		want      map[string]entity.Series
	}{
		{
			name:    "success: grouped by symbol and ascending by date",
			symbols: []string{"AAA", "BBB"},
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedQuote(t, db, "AAA", "2020-01-03", 3)
				seedQuote(t, db, "BBB", "2020-01-01", 20)
				seedQuote(t, db, "AAA", "2020-01-01", 1)
				seedQuote(t, db, "AAA", "2020-01-02", 2)
			},
			want: map[string]entity.Series{
				"AAA": {{Date: "2020-01-01", Close: 1}, {Date: "2020-01-02", Close: 2}, {Date: "2020-01-03", Close: 3}},
				"BBB": {{Date: "2020-01-01", Close: 20}},
			},
		},
		{
			name:    "success: unknown symbol maps to empty series",
			symbols: []string{"AAA", "NOTFOUND"},
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedQuote(t, db, "AAA", "2020-01-01", 1)
			},
			want: map[string]entity.Series{
				"AAA":      {{Date: "2020-01-01", Close: 1}},
				"NOTFOUND": {},
			},
		},
		{
			name:    "success: filters out symbols not requested",
			symbols: []string{"BBB"},
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedQuote(t, db, "AAA", "2020-01-01", 1)
				seedQuote(t, db, "BBB", "2020-01-01", 2)
			},
			want: map[string]entity.Series{
				"BBB": {{Date: "2020-01-01", Close: 2}},
			},
		},
		{
			name:    "success: no symbols",
			symbols: nil,
			want:    map[string]entity.Series{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewQuoteRepository(db)
			if tt.setupFunc != nil {
				tt.setupFunc(t, db)
			}

			got, err := repo.ReadSeries(context.Background(), tt.symbols)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteGorm_LastDates(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewQuoteRepository(db)
	seedQuote(t, db, "AAA", "2021-05-31", 1)
	seedQuote(t, db, "AAA", "2021-06-01", 2)
	seedQuote(t, db, "AAA", "2019-01-01", 3)
	seedQuote(t, db, "BBB", "2020-02-02", 4)
	seedQuote(t, db, "CCC", "2022-02-02", 5)

	got, err := repo.LastDates(context.Background(), []string{"AAA", "BBB", "NEW"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AAA": "2021-06-01", "BBB": "2020-02-02"}, got)
	_, ok := got["NEW"]
	assert.False(t, ok, "symbol without rows must be absent")
}
