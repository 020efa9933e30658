// Command refresh pulls new upstream data for a list of symbols into the store.
//
// Usage:
//
//	refresh [SYMBOL ...]
//
// Without arguments the REFRESH_SYMBOLS watchlist is refreshed.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"market_data/internal/app/config"
	"market_data/internal/app/di"
	infradb "market_data/internal/platform/db"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("refresh failed", "error", err)
		os.Exit(1)
	}
	slog.Info("refresh ok")
}

func run(args []string) error {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(config.NewLogger(cfg, os.Stderr))

	symbols := cfg.RefreshSymbols
	if len(args) > 0 {
		symbols = config.NormalizeSymbols(args)
	}
	if len(symbols) == 0 {
		return errors.New("no symbols given and REFRESH_SYMBOLS is empty")
	}

	dbCfg, err := infradb.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	db, err := infradb.Open(dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := infradb.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server may be caching these symbols; write through the same cache
	store, closeStore, err := di.NewStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	market, err := di.NewMarket()
	if err != nil {
		return err
	}
	quotes := di.NewQuotes(cfg, store, market, nil)

	ctx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
	defer cancel()

	return quotes.Refresh.Refresh(ctx, symbols)
}
