package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"market_data/internal/app/config"
	"market_data/internal/app/di"
	"market_data/internal/app/router"
	quoteshandler "market_data/internal/feature/quotes/transport/handler"
	infradb "market_data/internal/platform/db"
	"market_data/internal/platform/metrics"
	"market_data/internal/platform/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(config.NewLogger(cfg, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
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
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Repository (Redis cache in front of the database when configured)
	store, closeStore, err := di.NewStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	market, err := di.NewMarket()
	if err != nil {
		return err
	}

	// Usecase
	m := metrics.New()
	quotes := di.NewQuotes(cfg, store, market, m)

	// 定期リフレッシュ
	if cfg.RefreshCron != "" && len(cfg.RefreshSymbols) > 0 {
		sched := scheduler.NewScheduler(quotes.Refresh, cfg.RefreshSymbols, cfg.RefreshTimeout)
		if err := sched.Register(cfg.RefreshCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Quotes:    quoteshandler.NewQuotesHandler(quotes.Resolve),
		DB:        sqlDB,
		Metrics:   m.Handler(),
		JWTSecret: cfg.JWTSecret,
	})
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set; /quotes is served without authentication")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
