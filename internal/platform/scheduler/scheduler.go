// Package scheduler runs periodic refreshes of a symbol watchlist.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher brings the stored series of the given symbols up to date.
type Refresher interface {
	Refresh(ctx context.Context, symbols []string) error
}

// Scheduler manages the cron-driven watchlist refresh.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	symbols   []string
	timeout   time.Duration
}

// NewScheduler creates a Scheduler refreshing symbols, bounding every run by timeout.
// Runs never overlap: a tick firing while the previous run is active is skipped.
func NewScheduler(refresher Refresher, symbols []string, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		refresher: refresher,
		symbols:   symbols,
		timeout:   timeout,
	}
}

// Register schedules the refresh on spec (standard five-field cron syntax).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "symbols", len(s.symbols))
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunNow refreshes the watchlist once. Errors are logged, never returned.
func (s *Scheduler) RunNow() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.refresher.Refresh(ctx, s.symbols); err != nil {
		slog.Error("scheduled refresh failed", "symbols", len(s.symbols), "error", err)
	}
}
