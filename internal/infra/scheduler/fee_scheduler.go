// Package scheduler runs recurring background jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/building-ledger/backend/internal/application/usecase/fee"
)

// FeeScheduler triggers the monthly fee batch. It ticks on a coarse
// interval and fires when the calendar month changes; the per-building
// run key makes an extra trigger harmless, so the scheduler can be
// restarted or even run on several replicas at once.
type FeeScheduler struct {
	batch         *fee.RunFeeBatchUseCase
	checkInterval time.Duration
	lastPeriod    string
}

// NewFeeScheduler creates a new fee scheduler.
func NewFeeScheduler(batch *fee.RunFeeBatchUseCase, checkInterval time.Duration) *FeeScheduler {
	return &FeeScheduler{
		batch:         batch,
		checkInterval: checkInterval,
	}
}

// Start begins the scheduler loop. It blocks until the context is cancelled.
func (s *FeeScheduler) Start(ctx context.Context) {
	slog.Info("Fee scheduler started", "check_interval", s.checkInterval)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Catch up immediately on start, then on ticker
	s.runIfNewPeriod(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Fee scheduler shutting down")
			return
		case <-ticker.C:
			s.runIfNewPeriod(ctx)
		}
	}
}

// runIfNewPeriod fires the batch once per calendar month.
func (s *FeeScheduler) runIfNewPeriod(ctx context.Context) {
	period := time.Now().UTC().Format("2006-01")
	if period == s.lastPeriod {
		return
	}

	slog.Info("Triggering monthly fee batch", "period", period)
	if _, err := s.batch.Execute(ctx, fee.RunFeeBatchInput{Period: period}); err != nil {
		slog.Error("Monthly fee batch failed", "period", period, "error", err)
		return
	}

	s.lastPeriod = period
}
