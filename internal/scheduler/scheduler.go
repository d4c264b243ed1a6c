// Package scheduler drives slot activation from the server instead of
// relying on clients to poll process-queue.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/swift-add/website/internal/config"
)

// Processor runs one activation pass and reports how many slots changed hands.
type Processor interface {
	ProcessQueue(ctx context.Context) int
}

type Scheduler struct {
	proc     Processor
	interval time.Duration
}

func New(proc Processor, interval time.Duration) *Scheduler {
	return &Scheduler{proc: proc, interval: interval}
}

// Run makes one pass immediately, then one per interval, until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("activation scheduler started", "interval", s.interval.String())

	s.pass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("activation scheduler stopped")
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, config.ActivationPassTimeout)
	defer cancel()

	if n := s.proc.ProcessQueue(passCtx); n > 0 {
		slog.Debug("scheduled activation pass", "activated", n)
	}
}
