package worker

import (
	"context"
	"log/slog"
	"time"

	"revqr-engine/internal/pkg/config"
	"revqr-engine/internal/usecase/commands"
)

// Sweeper periodically expires stale pending purchases. Redemption already
// expires lazily on contact, so the sweep only has to catch codes nobody
// ever presents again.
type Sweeper struct {
	purchaseCommands commands.PurchaseCommands
	interval         time.Duration
	batchSize        int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(purchaseCommands commands.PurchaseCommands, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		purchaseCommands: purchaseCommands,
		interval:         cfg.Interval,
		batchSize:        cfg.BatchSize,
	}
}

func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Expiry sweeper started", "interval", s.interval, "batch_size", s.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	// Keep draining full batches; a backlog larger than one batch should not
	// wait for the next tick.
	for {
		swept, err := s.purchaseCommands.SweepExpirations(ctx, s.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Expiry sweep failed", "error", err.Error())
			return
		}
		if len(swept) > 0 {
			slog.Info("Expired stale purchases", "count", len(swept))
		}
		if len(swept) < s.batchSize {
			return
		}
	}
}
