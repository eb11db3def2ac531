// Package scheduler drives the periodic lifecycle sweep. Every driver calls
// the same SchedulerUseCase; the sweep itself is stateless and safe to overlap.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gamenight/internal/ports/input"
)

// Driver runs the sweep in the background between Start and Stop.
type Driver interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ Driver = (*Ticker)(nil)

// Ticker sweeps once on start, then every interval, inside this process.
type Ticker struct {
	scheduler input.SchedulerUseCase
	interval  time.Duration
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTicker(scheduler input.SchedulerUseCase, interval time.Duration, logger *slog.Logger) *Ticker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Ticker{scheduler: scheduler, interval: interval, logger: logger}
}

func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return nil
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
	t.logger.Info("ticker scheduler started", "interval", t.interval)
	return nil
}

// Stop cancels the loop and waits for an in-flight sweep, or for ctx.
func (t *Ticker) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		t.logger.Info("ticker scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Ticker) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	t.sweep(ctx)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.sweep(ctx)
		}
	}
}

func (t *Ticker) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("scheduled sweep panicked", "panic", r)
		}
	}()
	summary := t.scheduler.RunScheduledTransitions(ctx)
	if !summary.Success {
		t.logger.Warn("scheduled sweep reported errors",
			"failed", summary.Details.Failed,
			"errors", summary.Errors,
		)
	}
}
