package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"gamenight/internal/ports/input"
)

// SweepArgs is the periodic lifecycle sweep job. It carries no payload.
type SweepArgs struct{}

func (SweepArgs) Kind() string { return "event_lifecycle_sweep" }

// A failed sweep is not retried; the next period runs a fresh one.
func (SweepArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 1}
}

type SweepWorker struct {
	river.WorkerDefaults[SweepArgs]
	scheduler input.SchedulerUseCase
	logger    *slog.Logger
}

func NewSweepWorker(scheduler input.SchedulerUseCase, logger *slog.Logger) *SweepWorker {
	return &SweepWorker{scheduler: scheduler, logger: logger}
}

// Work runs one sweep. Per-event failures stay in the summary and never fail
// the job.
func (w *SweepWorker) Work(ctx context.Context, _ *river.Job[SweepArgs]) error {
	summary := w.scheduler.RunScheduledTransitions(ctx)
	if !summary.Success {
		w.logger.WarnContext(ctx, "river sweep reported errors",
			"failed", summary.Details.Failed,
			"errors", summary.Errors,
		)
	}
	return nil
}

// Timeout bounds a sweep so a stuck store cannot pin the worker.
func (w *SweepWorker) Timeout(*river.Job[SweepArgs]) time.Duration {
	return 5 * time.Minute
}

var _ Driver = (*River)(nil)

// River enqueues the sweep as a periodic job. Only the elected leader inserts
// periodic jobs, so several processes can share one database.
type River struct {
	client *river.Client[pgx.Tx]
	logger *slog.Logger
}

func NewRiver(pool *pgxpool.Pool, scheduler input.SchedulerUseCase, interval time.Duration, logger *slog.Logger) (*River, error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(scheduler, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) { return SweepArgs{}, nil },
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create river client: %w", err)
	}
	return &River{client: client, logger: logger}, nil
}

// MigrateRiver creates or upgrades River's own tables.
func MigrateRiver(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("migrate river: %w", err)
	}
	logger.Info("river migrations applied", "versions", len(res.Versions))
	return nil
}

func (r *River) Start(ctx context.Context) error {
	if err := r.client.Start(ctx); err != nil {
		return fmt.Errorf("start river client: %w", err)
	}
	r.logger.Info("river scheduler started")
	return nil
}

func (r *River) Stop(ctx context.Context) error {
	if err := r.client.Stop(ctx); err != nil {
		return fmt.Errorf("stop river client: %w", err)
	}
	r.logger.Info("river scheduler stopped")
	return nil
}
