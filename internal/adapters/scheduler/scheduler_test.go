package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamenight/internal/infrastructure/logging"
	"gamenight/internal/ports/input"
)

type fakeScheduler struct {
	calls                       atomic.Int32
	RunScheduledTransitionsFunc func(ctx context.Context) input.SweepSummary
}

func (f *fakeScheduler) RunScheduledTransitions(ctx context.Context) input.SweepSummary {
	f.calls.Add(1)
	if f.RunScheduledTransitionsFunc != nil {
		return f.RunScheduledTransitionsFunc(ctx)
	}
	return input.SweepSummary{Success: true, Errors: []string{}}
}

func TestTicker_SweepsOnStartAndEveryInterval(t *testing.T) {
	fake := &fakeScheduler{}
	ticker := NewTicker(fake, 10*time.Millisecond, logging.Discard())

	require.NoError(t, ticker.Start(context.Background()))
	require.Eventually(t, func() bool { return fake.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, ticker.Stop(context.Background()))

	stopped := fake.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, fake.calls.Load(), "no sweep after Stop")
}

func TestTicker_FirstSweepIsImmediate(t *testing.T) {
	fake := &fakeScheduler{}
	ticker := NewTicker(fake, time.Hour, logging.Discard())

	require.NoError(t, ticker.Start(context.Background()))
	require.Eventually(t, func() bool { return fake.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, ticker.Stop(context.Background()))
}

func TestTicker_StartTwiceAndStopIdle(t *testing.T) {
	fake := &fakeScheduler{}
	ticker := NewTicker(fake, time.Hour, logging.Discard())

	require.NoError(t, ticker.Stop(context.Background()), "stop before start is a no-op")
	require.NoError(t, ticker.Start(context.Background()))
	require.NoError(t, ticker.Start(context.Background()))
	require.Eventually(t, func() bool { return fake.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, ticker.Stop(context.Background()))
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestTicker_SurvivesPanickingSweep(t *testing.T) {
	fake := &fakeScheduler{
		RunScheduledTransitionsFunc: func(context.Context) input.SweepSummary {
			panic("store exploded")
		},
	}
	ticker := NewTicker(fake, 5*time.Millisecond, logging.Discard())

	require.NoError(t, ticker.Start(context.Background()))
	require.Eventually(t, func() bool { return fake.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, ticker.Stop(context.Background()))
}

func TestTicker_StopHonoursContext(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeScheduler{
		RunScheduledTransitionsFunc: func(context.Context) input.SweepSummary {
			<-release
			return input.SweepSummary{Success: true}
		},
	}
	ticker := NewTicker(fake, time.Hour, logging.Discard())
	require.NoError(t, ticker.Start(context.Background()))
	require.Eventually(t, func() bool { return fake.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ticker.Stop(ctx), context.DeadlineExceeded)
	close(release)
}

func TestSweepWorker_NeverFailsTheJob(t *testing.T) {
	fake := &fakeScheduler{
		RunScheduledTransitionsFunc: func(context.Context) input.SweepSummary {
			return input.SweepSummary{Errors: []string{"event x -> live: boom"}, Details: input.SweepDetails{Failed: 1}}
		},
	}
	worker := NewSweepWorker(fake, logging.Discard())

	assert.NoError(t, worker.Work(context.Background(), &river.Job[SweepArgs]{}))
	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, "event_lifecycle_sweep", SweepArgs{}.Kind())
	assert.Equal(t, 1, SweepArgs{}.InsertOpts().MaxAttempts)
}
