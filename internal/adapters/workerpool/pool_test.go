package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPool(t *testing.T, workers, queue int) *WorkerPool {
	t.Helper()
	wp := NewWorkerPool(workers, queue, zerolog.Nop())
	t.Cleanup(func() {
		wp.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, wp.AwaitTermination(ctx))
	})
	return wp
}

func TestWorkerPool_RunsSubmittedFuture(t *testing.T) {
	wp := newTestPool(t, 2, 10)

	f := wp.NewFuture(func(ctx context.Context) (any, error) { return 42, nil }, nil)
	require.NoError(t, wp.Submit(f, 0))

	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("future did not complete")
	}
	v, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.False(t, f.IsCancelled())
}

func TestWorkerPool_Defaults(t *testing.T) {
	wp := newTestPool(t, 0, -1)
	assert.Equal(t, DefaultCoreSize, wp.GetCurrentWorkers())
	assert.Equal(t, defaultQueueSize, cap(wp.workerQueue))
}

func TestWorkerPool_DelayedSubmission(t *testing.T) {
	wp := newTestPool(t, 1, 10)

	start := time.Now()
	var ranAt atomic.Int64
	f := wp.NewFuture(func(ctx context.Context) (any, error) {
		ranAt.Store(time.Now().UnixNano())
		return nil, nil
	}, nil)
	require.NoError(t, wp.Submit(f, 50*time.Millisecond))
	assert.Equal(t, 1, wp.Stats().Delayed)

	<-f.Done()
	assert.GreaterOrEqual(t, time.Unix(0, ranAt.Load()).Sub(start), 50*time.Millisecond)
}

func TestWorkerPool_RejectsWhenSaturated(t *testing.T) {
	wp := newTestPool(t, 1, 0)

	release := make(chan struct{})
	started := make(chan struct{})
	blocker := wp.NewFuture(func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	}, nil)

	// Direct hand-off: wait until the single worker is idle and receiving.
	require.Eventually(t, func() bool { return wp.Submit(blocker, 0) == nil }, time.Second, time.Millisecond)
	<-started
	rejectedBefore := wp.Stats().Rejected

	extra := wp.NewFuture(func(ctx context.Context) (any, error) { return nil, nil }, nil)
	err := wp.Submit(extra, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrRejected))
	assert.Equal(t, rejectedBefore+1, wp.Stats().Rejected)

	close(release)
	<-blocker.Done()
}

func TestWorkerPool_RejectsAfterShutdown(t *testing.T) {
	wp := newTestPool(t, 1, 1)
	wp.Shutdown()
	assert.True(t, wp.IsShutdown())

	f := wp.NewFuture(func(ctx context.Context) (any, error) { return nil, nil }, nil)
	err := wp.Submit(f, 0)
	assert.ErrorIs(t, err, ports.ErrRejected)
}

func TestWorkerPool_ShutdownCancelsDelayedAndInterruptsRunning(t *testing.T) {
	wp := newTestPool(t, 1, 1)

	started := make(chan struct{})
	running := wp.NewFuture(func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, nil)
	require.NoError(t, wp.Submit(running, 0))
	<-started

	delayed := wp.NewFuture(func(ctx context.Context) (any, error) { return nil, nil }, nil)
	require.NoError(t, wp.Submit(delayed, time.Hour))

	wp.Shutdown()

	<-delayed.Done()
	assert.True(t, delayed.IsCancelled())

	<-running.Done()
	_, err := running.Result()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerPool_FixedRateRepeatsUntilCancelled(t *testing.T) {
	wp := newTestPool(t, 2, 10)

	var runs atomic.Int32
	f := wp.NewFuture(func(ctx context.Context) (any, error) {
		runs.Add(1)
		return nil, nil
	}, FixedRateTrigger{Period: 10 * time.Millisecond})
	require.True(t, f.IsPeriodic())
	require.NoError(t, wp.Submit(f, 0))

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, f.Cancel(false))
	<-f.Done()
	assert.True(t, f.IsCancelled())
	assert.False(t, f.Cancel(false))
}

func TestWorkerPool_PeriodicStopsOnError(t *testing.T) {
	wp := newTestPool(t, 1, 10)

	boom := errors.New("boom")
	var runs atomic.Int32
	f := wp.NewFuture(func(ctx context.Context) (any, error) {
		if runs.Add(1) == 2 {
			return nil, boom
		}
		return nil, nil
	}, FixedDelayTrigger{Delay: 5 * time.Millisecond})
	require.NoError(t, wp.Submit(f, 0))

	<-f.Done()
	_, err := f.Result()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), runs.Load())
	assert.False(t, f.IsCancelled())
}

func TestWorkerPool_Stats(t *testing.T) {
	wp := newTestPool(t, 3, 7)

	f := wp.NewFuture(func(ctx context.Context) (any, error) { return nil, nil }, nil)
	require.NoError(t, wp.Submit(f, 0))
	<-f.Done()

	require.Eventually(t, func() bool { return wp.Stats().Completed == 1 }, time.Second, time.Millisecond)
	s := wp.Stats()
	assert.Equal(t, 3, s.Workers)
	assert.True(t, s.Running)
	assert.Zero(t, s.Rejected)
}
