package workerpool

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

const (
	// DefaultCoreSize is the number of workers used when none is configured.
	DefaultCoreSize  = 5
	defaultQueueSize = 100
)

// WorkerPool manages a fixed pool of goroutines executing futures, plus a delay
// queue dispatching delayed and periodic futures when they become due.
type WorkerPool struct {
	workers     int
	workerQueue chan *Future   // Futures ready to run; unbuffered means direct hand-off only
	stopChan    chan struct{}  // Closed by Shutdown to stop workers and the dispatcher
	wake        chan struct{}  // Signals the dispatcher that the delay queue changed
	terminated  chan struct{}  // Closed once every pool goroutine exited
	eg          *errgroup.Group
	runCtx      context.Context // Parent of every run; cancelled by Shutdown
	cancelRuns  context.CancelFunc

	mu      sync.Mutex // Protects delayed, stopped, seq
	delayed delayQueue
	stopped bool
	seq     uint64

	active    atomic.Int64
	rejected  atomic.Int64
	completed atomic.Int64

	logger zerolog.Logger
}

var _ ports.TaskExecutor = (*WorkerPool)(nil)

// NewWorkerPool creates and starts a pool of coreSize workers.
// A non-positive coreSize selects DefaultCoreSize; a negative queueSize selects the default
// queue size, zero disables queueing so submissions succeed only when a worker is idle.
func NewWorkerPool(coreSize, queueSize int, logger zerolog.Logger) *WorkerPool {
	if coreSize <= 0 {
		coreSize = DefaultCoreSize
	}
	if queueSize < 0 {
		queueSize = defaultQueueSize
	}

	runCtx, cancel := context.WithCancel(context.Background())
	eg, runCtx := errgroup.WithContext(runCtx)

	wp := &WorkerPool{
		workers:     coreSize,
		workerQueue: make(chan *Future, queueSize),
		stopChan:    make(chan struct{}),
		wake:        make(chan struct{}, 1),
		terminated:  make(chan struct{}),
		eg:          eg,
		runCtx:      runCtx,
		cancelRuns:  cancel,
		logger:      logger.With().Str("component", "workerpool").Logger(),
	}

	wp.logger.Debug().Int("workers", coreSize).Int("queue_size", queueSize).Msg("Initializing worker pool")

	for i := 0; i < coreSize; i++ {
		id := i + 1
		wp.eg.Go(func() error { return wp.worker(id) })
	}
	wp.eg.Go(wp.dispatchLoop)

	go func() {
		_ = wp.eg.Wait()
		close(wp.terminated)
	}()

	return wp
}

// NewFuture implements ports.TaskExecutor.
func (wp *WorkerPool) NewFuture(fn domain.CallableFunc, trigger ports.Trigger) ports.Future {
	return newFuture(fn, trigger)
}

// Submit implements ports.TaskExecutor. Immediate submissions never block: if no worker
// and no queue slot is free the future is rejected.
func (wp *WorkerPool) Submit(pf ports.Future, delay time.Duration) error {
	f, ok := pf.(*Future)
	if !ok {
		return fmt.Errorf("workerpool: foreign future type %T", pf)
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped {
		wp.rejected.Add(1)
		return fmt.Errorf("%w: worker pool is shut down", ports.ErrRejected)
	}

	now := time.Now()
	if delay > 0 {
		f.setDue(now.Add(delay))
		wp.pushDelayedLocked(f, now.Add(delay))
		return nil
	}

	f.setDue(now)
	if !wp.TryAdd(f) {
		wp.rejected.Add(1)
		return fmt.Errorf("%w: worker pool saturated (%d workers, queue capacity %d)",
			ports.ErrRejected, wp.workers, cap(wp.workerQueue))
	}
	return nil
}

// TryAdd attempts to hand a future to the workers without blocking.
func (wp *WorkerPool) TryAdd(f *Future) bool {
	if f == nil {
		return false
	}
	select {
	case wp.workerQueue <- f:
		return true
	case <-wp.stopChan:
		return false
	default:
		return false // Queue full
	}
}

// pushDelayedLocked adds a future to the delay queue. Assumes mu is held.
func (wp *WorkerPool) pushDelayedLocked(f *Future, due time.Time) {
	wp.seq++
	heap.Push(&wp.delayed, &delayedItem{future: f, due: due, seq: wp.seq})
	select {
	case wp.wake <- struct{}{}:
	default:
	}
}

// worker is the execution loop for a single worker goroutine.
func (wp *WorkerPool) worker(id int) error {
	for {
		select {
		case f := <-wp.workerQueue:
			if wp.isStopped() {
				f.cancel(false, domain.DeliveryWorker)
				continue
			}
			wp.active.Add(1)
			again := f.run(wp.runCtx, domain.DeliveryWorker)
			wp.active.Add(-1)
			wp.completed.Add(1)
			if again {
				wp.reschedule(f)
			}
		case <-wp.stopChan:
			wp.logger.Trace().Int("worker", id).Msg("Worker stopping")
			return nil
		}
	}
}

// reschedule queues the next run of a periodic future. A series whose next run
// cannot be accepted because the pool is shutting down ends as cancelled.
func (wp *WorkerPool) reschedule(f *Future) {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		f.cancel(false, domain.DeliveryWorker)
		return
	}
	wp.pushDelayedLocked(f, f.dueAt())
	wp.mu.Unlock()
}

// dispatchLoop moves futures from the delay queue to the workers when they are due.
func (wp *WorkerPool) dispatchLoop() error {
	for {
		wp.mu.Lock()
		due := wp.delayed.popDue(time.Now())
		var wait time.Duration = -1
		if next := wp.delayed.Peek(); next != nil {
			wait = time.Until(next.due)
		}
		wp.mu.Unlock()

		for _, f := range due {
			if f.IsDone() {
				continue
			}
			// Already accepted; wait for room instead of rejecting.
			select {
			case wp.workerQueue <- f:
			case <-wp.stopChan:
				f.cancel(false, domain.DeliveryWorker)
			}
		}
		if len(due) > 0 {
			continue
		}

		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		if wait >= 0 {
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		select {
		case <-timerC:
		case <-wp.wake:
		case <-wp.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return nil
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// Shutdown implements ports.TaskExecutor. It is idempotent.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.stopChan)
	pending := make([]*Future, 0, wp.delayed.Len())
	for _, item := range wp.delayed {
		pending = append(pending, item.future)
	}
	wp.delayed = nil
	wp.mu.Unlock()

	wp.logger.Debug().Int("workers", wp.workers).Int("delayed", len(pending)).Msg("Worker pool stopping")

	wp.cancelRuns()
	for _, f := range pending {
		f.Cancel(false)
	}
	for {
		select {
		case f := <-wp.workerQueue:
			f.Cancel(false)
		default:
			return
		}
	}
}

// AwaitTermination implements ports.TaskExecutor.
func (wp *WorkerPool) AwaitTermination(ctx context.Context) error {
	select {
	case <-wp.terminated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsShutdown implements ports.TaskExecutor.
func (wp *WorkerPool) IsShutdown() bool {
	return wp.isStopped()
}

func (wp *WorkerPool) isStopped() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.stopped
}

// GetCurrentWorkers returns the number of worker goroutines.
func (wp *WorkerPool) GetCurrentWorkers() int {
	return wp.workers
}
