package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

var (
	// ErrCancelled is the result error of a cancelled future.
	ErrCancelled = errors.New("workerpool: future cancelled")
	// ErrNotDone is returned by Result before the future is terminal.
	ErrNotDone = errors.New("workerpool: future not done")
)

type futureState int

const (
	statePending futureState = iota
	stateRunning
	stateCompleted
	stateCancelled
)

var futureSeq atomic.Uint64

// Future is the native future of the worker pool. One-shot futures complete after their single run;
// periodic futures return to pending after each successful run until cancelled or failed.
type Future struct {
	id      uint64
	fn      domain.CallableFunc
	trigger ports.Trigger // nil for one-shot work

	mu        sync.Mutex
	state     futureState
	result    any
	err       error
	due       time.Time          // When the current (or next) run is due
	cancelRun context.CancelFunc // Interrupts the run in progress
	hooks     []func(domain.DeliveryMode)
	finished  bool

	done chan struct{}
}

var _ ports.Future = (*Future)(nil)

func newFuture(fn domain.CallableFunc, trigger ports.Trigger) *Future {
	return &Future{
		id:      futureSeq.Add(1),
		fn:      fn,
		trigger: trigger,
		done:    make(chan struct{}),
	}
}

// NewInlineFuture creates a one-shot future that is never submitted to a pool; it runs via Run.
func NewInlineFuture(fn domain.CallableFunc) *Future {
	return newFuture(fn, nil)
}

// ID implements ports.Future.
func (f *Future) ID() uint64 { return f.id }

// IsPeriodic implements ports.Future.
func (f *Future) IsPeriodic() bool { return f.trigger != nil }

// Done implements ports.Future.
func (f *Future) Done() <-chan struct{} { return f.done }

// IsCancelled implements ports.Future.
func (f *Future) IsCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == stateCancelled
}

// IsDone implements ports.Future.
func (f *Future) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == stateCompleted || f.state == stateCancelled
}

// IsRunning implements ports.Future.
func (f *Future) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == stateRunning
}

// Result implements ports.Future.
func (f *Future) Result() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case stateCompleted:
		return f.result, f.err
	case stateCancelled:
		return nil, ErrCancelled
	default:
		return nil, ErrNotDone
	}
}

// Cancel implements ports.Future. Hooks see DeliveryCaller.
func (f *Future) Cancel(interrupt bool) bool {
	return f.cancel(interrupt, domain.DeliveryCaller)
}

func (f *Future) cancel(interrupt bool, mode domain.DeliveryMode) bool {
	f.mu.Lock()
	if f.state == stateCompleted || f.state == stateCancelled {
		f.mu.Unlock()
		return false
	}
	if interrupt && f.cancelRun != nil {
		f.cancelRun()
	}
	f.state = stateCancelled
	f.mu.Unlock()

	f.finish(mode)
	return true
}

// OnComplete implements ports.Future. A hook registered after completion runs immediately.
func (f *Future) OnComplete(hook func(mode domain.DeliveryMode)) {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		hook(domain.DeliveryCaller)
		return
	}
	f.hooks = append(f.hooks, hook)
	f.mu.Unlock()
}

// Run implements ports.Future. Hooks see DeliveryCaller.
func (f *Future) Run(ctx context.Context) {
	f.run(ctx, domain.DeliveryCaller)
}

func (f *Future) setDue(t time.Time) {
	f.mu.Lock()
	f.due = t
	f.mu.Unlock()
}

func (f *Future) dueAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due
}

// run executes one run on the calling goroutine and reports whether a periodic
// future must be queued again for its next run.
func (f *Future) run(ctx context.Context, mode domain.DeliveryMode) bool {
	f.mu.Lock()
	if f.state != statePending {
		f.mu.Unlock()
		return false
	}
	f.state = stateRunning
	runCtx, cancel := context.WithCancel(ctx)
	f.cancelRun = cancel
	due := f.due
	f.mu.Unlock()

	result, err := f.call(runCtx)
	cancel()
	finishedAt := time.Now()

	f.mu.Lock()
	f.cancelRun = nil
	if f.state == stateCancelled {
		// Cancelled mid-run; already terminal.
		f.mu.Unlock()
		return false
	}
	if f.trigger != nil && err == nil {
		next, ok, terr := f.trigger.Next(due, finishedAt)
		if terr == nil && ok {
			f.state = statePending
			f.due = next
			f.mu.Unlock()
			return true
		}
		err = terr
	}
	f.state = stateCompleted
	f.result, f.err = result, err
	f.mu.Unlock()

	f.finish(mode)
	return false
}

func (f *Future) call(ctx context.Context) (result any, err error) {
	var pc panics.Catcher
	pc.Try(func() { result, err = f.fn(ctx) })
	if rec := pc.Recovered(); rec != nil {
		return nil, rec.AsError()
	}
	return result, err
}

// finish runs completion hooks and then releases waiters, exactly once.
func (f *Future) finish(mode domain.DeliveryMode) {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		return
	}
	f.finished = true
	hooks := f.hooks
	f.hooks = nil
	f.mu.Unlock()

	for _, hook := range hooks {
		hook(mode)
	}
	close(f.done)
}
