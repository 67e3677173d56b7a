package ports

//go:generate go tool mockgen -source=executor.go -destination=mocks/executor_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

// ErrRejected is wrapped by every error a TaskExecutor returns for a refused submission.
var ErrRejected = errors.New("submission rejected by executor")

// Trigger computes the next run of a periodic future.
// scheduled is the time the previous run was due, finished the time it completed.
// ok=false ends the series.
type Trigger interface {
	Next(scheduled, finished time.Time) (next time.Time, ok bool, err error)
	Type() domain.ExecutionType
}

// Future is the scheduler-native handle of one submitted unit of work.
// Implementations must be safe for concurrent use.
type Future interface {
	// ID is a process-unique identity key, stable for the future's lifetime.
	ID() uint64
	// Cancel moves the future to its terminal cancelled state; interrupt also cancels
	// the context of a run in progress. Returns false if the future was already terminal.
	Cancel(interrupt bool) bool
	IsCancelled() bool
	IsDone() bool
	IsPeriodic() bool
	// IsRunning reports whether a run is currently in progress.
	IsRunning() bool
	// Done is closed once the future is terminal and all completion hooks returned.
	Done() <-chan struct{}
	// Result returns the outcome of a terminal future.
	Result() (any, error)
	// OnComplete registers a hook invoked once, before Done is closed. mode tells whether
	// the future was completed by an executor goroutine (DeliveryWorker) or by the goroutine
	// that ran it in-line or cancelled it (DeliveryCaller).
	OnComplete(hook func(mode domain.DeliveryMode))
	// Run executes the future on the calling goroutine. Used for in-line execution.
	Run(ctx context.Context)
}

// TaskExecutor defines the port for submitting futures to an execution engine (like a worker pool).
// This decouples the job manager from the specific implementation of task execution.
type TaskExecutor interface {
	// NewFuture prepares a future without submitting it; trigger is nil for one-shot work.
	NewFuture(fn domain.CallableFunc, trigger Trigger) Future

	// Submit queues a future to run as soon as a worker is free (or after delay).
	// Returns an error wrapping ErrRejected if it cannot be accepted.
	Submit(f Future, delay time.Duration) error

	// Shutdown stops accepting work, cancels queued futures and interrupts running ones.
	Shutdown()

	// AwaitTermination blocks until every executor goroutine exited or ctx ends.
	AwaitTermination(ctx context.Context) error

	// IsShutdown reports whether Shutdown was called.
	IsShutdown() bool
}
