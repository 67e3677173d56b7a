package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

// State is the lifecycle state of a Handle, derived from its native future.
type State int

const (
	StateScheduled State = iota
	StateRunning
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Handle is the cancellable, awaitable result of a submitted job. Two handles are equal
// iff they wrap the same native future.
type Handle struct {
	future ports.Future
	input  domain.Input
	kind   domain.ExecutionType

	monitorOnce sync.Once
	monitor     *domain.ProgressMonitor

	// Closed once the Scheduled event was fired; runs wait on it.
	scheduled     chan struct{}
	scheduledOnce sync.Once

	// Closed once the terminal job left the registry, before Done listeners run.
	// Nil for handles not created by a Manager.
	settled     chan struct{}
	settledOnce sync.Once
}

func newHandle(input domain.Input, kind domain.ExecutionType) *Handle {
	return &Handle{
		input:     input,
		kind:      kind,
		scheduled: make(chan struct{}),
		settled:   make(chan struct{}),
	}
}

// NewHandle wraps an existing native future. Mostly useful to executors and tests;
// the Manager creates its own handles.
func NewHandle(f ports.Future, input domain.Input, kind domain.ExecutionType) *Handle {
	h := newHandle(input, kind)
	h.future = f
	h.settled = nil
	h.markScheduled()
	return h
}

func (h *Handle) markScheduled() {
	h.scheduledOnce.Do(func() { close(h.scheduled) })
}

func (h *Handle) markSettled() {
	if h.settled != nil {
		h.settledOnce.Do(func() { close(h.settled) })
	}
}

// finished is closed once Get may return the outcome.
func (h *Handle) finished() <-chan struct{} {
	if h.settled != nil {
		return h.settled
	}
	return h.future.Done()
}

// ID is the identity key of the wrapped native future.
func (h *Handle) ID() uint64 { return h.future.ID() }

// Input returns the job descriptor the handle was submitted with.
func (h *Handle) Input() domain.Input { return h.input }

// Kind returns how the job is executed (one-time or a periodic variant).
func (h *Handle) Kind() domain.ExecutionType { return h.kind }

// Monitor returns the progress monitor bound to this handle, creating it on first access.
func (h *Handle) Monitor() *domain.ProgressMonitor {
	h.monitorOnce.Do(func() { h.monitor = domain.NewProgressMonitor(h) })
	return h.monitor
}

func (h *Handle) IsPeriodic() bool  { return h.future.IsPeriodic() }
func (h *Handle) IsCancelled() bool { return h.future.IsCancelled() }
func (h *Handle) IsDone() bool      { return h.future.IsDone() }

// Done is closed once the job reached a terminal state, left the registry and its Done
// listeners returned.
func (h *Handle) Done() <-chan struct{} { return h.future.Done() }

// Cancel stops the job. With interrupt, a running body sees its context cancelled.
// For periodic jobs no further recurrences are run.
func (h *Handle) Cancel(interrupt bool) bool {
	return h.future.Cancel(interrupt)
}

// State derives the current lifecycle state.
func (h *Handle) State() State {
	switch {
	case h.future.IsCancelled():
		return StateCancelled
	case h.future.IsDone():
		return StateDone
	case h.future.IsRunning():
		return StateRunning
	default:
		return StateScheduled
	}
}

// Equal reports whether h and other wrap the same native future.
func (h *Handle) Equal(other *Handle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h == other || h.future.ID() == other.future.ID()
}

func (h *Handle) String() string {
	return fmt.Sprintf("Handle[%d %s %s %s]", h.ID(), h.input.Name(), h.kind, h.State())
}

// Get waits for the job to finish and returns its result. It returns as soon as the job
// left the registry, so it may be called from a Done listener. If ctx ends first,
// an ErrInterrupted error is returned and the job is left untouched.
func (h *Handle) Get(ctx context.Context) (any, error) {
	select {
	case <-h.finished():
		return h.result()
	default:
	}

	select {
	case <-h.finished():
		return h.result()
	case <-ctx.Done():
		return nil, domain.NewInterruptedError(h.input.ID(), ctx.Err())
	}
}

// GetWithTimeout is Get bounded by timeout. On expiry it returns an ErrTimeout error;
// the job keeps running.
func (h *Handle) GetWithTimeout(ctx context.Context, timeout time.Duration) (any, error) {
	select {
	case <-h.finished():
		return h.result()
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.finished():
		return h.result()
	case <-timer.C:
		return nil, domain.NewTimeoutError(h.input.ID(), timeout)
	case <-ctx.Done():
		return nil, domain.NewInterruptedError(h.input.ID(), ctx.Err())
	}
}

// Err returns the translated error of a finished job without waiting. It is nil while the
// job is live and after a successful run. Safe to call from Done listeners.
func (h *Handle) Err() error {
	if !h.future.IsDone() {
		return nil
	}
	_, err := h.result()
	return err
}

// result translates the outcome of a terminal native future.
func (h *Handle) result() (any, error) {
	if h.future.IsCancelled() {
		return nil, domain.NewCancellationError(h.input.ID())
	}
	v, err := h.future.Result()
	if err != nil {
		return nil, domain.NewExecutionFailure(h.input.ID(), err)
	}
	return v, nil
}
