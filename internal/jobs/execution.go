package jobs

import (
	"context"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

// execution records the job a goroutine is currently running on behalf of a Manager.
// It travels in the context of the job body; nested RunNow calls find it there.
// Only the goroutine running the job touches it.
type execution struct {
	manager *Manager
	handle  *Handle
	mode    domain.DeliveryMode
	mutex   *domain.Mutex // Scheduling mutex of the job, nil if none
	held    bool          // Whether mutex is currently acquired by this execution
}

type executionKey struct{}

func withExecution(ctx context.Context, e *execution) context.Context {
	return context.WithValue(ctx, executionKey{}, e)
}

func executionFromContext(ctx context.Context) *execution {
	e, _ := ctx.Value(executionKey{}).(*execution)
	return e
}

// CurrentHandle returns the handle of the job running with ctx, or nil outside of a job.
func CurrentHandle(ctx context.Context) *Handle {
	if e := executionFromContext(ctx); e != nil {
		return e.handle
	}
	return nil
}

// acquire takes the job's scheduling mutex, if any.
func (e *execution) acquire(ctx context.Context) error {
	if e.mutex == nil || e.held {
		return nil
	}
	if err := e.mutex.Acquire(ctx); err != nil {
		return err
	}
	e.held = true
	return nil
}

// release gives up the job's scheduling mutex so other jobs sharing it can run.
func (e *execution) release() {
	if e.held {
		e.held = false
		e.mutex.Release()
	}
}

// block is called when the job parks on a BlockingCondition.
func (e *execution) block() {
	e.release()
	e.manager.fire(domain.EventBlocked, e.mode, e.handle)
}

// unblock is called when the job resumes after a BlockingCondition was released.
// The scheduling mutex is re-acquired before the job continues.
func (e *execution) unblock(ctx context.Context) error {
	err := e.acquire(ctx)
	e.manager.fire(domain.EventUnblocked, e.mode, e.handle)
	return err
}
