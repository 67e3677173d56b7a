package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

// BlockingCondition lets a running job suspend itself until another party releases the
// condition. A job waiting on it gives up its scheduling mutex, so jobs sharing that mutex
// can run meanwhile; the mutex is re-acquired before WaitFor returns.
type BlockingCondition struct {
	name string

	mu       sync.Mutex
	blocking bool
	release  chan struct{} // Closed when the current cohort is released
	waiters  map[*execution]struct{}
}

// NewBlockingCondition creates a condition, initially blocking or not.
func NewBlockingCondition(name string, blocking bool) *BlockingCondition {
	c := &BlockingCondition{
		name:    name,
		release: make(chan struct{}),
		waiters: make(map[*execution]struct{}),
	}
	if blocking {
		c.blocking = true
	} else {
		close(c.release)
	}
	return c
}

// Name returns the name given at construction.
func (c *BlockingCondition) Name() string { return c.name }

// IsBlocking reports whether WaitFor currently blocks.
func (c *BlockingCondition) IsBlocking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocking
}

// SetBlocking re-arms the condition for a new cohort of waiters (true) or releases it (false).
func (c *BlockingCondition) SetBlocking(blocking bool) {
	if !blocking {
		c.Release()
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.blocking {
		c.blocking = true
		c.release = make(chan struct{})
	}
}

// Release wakes every waiter. Releasing a condition that is not blocking has no effect.
func (c *BlockingCondition) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.blocking {
		return
	}
	c.blocking = false
	clear(c.waiters)
	close(c.release)
}

// Waiters returns the number of jobs currently parked on the condition.
func (c *BlockingCondition) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// WaitFor blocks until the condition is released or ctx ends (ErrInterrupted).
func (c *BlockingCondition) WaitFor(ctx context.Context) error {
	return c.wait(ctx, nil, 0)
}

// WaitForTimeout is WaitFor bounded by timeout (ErrTimeout).
func (c *BlockingCondition) WaitForTimeout(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return c.wait(ctx, timer.C, timeout)
}

func (c *BlockingCondition) wait(ctx context.Context, expired <-chan time.Time, timeout time.Duration) error {
	exec := executionFromContext(ctx)

	c.mu.Lock()
	if !c.blocking {
		c.mu.Unlock()
		return nil
	}
	released := c.release
	if exec != nil {
		c.waiters[exec] = struct{}{}
	}
	c.mu.Unlock()

	jobID := ""
	if exec != nil {
		jobID = exec.handle.Input().ID()
		exec.block()
	}

	var err error
	select {
	case <-released:
	case <-expired:
		err = domain.NewTimeoutError(jobID, timeout)
	case <-ctx.Done():
		err = domain.NewInterruptedError(jobID, ctx.Err())
	}

	if exec != nil {
		c.mu.Lock()
		delete(c.waiters, exec)
		c.mu.Unlock()
		if uerr := exec.unblock(ctx); uerr != nil && err == nil {
			err = domain.NewInterruptedError(jobID, uerr)
		}
	}
	return err
}
