package domain

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Mutex is a scheduling rule: jobs whose descriptors share the same Mutex never run concurrently.
// A job holding it may hand it over temporarily while parked on a BlockingCondition.
type Mutex struct {
	name string
	sem  *semaphore.Weighted
}

// NewMutex creates a named mutual-exclusion rule.
func NewMutex(name string) *Mutex {
	return &Mutex{name: name, sem: semaphore.NewWeighted(1)}
}

// Name returns the rule's name.
func (m *Mutex) Name() string { return m.name }

// Acquire blocks until the mutex is free or ctx ends.
func (m *Mutex) Acquire(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// TryAcquire acquires the mutex only if it is free.
func (m *Mutex) TryAcquire() bool {
	return m.sem.TryAcquire(1)
}

// Release frees the mutex.
func (m *Mutex) Release() {
	m.sem.Release(1)
}
