package jobs

import (
	"context"
	"errors"
	"sync"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

// Registry holds the live handles of a Manager. Reads take the shared lock, every mutation
// the exclusive one. cond is bound to the exclusive lock and broadcast on every removal.
type Registry struct {
	mu      sync.RWMutex
	cond    *sync.Cond
	handles map[uint64]*Handle
	order   []uint64 // Insertion order, for stable snapshots
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{handles: make(map[uint64]*Handle)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Add calls supplier while holding the write lock and registers the handle it returns.
// A supplier error wrapping ports.ErrRejected becomes an ErrJobExecution error. On any
// error nothing is registered; the half-created handle, if the supplier returned one,
// is passed back so the caller can cancel its native future.
func (r *Registry) Add(jobID string, supplier func() (*Handle, error)) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := supplier()
	if err != nil {
		if errors.Is(err, ports.ErrRejected) {
			return h, domain.NewJobExecutionError(jobID, err)
		}
		return h, err
	}
	id := h.ID()
	if _, ok := r.handles[id]; !ok {
		r.order = append(r.order, id)
	}
	r.handles[id] = h
	return h, nil
}

// Remove unregisters h. Returns false if it was not registered.
func (r *Registry) Remove(h *Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := h.ID()
	if _, ok := r.handles[id]; !ok {
		return false
	}
	delete(r.handles, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.cond.Broadcast()
	return true
}

// Clear unregisters every handle and returns them.
func (r *Registry) Clear() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.snapshotLocked()
	r.handles = make(map[uint64]*Handle)
	r.order = nil
	r.cond.Broadcast()
	return removed
}

// Contains reports whether h is registered.
func (r *Registry) Contains(h *Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[h.ID()]
	return ok
}

// IsEmpty reports whether no handle is registered.
func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Values returns an independent snapshot of the registered handles, in submission order.
func (r *Registry) Values() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() []*Handle {
	out := make([]*Handle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.handles[id])
	}
	return out
}

// AwaitRemoved blocks until h is no longer registered or ctx ends.
func (r *Registry) AwaitRemoved(ctx context.Context, h *Handle) error {
	id := h.ID()
	return r.await(ctx, func() bool {
		_, ok := r.handles[id]
		return !ok
	})
}

// AwaitEmpty blocks until no handle is registered or ctx ends.
func (r *Registry) AwaitEmpty(ctx context.Context) error {
	return r.await(ctx, func() bool { return len(r.handles) == 0 })
}

func (r *Registry) await(ctx context.Context, cond func() bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer stop()

	for !cond() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.cond.Wait()
	}
	return nil
}
