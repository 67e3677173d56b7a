package eventbus

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
)

// Listener receives events. It is called synchronously on the goroutine that fired the event.
type Listener[E any] func(event E)

// Filter decides whether a listener is interested in an event. A nil filter accepts everything.
type Filter[E any] func(event E) bool

// ListenerID identifies a registration, so the same listener func can be added more than once
// and removed individually.
type ListenerID uint64

type registration[E any] struct {
	id       ListenerID
	listener Listener[E]
	filter   Filter[E]
}

// Bus is an in-memory, synchronous event bus. Listeners are delivered in registration order.
// A panicking listener is logged and does not prevent delivery to the remaining listeners.
type Bus[E any] struct {
	mu     sync.RWMutex // Protects regs
	regs   []registration[E]
	nextID atomic.Uint64
	logger zerolog.Logger
}

// New creates an empty Bus.
func New[E any](logger zerolog.Logger) *Bus[E] {
	return &Bus[E]{
		logger: logger.With().Str("component", "eventbus").Logger(),
	}
}

// Add registers listener, optionally restricted by filter.
func (b *Bus[E]) Add(listener Listener[E], filter Filter[E]) ListenerID {
	id := ListenerID(b.nextID.Add(1))
	b.mu.Lock()
	b.regs = append(b.regs, registration[E]{id: id, listener: listener, filter: filter})
	b.mu.Unlock()
	return id
}

// Remove unregisters the listener added under id. Returns false if it was not registered.
func (b *Bus[E]) Remove(id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.regs {
		if r.id == id {
			b.regs = append(b.regs[:i:i], b.regs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.regs)
}

// FireEvent delivers event to every listener whose filter accepts it. Listeners registered
// or removed while an event is delivered take effect from the next event on.
func (b *Bus[E]) FireEvent(event E) {
	b.mu.RLock()
	regs := b.regs
	b.mu.RUnlock()

	for _, r := range regs {
		if r.filter != nil && !b.accepts(r, event) {
			continue
		}
		b.deliver(r, event)
	}
}

func (b *Bus[E]) accepts(r registration[E], event E) bool {
	var ok bool
	var pc panics.Catcher
	pc.Try(func() { ok = r.filter(event) })
	if rec := pc.Recovered(); rec != nil {
		b.logger.Error().Uint64("listener", uint64(r.id)).Err(rec.AsError()).Msg("Event filter panicked")
		return false
	}
	return ok
}

func (b *Bus[E]) deliver(r registration[E], event E) {
	var pc panics.Catcher
	pc.Try(func() { r.listener(event) })
	if rec := pc.Recovered(); rec != nil {
		b.logger.Error().Uint64("listener", uint64(r.id)).Err(rec.AsError()).Msg("Event listener panicked")
	}
}
