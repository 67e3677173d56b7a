package jobs

import (
	"fmt"
	"slices"

	"github.com/ZanzyTHEbar/jobcore/internal/adapters/eventbus"
	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

// Event is an immutable lifecycle notification fired by a Manager.
type Event struct {
	Type   domain.EventType
	Mode   domain.DeliveryMode
	Source *Manager
	Handle *Handle // nil for manager-level events such as EventShutdown
}

// NewEvent builds an Event, rejecting unknown event types and delivery modes.
func NewEvent(t domain.EventType, mode domain.DeliveryMode, source *Manager, h *Handle) (Event, error) {
	if err := t.Validate(); err != nil {
		return Event{}, err
	}
	if err := mode.Validate(); err != nil {
		return Event{}, err
	}
	return Event{Type: t, Mode: mode, Source: source, Handle: h}, nil
}

func (e Event) String() string {
	if e.Handle == nil {
		return fmt.Sprintf("%s(%s)", e.Type, e.Mode)
	}
	return fmt.Sprintf("%s(%s, job=%s)", e.Type, e.Mode, e.Handle.Input().ID())
}

type (
	// Listener receives lifecycle events on the goroutine that fired them.
	Listener = eventbus.Listener[Event]
	// Filter restricts the events a listener receives.
	Filter = eventbus.Filter[Event]
	// ListenerID identifies a listener registration.
	ListenerID = eventbus.ListenerID
)

// MatchTypes accepts events of any of the given types.
func MatchTypes(types ...domain.EventType) Filter {
	return func(e Event) bool {
		return slices.Contains(types, e.Type)
	}
}

// MatchHandle accepts events about h.
func MatchHandle(h *Handle) Filter {
	return func(e Event) bool {
		return h.Equal(e.Handle)
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(e Event) bool { return !f(e) }
}

// And accepts events accepted by every filter.
func And(filters ...Filter) Filter {
	return func(e Event) bool {
		for _, f := range filters {
			if !f(e) {
				return false
			}
		}
		return true
	}
}
