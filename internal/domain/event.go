package domain

import "fmt"

// EventType is the closed set of job lifecycle transitions.
type EventType int

const (
	// EventScheduled fires after a job was accepted by the worker pool.
	EventScheduled EventType = iota + 1
	// EventRejected fires when the worker pool refused a job.
	EventRejected
	// EventAboutToRun fires immediately before a job body runs.
	EventAboutToRun
	// EventDone fires once a job reached its terminal state.
	EventDone
	// EventBlocked fires when a running job parks on a blocking condition.
	EventBlocked
	// EventUnblocked fires when a parked job resumes.
	EventUnblocked
	// EventShutdown fires once when the manager shuts down.
	EventShutdown
)

func (t EventType) String() string {
	switch t {
	case EventScheduled:
		return "scheduled"
	case EventRejected:
		return "rejected"
	case EventAboutToRun:
		return "about_to_run"
	case EventDone:
		return "done"
	case EventBlocked:
		return "blocked"
	case EventUnblocked:
		return "unblocked"
	case EventShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Validate rejects values outside the enumeration.
func (t EventType) Validate() error {
	if t < EventScheduled || t > EventShutdown {
		return fmt.Errorf("unknown event type %d", int(t))
	}
	return nil
}

// EventTypes lists every event type in declaration order.
func EventTypes() []EventType {
	return []EventType{EventScheduled, EventRejected, EventAboutToRun, EventDone, EventBlocked, EventUnblocked, EventShutdown}
}

// DeliveryMode tells listeners which goroutine fired an event.
type DeliveryMode int

const (
	// DeliveryCaller events fire on the goroutine that called into the manager.
	DeliveryCaller DeliveryMode = iota + 1
	// DeliveryWorker events fire on a worker goroutine of the pool.
	DeliveryWorker
)

func (m DeliveryMode) String() string {
	switch m {
	case DeliveryCaller:
		return "caller"
	case DeliveryWorker:
		return "worker"
	default:
		return fmt.Sprintf("DeliveryMode(%d)", int(m))
	}
}

// Validate rejects values outside the enumeration.
func (m DeliveryMode) Validate() error {
	if m != DeliveryCaller && m != DeliveryWorker {
		return fmt.Errorf("unknown delivery mode %d", int(m))
	}
	return nil
}
