package domain

import (
	"maps"

	"github.com/ZanzyTHEbar/jobcore/internal/utils"
)

// Principal identifies the security subject a job runs on behalf of.
type Principal interface {
	Name() string
}

// NamedPrincipal is a Principal identified by name only.
type NamedPrincipal string

// Name implements Principal.
func (p NamedPrincipal) Name() string { return string(p) }

// Input is the job descriptor attached to a task before submission.
// It is a value type: every With method returns a modified copy and leaves the receiver untouched.
type Input struct {
	id        string         // Unique identifier, used in diagnostics and errors
	name      string         // Naming hint for logs and goroutine labels
	principal Principal      // Subject bound for the duration of the call
	values    map[string]any // Execution context, copied on customize
	mutex     *Mutex         // Optional mutual-exclusion rule shared with sibling jobs
}

// NewInput creates a descriptor with a generated identifier.
func NewInput() Input {
	return Input{id: utils.GenerateJobID()}
}

// ID returns the descriptor identifier.
func (in Input) ID() string { return in.id }

// Name returns the naming hint, falling back to the identifier.
func (in Input) Name() string {
	if in.name == "" {
		return in.id
	}
	return in.name
}

// Principal returns the bound principal, or nil.
func (in Input) Principal() Principal { return in.principal }

// Mutex returns the mutual-exclusion rule, or nil.
func (in Input) Mutex() *Mutex { return in.mutex }

// Value returns a single execution-context value.
func (in Input) Value(key string) (any, bool) {
	v, ok := in.values[key]
	return v, ok
}

// Values returns an independent copy of the execution-context map.
func (in Input) Values() map[string]any {
	return maps.Clone(in.values)
}

// WithID returns a copy with the given identifier.
func (in Input) WithID(id string) Input {
	in.id = id
	return in
}

// WithName returns a copy with the given naming hint.
func (in Input) WithName(name string) Input {
	in.name = name
	return in
}

// WithPrincipal returns a copy bound to the given principal.
func (in Input) WithPrincipal(p Principal) Input {
	in.principal = p
	return in
}

// WithMutex returns a copy that shares the given mutual-exclusion rule.
func (in Input) WithMutex(m *Mutex) Input {
	in.mutex = m
	return in
}

// WithValue returns a copy whose execution context also holds key=value.
func (in Input) WithValue(key string, value any) Input {
	values := make(map[string]any, len(in.values)+1)
	maps.Copy(values, in.values)
	values[key] = value
	in.values = values
	return in
}
