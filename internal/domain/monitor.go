package domain

import "context"

// Cancellable is anything a ProgressMonitor can query and cancel.
type Cancellable interface {
	Cancel(interrupt bool) bool
	IsCancelled() bool
}

// ProgressMonitor lets a running task ask whether it has been cancelled.
// It is bound 1:1 to the handle of the running job.
type ProgressMonitor struct {
	target Cancellable
}

// NewProgressMonitor binds a monitor to its target.
func NewProgressMonitor(target Cancellable) *ProgressMonitor {
	return &ProgressMonitor{target: target}
}

// IsCancelled reports whether the monitored job was cancelled.
func (m *ProgressMonitor) IsCancelled() bool {
	if m == nil || m.target == nil {
		return false
	}
	return m.target.IsCancelled()
}

// Cancel cancels the monitored job.
func (m *ProgressMonitor) Cancel(interrupt bool) bool {
	if m == nil || m.target == nil {
		return false
	}
	return m.target.Cancel(interrupt)
}

type ctxKey int

const (
	ctxKeyMonitor ctxKey = iota
	ctxKeyPrincipal
	ctxKeyValues
)

// WithMonitor installs a monitor for the lifetime of ctx.
func WithMonitor(ctx context.Context, m *ProgressMonitor) context.Context {
	return context.WithValue(ctx, ctxKeyMonitor, m)
}

// MonitorFromContext returns the installed monitor, or nil outside a job.
func MonitorFromContext(ctx context.Context) *ProgressMonitor {
	m, _ := ctx.Value(ctxKeyMonitor).(*ProgressMonitor)
	return m
}

// IsCancelled reports whether the job running under ctx was cancelled.
func IsCancelled(ctx context.Context) bool {
	return MonitorFromContext(ctx).IsCancelled()
}

// WithPrincipal binds a principal for the lifetime of ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the bound principal, or nil.
func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(ctxKeyPrincipal).(Principal)
	return p
}

// WithValues binds an execution-context map for the lifetime of ctx.
// The map must not be mutated afterwards.
func WithValues(ctx context.Context, values map[string]any) context.Context {
	return context.WithValue(ctx, ctxKeyValues, values)
}

// ValueFromContext reads one entry of the bound execution-context map.
func ValueFromContext(ctx context.Context, key string) (any, bool) {
	values, _ := ctx.Value(ctxKeyValues).(map[string]any)
	v, ok := values[key]
	return v, ok
}
