package jobs

import (
	"context"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

// Interceptor decorates the callable of a job. It receives the job descriptor and the next
// callable to invoke, and returns the callable to run in its place.
type Interceptor func(input domain.Input, next domain.Callable) domain.Callable

// Chain composes the interceptors wrapped around every job.
//
// The base chain, read bottom-to-top (innermost first):
//
//	task
//	context values   input values visible through domain.ValueFromContext
//	monitor          progress monitor of the handle via domain.MonitorFromContext
//	principal        input principal via domain.PrincipalFromContext
//	naming           pprof labels and a zerolog logger carrying job_id/job_name
//	translation      panics and errors become domain.JobError (outermost)
//
// Inner interceptors run between the base chain and the task, outer interceptors wrap the
// base chain. Within each list the first interceptor is the outermost.
type Chain struct {
	inner  []Interceptor
	outer  []Interceptor
	logger zerolog.Logger
}

// NewChain creates a chain with the given extension interceptors.
func NewChain(logger zerolog.Logger, inner, outer []Interceptor) Chain {
	return Chain{inner: inner, outer: outer, logger: logger}
}

// Build wraps task for one execution of the job described by input.
func (c Chain) Build(task domain.Callable, input domain.Input, monitor *domain.ProgressMonitor) domain.Callable {
	next := wrap(task, input, c.inner)
	base := []Interceptor{
		TranslateErrors,
		NameExecution(c.logger),
		BindPrincipal,
		InstallMonitor(monitor),
		BindContextValues,
	}
	next = wrap(next, input, base)
	return wrap(next, input, c.outer)
}

// wrap applies interceptors so that interceptors[0] ends up outermost.
func wrap(next domain.Callable, input domain.Input, interceptors []Interceptor) domain.Callable {
	for i := len(interceptors) - 1; i >= 0; i-- {
		next = interceptors[i](input, next)
	}
	return next
}

// BindContextValues exposes the input's execution-context map for the duration of the call.
func BindContextValues(input domain.Input, next domain.Callable) domain.Callable {
	return domain.CallableFunc(func(ctx context.Context) (any, error) {
		return next.Call(domain.WithValues(ctx, input.Values()))
	})
}

// InstallMonitor makes monitor available through domain.MonitorFromContext.
func InstallMonitor(monitor *domain.ProgressMonitor) Interceptor {
	return func(_ domain.Input, next domain.Callable) domain.Callable {
		return domain.CallableFunc(func(ctx context.Context) (any, error) {
			return next.Call(domain.WithMonitor(ctx, monitor))
		})
	}
}

// BindPrincipal binds the input's principal, if any.
func BindPrincipal(input domain.Input, next domain.Callable) domain.Callable {
	p := input.Principal()
	if p == nil {
		return next
	}
	return domain.CallableFunc(func(ctx context.Context) (any, error) {
		return next.Call(domain.WithPrincipal(ctx, p))
	})
}

// NameExecution labels the executing goroutine for profiling and stores a job-scoped
// logger in the context (retrieve it with zerolog.Ctx).
func NameExecution(logger zerolog.Logger) Interceptor {
	return func(input domain.Input, next domain.Callable) domain.Callable {
		return domain.CallableFunc(func(ctx context.Context) (result any, err error) {
			l := logger.With().Str("job_id", input.ID()).Str("job_name", input.Name()).Logger()
			labels := pprof.Labels("job_id", input.ID(), "job_name", input.Name())
			pprof.Do(l.WithContext(ctx), labels, func(ctx context.Context) {
				result, err = next.Call(ctx)
			})
			return result, err
		})
	}
}

// TranslateErrors turns panics and errors raised by the wrapped callable into
// domain.JobError values of kind ExecutionFailure (errors already of a JobError kind pass through).
func TranslateErrors(input domain.Input, next domain.Callable) domain.Callable {
	return domain.CallableFunc(func(ctx context.Context) (result any, err error) {
		var pc panics.Catcher
		pc.Try(func() { result, err = next.Call(ctx) })
		if rec := pc.Recovered(); rec != nil {
			return nil, domain.NewExecutionFailure(input.ID(), rec.AsError())
		}
		if err != nil {
			return nil, domain.NewExecutionFailure(input.ID(), err)
		}
		return result, nil
	})
}
