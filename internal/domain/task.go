package domain

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
)

// ExecutionType defines the scheduling type of a submitted task.
type ExecutionType int

const (
	// OneTime tasks run only once.
	OneTime ExecutionType = iota
	// FixedRate tasks run at a fixed interval after the start of the previous run.
	FixedRate
	// FixedDelay tasks run at a fixed interval after the completion of the previous run.
	FixedDelay
	// Cron tasks run whenever their cron expression next matches.
	Cron
)

func (t ExecutionType) String() string {
	switch t {
	case OneTime:
		return "one-time"
	case FixedRate:
		return "fixed-rate"
	case FixedDelay:
		return "fixed-delay"
	case Cron:
		return "cron"
	default:
		return fmt.Sprintf("ExecutionType(%d)", int(t))
	}
}

// Callable is a value-producing unit of work.
type Callable interface {
	Call(ctx context.Context) (any, error)
}

// Runnable is a side-effect-only unit of work.
type Runnable interface {
	Run(ctx context.Context) error
}

// CallableFunc adapts a plain function to Callable.
type CallableFunc func(ctx context.Context) (any, error)

// Call implements Callable.
func (f CallableFunc) Call(ctx context.Context) (any, error) { return f(ctx) }

// RunnableFunc adapts a plain function to Runnable.
type RunnableFunc func(ctx context.Context) error

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context) error { return f(ctx) }

// Adapt normalizes a task into the canonical Callable shape.
// Callables pass through unchanged; Runnables run and yield a nil result.
// Anything else is a programmer error reported as ErrInvalidTaskShape.
func Adapt(task any) (Callable, error) {
	switch t := task.(type) {
	case nil:
		return nil, NewInvalidTaskShapeError(nil)
	case Callable:
		return t, nil
	case func(context.Context) (any, error):
		return CallableFunc(t), nil
	case Runnable:
		return CallableFunc(func(ctx context.Context) (any, error) {
			return nil, t.Run(ctx)
		}), nil
	case func(context.Context) error:
		return CallableFunc(func(ctx context.Context) (any, error) {
			return nil, t(ctx)
		}), nil
	default:
		return nil, NewInvalidTaskShapeError(task)
	}
}

// CallableWithInput pairs a canonical callable with the descriptor it was submitted with.
type CallableWithInput struct {
	Callable Callable
	Input    Input
}

// Call implements Callable.
func (c CallableWithInput) Call(ctx context.Context) (any, error) {
	return c.Callable.Call(ctx)
}

// RunnableWithInput pairs a fire-and-forget runnable with its descriptor.
// Failures are logged and swallowed, never propagated.
type RunnableWithInput struct {
	Runnable Runnable
	Input    Input
	Logger   zerolog.Logger
}

// Run executes the runnable, logging (instead of returning) errors and panics.
func (r RunnableWithInput) Run(ctx context.Context) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() { err = r.Runnable.Run(ctx) })
	if rec := pc.Recovered(); rec != nil {
		err = rec.AsError()
	}
	if err != nil {
		r.Logger.Error().Err(err).Str("job_id", r.Input.ID()).Msg("Unhandled error in fire-and-forget job")
	}
	return nil
}

// BindCallable pairs a callable with its job descriptor.
func BindCallable(c Callable, input Input) CallableWithInput {
	return CallableWithInput{Callable: c, Input: input}
}

// BindRunnable pairs a runnable with its job descriptor.
func BindRunnable(r Runnable, input Input, logger zerolog.Logger) RunnableWithInput {
	return RunnableWithInput{Runnable: r, Input: input, Logger: logger}
}
