package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/jobs"
)

// simpleTask prints its payload after a short pause.
type simpleTask struct {
	payload string
	work    time.Duration
}

func (t simpleTask) Run(ctx context.Context) error {
	select {
	case <-time.After(t.work):
	case <-ctx.Done():
		return ctx.Err()
	}
	zerolog.Ctx(ctx).Info().Str("payload", t.payload).Msg("Executing task")
	return nil
}

// runDemoExamples schedules a handful of jobs exercising each scheduling mode.
func runDemoExamples(ctx context.Context, m *jobs.Manager, log zerolog.Logger) error {
	log.Info().Msg("Running demo examples")

	m.AddListener(func(e jobs.Event) {
		log.Debug().Stringer("event", e).Stringer("job", e.Handle).Msg("Lifecycle event")
	}, jobs.Not(jobs.MatchTypes(domain.EventShutdown)))

	// Example 1: a one-shot job, awaited through its handle.
	h, err := m.Schedule(simpleTask{payload: "hello from a one-shot job", work: 100 * time.Millisecond},
		domain.NewInput().WithName("one-shot"))
	if err != nil {
		return fmt.Errorf("schedule one-shot: %w", err)
	}
	if _, err := h.GetWithTimeout(ctx, 5*time.Second); err != nil {
		log.Warn().Err(err).Msg("One-shot job did not finish")
	}

	// Example 2: a recurring job at a fixed rate.
	if _, err := m.ScheduleAtFixedRate(simpleTask{payload: "I run every 5s"}, 0, 5*time.Second,
		domain.NewInput().WithName("recurring")); err != nil {
		return fmt.Errorf("schedule recurring: %w", err)
	}

	// Example 3: a cron job.
	if _, err := m.ScheduleCron(simpleTask{payload: "top of the minute"}, "* * * * *",
		domain.NewInput().WithName("cron")); err != nil {
		return fmt.Errorf("schedule cron: %w", err)
	}

	// Example 4: two jobs sharing a mutex. The first parks on a blocking condition and
	// hands the mutex to the second, which releases the condition.
	mutex := domain.NewMutex("demo")
	gate := jobs.NewBlockingCondition("gate", true)
	waiter, err := m.Schedule(func(ctx context.Context) (any, error) {
		if err := gate.WaitForTimeout(ctx, 10*time.Second); err != nil {
			return nil, err
		}
		return "gate released", nil
	}, domain.NewInput().WithName("waiter").WithMutex(mutex))
	if err != nil {
		return fmt.Errorf("schedule waiter: %w", err)
	}
	if _, err := m.Schedule(func(ctx context.Context) error {
		gate.Release()
		return nil
	}, domain.NewInput().WithName("releaser").WithMutex(mutex)); err != nil {
		return fmt.Errorf("schedule releaser: %w", err)
	}
	if v, err := waiter.GetWithTimeout(ctx, 15*time.Second); err != nil {
		log.Warn().Err(err).Msg("Waiter did not finish")
	} else {
		log.Info().Interface("result", v).Msg("Waiter finished")
	}

	// Example 5: a nested job run in the caller's context.
	v, err := m.RunNow(ctx, func(ctx context.Context) (any, error) {
		inner, err := m.RunNow(ctx, func(ctx context.Context) (any, error) { return 21, nil }, domain.NewInput())
		if err != nil {
			return nil, err
		}
		return inner.(int) * 2, nil
	}, domain.NewInput().WithName("run-now").WithPrincipal(domain.NamedPrincipal("demo")))
	if err != nil {
		return fmt.Errorf("run now: %w", err)
	}
	log.Info().Interface("result", v).Msg("RunNow finished")

	// Example 6: a fire-and-forget job whose failure is only logged.
	input := domain.NewInput().WithName("fire-and-forget")
	if _, err := m.Schedule(domain.BindRunnable(domain.RunnableFunc(func(ctx context.Context) error {
		return errors.New("nobody is listening")
	}), input, log), input); err != nil {
		return fmt.Errorf("schedule fire-and-forget: %w", err)
	}

	// Example 7: a delayed job cancelled before it runs.
	delayed, err := m.ScheduleDelayed(simpleTask{payload: "never printed"}, time.Minute, domain.NewInput().WithName("delayed"))
	if err != nil {
		return fmt.Errorf("schedule delayed: %w", err)
	}
	delayed.Cancel(false)

	m.Visit(func(h *jobs.Handle) bool {
		log.Info().Stringer("job", h).Msg("Live job")
		return true
	})
	log.Info().Msg("Demo examples have been scheduled")
	return nil
}
