package workerpool

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

// FixedRateTrigger schedules each run a fixed period after the previous run was due.
// A run that overruns its period is followed immediately by the next; runs never overlap.
type FixedRateTrigger struct {
	Period time.Duration
}

// Next implements ports.Trigger.
func (t FixedRateTrigger) Next(scheduled, _ time.Time) (time.Time, bool, error) {
	return scheduled.Add(t.Period), true, nil
}

// Type implements ports.Trigger.
func (FixedRateTrigger) Type() domain.ExecutionType { return domain.FixedRate }

// FixedDelayTrigger schedules each run a fixed delay after the previous run completed.
type FixedDelayTrigger struct {
	Delay time.Duration
}

// Next implements ports.Trigger.
func (t FixedDelayTrigger) Next(_, finished time.Time) (time.Time, bool, error) {
	return finished.Add(t.Delay), true, nil
}

// Type implements ports.Trigger.
func (FixedDelayTrigger) Type() domain.ExecutionType { return domain.FixedDelay }

// CronTrigger schedules runs at the ticks of a cron expression.
type CronTrigger struct {
	expr string
}

// NewCronTrigger validates expr and returns a trigger for it.
func NewCronTrigger(expr string) (*CronTrigger, error) {
	if !gronx.New().IsValid(expr) {
		return nil, fmt.Errorf("invalid cron expression %q", expr)
	}
	return &CronTrigger{expr: expr}, nil
}

// Expr returns the cron expression.
func (t *CronTrigger) Expr() string { return t.expr }

// Next implements ports.Trigger.
func (t *CronTrigger) Next(_, finished time.Time) (time.Time, bool, error) {
	next, err := gronx.NextTickAfter(t.expr, finished, false)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cron %q: %w", t.expr, err)
	}
	return next, true, nil
}

// FirstDelay returns how long to wait, from now, for the first tick.
func (t *CronTrigger) FirstDelay(now time.Time) (time.Duration, error) {
	next, err := gronx.NextTickAfter(t.expr, now, false)
	if err != nil {
		return 0, fmt.Errorf("cron %q: %w", t.expr, err)
	}
	return next.Sub(now), nil
}

// Type implements ports.Trigger.
func (*CronTrigger) Type() domain.ExecutionType { return domain.Cron }

var (
	_ ports.Trigger = FixedRateTrigger{}
	_ ports.Trigger = FixedDelayTrigger{}
	_ ports.Trigger = (*CronTrigger)(nil)
)
