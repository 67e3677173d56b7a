// Package metrics turns job lifecycle events into Prometheus metrics and periodic stats logs.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/jobs"
	"github.com/ZanzyTHEbar/jobcore/internal/utils"
)

// Outcome labels of jobcore_jobs_finished_total.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Collector is a lifecycle listener exporting job metrics.
type Collector struct {
	events      *prometheus.CounterVec
	finished    *prometheus.CounterVec
	live        prometheus.Gauge
	runDuration prometheus.Histogram

	mu        sync.Mutex
	started   map[uint64]time.Time // AboutToRun time of the current run, by handle
	counts    map[domain.EventType]int64
	outcomes  map[string]int64
	totalRun  time.Duration
	runs      int64
	startTime time.Time

	logger zerolog.Logger
}

// NewCollector creates a collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer, logger zerolog.Logger) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobcore",
			Name:      "events_total",
			Help:      "Lifecycle events fired, by event type",
		}, []string{"type"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobcore",
			Name:      "jobs_finished_total",
			Help:      "Jobs that left the registry, by outcome",
		}, []string{"outcome"}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jobcore",
			Name:      "jobs_live",
			Help:      "Jobs currently registered",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jobcore",
			Name:      "job_run_duration_seconds",
			Help:      "Time from about-to-run to done",
			Buckets:   prometheus.DefBuckets,
		}),
		started:   make(map[uint64]time.Time),
		counts:    make(map[domain.EventType]int64),
		outcomes:  make(map[string]int64),
		startTime: time.Now(),
		logger:    logger.With().Str("component", "metrics").Logger(),
	}

	reg.MustRegister(c.events, c.finished, c.live, c.runDuration)
	return c
}

// Attach registers the collector as a listener of m.
func (c *Collector) Attach(m *jobs.Manager) jobs.ListenerID {
	return m.AddListener(c.Listen, nil)
}

// Listen records one lifecycle event.
func (c *Collector) Listen(e jobs.Event) {
	c.events.WithLabelValues(e.Type.String()).Inc()
	if e.Source != nil {
		c.live.Set(float64(e.Source.Registry().Len()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[e.Type]++

	if e.Handle == nil {
		return
	}
	id := e.Handle.ID()
	switch e.Type {
	case domain.EventAboutToRun:
		c.started[id] = time.Now()
	case domain.EventDone:
		if start, ok := c.started[id]; ok {
			d := time.Since(start)
			delete(c.started, id)
			c.runDuration.Observe(d.Seconds())
			c.totalRun += d
			c.runs++
		}
		outcome := outcomeOf(e.Handle.Err())
		c.outcomes[outcome]++
		c.finished.WithLabelValues(outcome).Inc()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case domain.KindOf(err) == domain.KindCancellation:
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

// Stats is an in-process snapshot of the collected values.
type Stats struct {
	Events     map[domain.EventType]int64
	Succeeded  int64
	Failed     int64
	Cancelled  int64
	AvgRunTime time.Duration
	Uptime     time.Duration
}

// GetStats returns the current statistics.
func (c *Collector) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Events:    make(map[domain.EventType]int64, len(c.counts)),
		Succeeded: c.outcomes[OutcomeSucceeded],
		Failed:    c.outcomes[OutcomeFailed],
		Cancelled: c.outcomes[OutcomeCancelled],
		Uptime:    time.Since(c.startTime),
	}
	for k, v := range c.counts {
		s.Events[k] = v
	}
	if c.runs > 0 {
		s.AvgRunTime = c.totalRun / time.Duration(c.runs)
	}
	return s
}

// PrintStats logs the current statistics, plus the manager's load when m is not nil.
func (c *Collector) PrintStats(m *jobs.Manager) {
	s := c.GetStats()
	ev := c.logger.Info().
		Int64("scheduled", s.Events[domain.EventScheduled]).
		Int64("rejected", s.Events[domain.EventRejected]).
		Int64("succeeded", s.Succeeded).
		Int64("failed", s.Failed).
		Int64("cancelled", s.Cancelled).
		Str("avg_run", utils.FormatDuration(s.AvgRunTime)).
		Str("uptime", utils.FormatDuration(s.Uptime))
	if m != nil {
		ms := m.Stats()
		ev = ev.Int("live", ms.Live).Int("active", ms.Pool.Active).Int("queued", ms.Pool.Queued).Int("delayed", ms.Pool.Delayed)
	}
	ev.Msg("Job stats")
}

// StartStatsMonitor logs stats every interval until ctx ends. The returned channel is
// closed when the monitor goroutine exited.
func (c *Collector) StartStatsMonitor(ctx context.Context, interval time.Duration, m *jobs.Manager) <-chan struct{} {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.PrintStats(m)
			case <-ctx.Done():
				return
			}
		}
	}()
	return stopped
}
