package metrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/jobs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManager(t *testing.T) *jobs.Manager {
	t.Helper()
	m := jobs.NewManager(jobs.WithPoolSize(2, 10))
	t.Cleanup(func() {
		m.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, m.AwaitTermination(ctx))
	})
	return m
}

func TestCollector_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, zerolog.Nop())
	m := newManager(t)
	c.Attach(m)

	ok, err := m.Schedule(func(ctx context.Context) error { return nil }, domain.NewInput())
	require.NoError(t, err)
	bad, err := m.Schedule(func(ctx context.Context) error { return errors.New("boom") }, domain.NewInput())
	require.NoError(t, err)
	never, err := m.ScheduleDelayed(func(ctx context.Context) error { return nil }, time.Hour, domain.NewInput())
	require.NoError(t, err)
	never.Cancel(false)

	for _, h := range []*jobs.Handle{ok, bad, never} {
		_, _ = h.Get(context.Background())
		<-h.Done()
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(c.events.WithLabelValues("scheduled")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.events.WithLabelValues("done")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.events.WithLabelValues("about_to_run")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.finished.WithLabelValues(OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.finished.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.finished.WithLabelValues(OutcomeCancelled)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.runDuration))

	s := c.GetStats()
	assert.Equal(t, int64(3), s.Events[domain.EventScheduled])
	assert.Equal(t, int64(1), s.Succeeded)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, int64(1), s.Cancelled)
	assert.Equal(t, int64(2), c.runs)
}

func TestCollector_BodyReturningCancellationCountsAsFailed(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry(), zerolog.Nop())
	m := newManager(t)
	c.Attach(m)

	h, err := m.Schedule(func(ctx context.Context) error {
		return fmt.Errorf("nested: %w", domain.NewCancellationError("child"))
	}, domain.NewInput())
	require.NoError(t, err)
	<-h.Done()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.finished.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.finished.WithLabelValues(OutcomeCancelled)))
}

func TestCollector_LiveGaugeTracksRegistry(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry(), zerolog.Nop())
	m := newManager(t)
	c.Attach(m)

	_, err := m.ScheduleDelayed(func(ctx context.Context) error { return nil }, time.Hour, domain.NewInput())
	require.NoError(t, err)
	_, err = m.ScheduleDelayed(func(ctx context.Context) error { return nil }, time.Hour, domain.NewInput())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.live))
}

func TestCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg, zerolog.Nop())
	assert.Panics(t, func() { NewCollector(reg, zerolog.Nop()) })
}

func TestCollector_PrintStats(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(prometheus.NewRegistry(), zerolog.New(&buf))
	m := newManager(t)
	c.Attach(m)

	_, err := m.RunNow(context.Background(), func(ctx context.Context) error { return nil }, domain.NewInput())
	require.NoError(t, err)

	c.PrintStats(m)
	assert.Contains(t, buf.String(), `"message":"Job stats"`)
	assert.Contains(t, buf.String(), `"succeeded":1`)
	assert.Contains(t, buf.String(), `"live":0`)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCollector_StatsMonitorStops(t *testing.T) {
	var buf syncBuffer
	c := NewCollector(prometheus.NewRegistry(), zerolog.New(&buf))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := c.StartStatsMonitor(ctx, 5*time.Millisecond, nil)
	require.Eventually(t, func() bool { return strings.Contains(buf.String(), "Job stats") }, 2*time.Second, time.Millisecond)
	cancel()
	<-stopped
}
