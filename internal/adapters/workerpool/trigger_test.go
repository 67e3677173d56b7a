package workerpool

import (
	"container/heap"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

func TestTriggers(t *testing.T) {
	scheduled := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	finished := scheduled.Add(3 * time.Second)

	rate := FixedRateTrigger{Period: 5 * time.Second}
	next, ok, err := rate.Next(scheduled, finished)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, scheduled.Add(5*time.Second), next)
	assert.Equal(t, domain.FixedRate, rate.Type())

	delay := FixedDelayTrigger{Delay: 5 * time.Second}
	next, ok, err = delay.Next(scheduled, finished)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, finished.Add(5*time.Second), next)
	assert.Equal(t, domain.FixedDelay, delay.Type())
}

func TestCronTrigger(t *testing.T) {
	_, err := NewCronTrigger("not a cron")
	require.Error(t, err)

	ct, err := NewCronTrigger("*/15 * * * *")
	require.NoError(t, err)
	assert.Equal(t, "*/15 * * * *", ct.Expr())
	assert.Equal(t, domain.Cron, ct.Type())

	from := time.Date(2024, 1, 1, 10, 7, 0, 0, time.UTC)
	next, ok, err := ct.Next(time.Time{}, from)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC), next)

	d, err := ct.FirstDelay(from)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Minute, d)
}

func TestDelayQueue_OrdersByDueThenSeq(t *testing.T) {
	base := time.Now()
	a, b, c := NewInlineFuture(nil), NewInlineFuture(nil), NewInlineFuture(nil)

	var dq delayQueue
	heap.Push(&dq, &delayedItem{future: c, due: base.Add(2 * time.Second), seq: 3})
	heap.Push(&dq, &delayedItem{future: b, due: base, seq: 2})
	heap.Push(&dq, &delayedItem{future: a, due: base, seq: 1})

	due := dq.popDue(base.Add(time.Second))
	require.Len(t, due, 2)
	assert.Same(t, a, due[0])
	assert.Same(t, b, due[1])
	assert.Same(t, c, dq.Peek().future)
}
