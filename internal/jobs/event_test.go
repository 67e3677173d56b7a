package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/jobcore/internal/domain"
)

func TestNewEvent_Validates(t *testing.T) {
	e, err := NewEvent(domain.EventDone, domain.DeliveryWorker, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EventDone, e.Type)
	assert.Equal(t, "done(worker)", e.String())

	_, err = NewEvent(domain.EventType(0), domain.DeliveryCaller, nil, nil)
	assert.Error(t, err)
	_, err = NewEvent(domain.EventType(99), domain.DeliveryCaller, nil, nil)
	assert.Error(t, err)
	_, err = NewEvent(domain.EventScheduled, domain.DeliveryMode(7), nil, nil)
	assert.Error(t, err)
}

func TestFilters(t *testing.T) {
	done := Event{Type: domain.EventDone}
	scheduled := Event{Type: domain.EventScheduled}

	isDone := MatchTypes(domain.EventDone)
	assert.True(t, isDone(done))
	assert.False(t, isDone(scheduled))
	assert.True(t, Not(isDone)(scheduled))

	both := And(MatchTypes(domain.EventDone, domain.EventScheduled), Not(isDone))
	assert.True(t, both(scheduled))
	assert.False(t, both(done))
	assert.True(t, And()(done))
}
