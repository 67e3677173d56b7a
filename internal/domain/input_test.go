package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_CopyOnCustomize(t *testing.T) {
	base := NewInput().WithValue("a", 1)
	require.NotEmpty(t, base.ID())
	assert.Equal(t, base.ID(), base.Name())

	derived := base.WithValue("b", 2).WithName("derived").WithPrincipal(NamedPrincipal("bob"))

	_, ok := base.Value("b")
	assert.False(t, ok, "base must not see values added to a copy")
	assert.Equal(t, base.ID(), base.Name())
	assert.Nil(t, base.Principal())

	assert.Equal(t, "derived", derived.Name())
	assert.Equal(t, "bob", derived.Principal().Name())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, derived.Values())

	vals := derived.Values()
	vals["a"] = 100
	v, _ := derived.Value("a")
	assert.Equal(t, 1, v)
}

func TestInput_DistinctIDs(t *testing.T) {
	assert.NotEqual(t, NewInput().ID(), NewInput().ID())
	assert.Equal(t, "x", NewInput().WithID("x").ID())
}

func TestMutex(t *testing.T) {
	m := NewMutex("model")
	assert.Equal(t, "model", m.Name())

	require.NoError(t, m.Acquire(context.Background()))
	assert.False(t, m.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, m.Acquire(ctx))

	m.Release()
	assert.True(t, m.TryAcquire())
	m.Release()
}

type fakeCancellable struct{ cancelled bool }

func (f *fakeCancellable) Cancel(bool) bool {
	was := f.cancelled
	f.cancelled = true
	return !was
}

func (f *fakeCancellable) IsCancelled() bool { return f.cancelled }

func TestProgressMonitor(t *testing.T) {
	var nilMon *ProgressMonitor
	assert.False(t, nilMon.IsCancelled())
	assert.False(t, nilMon.Cancel(true))
	assert.False(t, IsCancelled(context.Background()))

	target := &fakeCancellable{}
	mon := NewProgressMonitor(target)
	ctx := WithMonitor(context.Background(), mon)

	assert.Same(t, mon, MonitorFromContext(ctx))
	assert.False(t, IsCancelled(ctx))
	assert.True(t, mon.Cancel(false))
	assert.True(t, IsCancelled(ctx))
	assert.False(t, mon.Cancel(false))
}

func TestEventTypesAndModes(t *testing.T) {
	for _, et := range EventTypes() {
		assert.NoError(t, et.Validate())
	}
	assert.Len(t, EventTypes(), 7)
	assert.Error(t, EventType(0).Validate())
	assert.Error(t, EventType(8).Validate())
	assert.Equal(t, "about_to_run", EventAboutToRun.String())

	assert.NoError(t, DeliveryCaller.Validate())
	assert.NoError(t, DeliveryWorker.Validate())
	assert.Error(t, DeliveryMode(0).Validate())
	assert.Equal(t, "worker", DeliveryWorker.String())
}
