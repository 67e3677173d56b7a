package domain

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type valueTask struct{}

func (valueTask) Call(context.Context) (any, error) { return "value", nil }

type sideEffectTask struct{ ran *bool }

func (s sideEffectTask) Run(context.Context) error {
	*s.ran = true
	return nil
}

func TestAdapt(t *testing.T) {
	ctx := context.Background()

	c, err := Adapt(valueTask{})
	require.NoError(t, err)
	v, err := c.Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	ran := false
	c, err = Adapt(sideEffectTask{ran: &ran})
	require.NoError(t, err)
	v, err = c.Call(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, ran)

	boom := errors.New("boom")
	c, err = Adapt(func(context.Context) error { return boom })
	require.NoError(t, err)
	_, err = c.Call(ctx)
	assert.ErrorIs(t, err, boom)

	c, err = Adapt(func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	v, _ = c.Call(ctx)
	assert.Equal(t, 1, v)
}

func TestAdapt_InvalidShape(t *testing.T) {
	for _, task := range []any{nil, 42, "task", func() {}} {
		_, err := Adapt(task)
		require.Error(t, err, "%T", task)
		assert.ErrorIs(t, err, ErrInvalidTaskShape)
		assert.Contains(t, err.Error(), "Callable")
		assert.Contains(t, err.Error(), "Runnable")
	}
}

func TestBinders(t *testing.T) {
	input := NewInput().WithID("bound")

	bc := BindCallable(valueTask{}, input)
	assert.Equal(t, "bound", bc.Input.ID())
	v, err := bc.Call(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	br := BindRunnable(RunnableFunc(func(context.Context) error { panic("lost") }), input, logger)
	require.NoError(t, br.Run(context.Background()))
	assert.Contains(t, buf.String(), "bound")
	assert.Contains(t, buf.String(), "lost")

	buf.Reset()
	br = BindRunnable(RunnableFunc(func(context.Context) error { return errors.New("ignored") }), input, logger)
	require.NoError(t, br.Run(context.Background()))
	assert.Contains(t, buf.String(), "ignored")
}

func TestExecutionTypeString(t *testing.T) {
	assert.Equal(t, "fixed-rate", FixedRate.String())
	assert.Equal(t, "cron", Cron.String())
	assert.Equal(t, "ExecutionType(9)", ExecutionType(9).String())
}
