package taskqueue

import (
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultOptions verifies New() with no options: synchronous next-tick
// fallback, no logger, metrics disabled.
func TestDefaultOptions(t *testing.T) {
	q, err := New()
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Nil(t, q.Context.core.schedule)
	assert.Nil(t, q.Context.core.logger)
	assert.Nil(t, q.Context.core.runWarn)
	assert.Nil(t, q.Context.core.metrics)
	assert.Equal(t, MetricsSnapshot{}, q.Metrics())
}

// TestNilOptionsSkipped verifies nil options are tolerated.
func TestNilOptionsSkipped(t *testing.T) {
	q, err := New(nil, WithMetrics(true), nil)
	require.NoError(t, err)
	require.NotNil(t, q.Context.core.metrics)
}

// TestWithScheduler_NilRejected verifies WithScheduler(nil) surfaces
// ErrNilScheduler from New.
func TestWithScheduler_NilRejected(t *testing.T) {
	q, err := New(WithScheduler(nil))
	assert.Nil(t, q)
	require.ErrorIs(t, err, ErrNilScheduler)
}

// TestWithRunWarnRates_EmptyRejected verifies WithRunWarnRates({}) surfaces
// ErrNoWarnRates from New.
func TestWithRunWarnRates_EmptyRejected(t *testing.T) {
	q, err := New(WithRunWarnRates(nil))
	assert.Nil(t, q)
	require.ErrorIs(t, err, ErrNoWarnRates)

	q, err = New(WithRunWarnRates(map[time.Duration]int{}))
	assert.Nil(t, q)
	require.ErrorIs(t, err, ErrNoWarnRates)
}

// TestWithLogger verifies the logger option attaches, and that the warn
// limiter is only constructed alongside a logger.
func TestWithLogger(t *testing.T) {
	logger := logiface.New[logiface.Event](
		logiface.WithWriter[logiface.Event](logiface.NewWriterFunc(func(event logiface.Event) error {
			// Discard events for this test
			return nil
		})),
	)

	q, err := New(WithLogger(logger))
	require.NoError(t, err)
	assert.Same(t, logger, q.Context.core.logger)
	assert.NotNil(t, q.Context.core.runWarn)

	// nil logger is equivalent to omitting the option
	q, err = New(WithLogger(nil))
	require.NoError(t, err)
	assert.Nil(t, q.Context.core.logger)
	assert.Nil(t, q.Context.core.runWarn)
}

// TestWithScheduler_DefersFirstStep verifies the next-tick contract: tasks
// pushed in the same synchronous turn as the Run call are visible before the
// first task executes.
func TestWithScheduler_DefersFirstStep(t *testing.T) {
	var ticks []func()
	q, err := New(WithScheduler(func(fn func()) {
		ticks = append(ticks, fn)
	}))
	require.NoError(t, err)

	var order []string
	q.PushTask(NewTask(func(done func(), _ *Context) {
		order = append(order, "A")
		done()
	}))

	var doneRan bool
	q.Run(func() { doneRan = true })

	// still the same synchronous turn: nothing has executed yet
	require.Empty(t, order)
	assert.True(t, q.Running())

	// work queued after Run, within the same turn, must be seen by the drain
	q.PushTask(NewTask(func(done func(), _ *Context) {
		order = append(order, "B")
		done()
	}))

	// next turn
	require.Len(t, ticks, 1)
	ticks[0]()

	assert.Equal(t, []string{"A", "B"}, order)
	assert.True(t, doneRan)
	assert.False(t, q.Running())
}

// TestWithScheduler_NestedDrains verifies the full nesting protocol holds
// when every drain step crosses an asynchronous (deferred) boundary.
func TestWithScheduler_NestedDrains(t *testing.T) {
	var ticks []func()
	q, err := New(WithScheduler(func(fn func()) {
		ticks = append(ticks, fn)
	}))
	require.NoError(t, err)

	var order []string
	q.Push(func(sub *Context) {
		order = append(order, "A")
		sub.Push(func(*Context) { order = append(order, "A.1") })
		sub.Push(func(*Context) { order = append(order, "A.2") })
	})
	q.Push(func(*Context) { order = append(order, "B") })

	var doneRan bool
	q.Run(func() { doneRan = true })

	// pump deferred steps to quiescence, FIFO
	for len(ticks) > 0 {
		fn := ticks[0]
		ticks = ticks[1:]
		fn()
	}

	assert.Equal(t, []string{"A", "A.1", "A.2", "B"}, order)
	assert.True(t, doneRan)
}
