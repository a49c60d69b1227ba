package taskqueue

import (
	"errors"
	"sync/atomic"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// Standard errors.
var (
	// ErrNilScheduler is returned by New when WithScheduler was given a nil
	// scheduler.
	ErrNilScheduler = errors.New("taskqueue: nil scheduler")

	// ErrNoWarnRates is returned by New when WithRunWarnRates was given an
	// empty rate map.
	ErrNoWarnRates = errors.New("taskqueue: no warn rates")
)

// Scheduler is the next-tick primitive consumed by the queue: it must invoke
// fn after the current synchronous execution completes, and before any I/O
// callbacks already scheduled by the host (functionally a microtask).
//
// Event loop integrations typically adapt their microtask primitive directly,
// e.g. a method of shape ScheduleMicrotask(fn func()) error becomes
//
//	taskqueue.WithScheduler(func(fn func()) { _ = loop.ScheduleMicrotask(fn) })
type Scheduler func(fn func())

// core is the per-queue shared state, referenced by every context in the
// queue's selection chain.
type core struct {
	schedule Scheduler // nil = synchronous fallback
	logger   *logiface.Logger[logiface.Event]
	runWarn  *catrate.Limiter // nil unless a logger is attached
	metrics  *queueMetrics    // nil unless enabled
	id       uint64
}

// Queue is the scheduler façade applications interact with: the root
// [Context] plus configuration. Task insertion and execution control
// delegate to whichever context is currently selected, so the Queue remains
// a stable handle regardless of the nesting depth currently active.
//
// Instances must be created via [New].
type Queue struct {
	Context
}

var queueIDCounter atomic.Uint64

// New creates a Queue with an empty root context selected.
func New(opts ...Option) (*Queue, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	q := &Queue{}
	q.Context.id = contextIDCounter.Add(1)
	q.Context.core = &core{
		id:       queueIDCounter.Add(1),
		schedule: cfg.scheduler,
		logger:   cfg.logger,
	}
	if cfg.logger != nil {
		q.Context.core.runWarn = catrate.NewLimiter(cfg.runWarnRates)
	}
	if cfg.metricsEnabled {
		q.Context.core.metrics = &queueMetrics{}
	}
	return q, nil
}

// Metrics returns a snapshot of the queue's counters. The zero value is
// returned unless metrics collection was enabled via [WithMetrics].
func (q *Queue) Metrics() MetricsSnapshot {
	return q.Context.core.metrics.snapshot()
}
