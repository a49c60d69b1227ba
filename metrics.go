package taskqueue

import (
	"sync/atomic"
)

// queueMetrics holds the queue's runtime counters. All methods are safe on a
// nil receiver, which is how disabled metrics cost nothing at call sites.
type queueMetrics struct {
	tasksExecuted   atomic.Uint64
	noopTasks       atomic.Uint64
	contextsEntered atomic.Uint64
	drainsCompleted atomic.Uint64
	maxDepth        atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the queue's counters, as
// returned by [Queue.Metrics].
type MetricsSnapshot struct {
	// TasksExecuted is the number of tasks the drain loops have invoked,
	// including no-op tasks.
	TasksExecuted uint64
	// NoOpTasks is the number of executed tasks that were explicit no-ops
	// (pushed as nil).
	NoOpTasks uint64
	// ContextsEntered is the number of Enter calls that extended the
	// selection chain.
	ContextsEntered uint64
	// DrainsCompleted is the number of drain loops that ran to an empty
	// queue.
	DrainsCompleted uint64
	// MaxDepth is the deepest nesting level reached (root is 0).
	MaxDepth int64
}

func (m *queueMetrics) taskExecuted(noop bool) {
	if m == nil {
		return
	}
	m.tasksExecuted.Add(1)
	if noop {
		m.noopTasks.Add(1)
	}
}

func (m *queueMetrics) contextEntered(depth int) {
	if m == nil {
		return
	}
	m.contextsEntered.Add(1)
	for {
		cur := m.maxDepth.Load()
		if int64(depth) <= cur || m.maxDepth.CompareAndSwap(cur, int64(depth)) {
			return
		}
	}
}

func (m *queueMetrics) drainFinished() {
	if m == nil {
		return
	}
	m.drainsCompleted.Add(1)
}

func (m *queueMetrics) snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		TasksExecuted:   m.tasksExecuted.Load(),
		NoOpTasks:       m.noopTasks.Load(),
		ContextsEntered: m.contextsEntered.Load(),
		DrainsCompleted: m.drainsCompleted.Load(),
		MaxDepth:        m.maxDepth.Load(),
	}
}
