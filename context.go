package taskqueue

import (
	"sync/atomic"
)

var contextIDCounter atomic.Uint64

// Context is a single nesting level: an ordered FIFO queue of tasks, a link
// to the context that was selected when it was created, and a running flag.
//
// Every public operation first delegates to the deepest currently selected
// context (the leaf of the selection chain), so calling code can hold any
// context on the chain (typically the root, via [Queue]) and transparently
// target whatever nesting depth is active. The selection chain is always a
// simple path: [Context.Enter] extends it by exactly one node, and
// [Context.Exit] retracts it by exactly one node, never past the root.
//
// Context is not safe for concurrent use; the scheduling model is
// single-threaded and cooperative.
type Context struct {
	// Prevent copying
	_ [0]func()

	core     *core
	parent   *Context // nil at the root
	selected *Context // nil when this context is the leaf of the chain
	tasks    []*Task
	state    runState
	id       uint64
	depth    int
}

// NewContext returns a fresh, detached context, for callers that want to
// supply their own instance to [Context.Enter]. A detached context is inert
// (no scheduler, no logger) until adopted into a queue's selection chain.
func NewContext() *Context {
	return &Context{id: contextIDCounter.Add(1)}
}

// Enter extends the selection chain by one node and returns the newly
// selected context.
//
// If this context is not the leaf of the chain, the call delegates to the
// selected context, so the chain is always extended at its true leaf. A nil
// child means "create one"; a caller-supplied child (from [NewContext]) is
// adopted as-is and must not already belong to a selection chain.
func (c *Context) Enter(child *Context) *Context {
	if c.selected != nil {
		return c.selected.Enter(child)
	}
	if child == nil {
		child = NewContext()
	}
	child.core = c.core
	child.parent = c
	child.depth = c.depth + 1
	c.selected = child
	c.metrics().contextEntered(child.depth)
	child.logEnter()
	return child
}

// Exit retracts the selection chain by one node, back toward (never past)
// the root, then invokes done if non-nil. Exit at the root is a no-op for
// the selection but still invokes done. Returns the receiver.
//
// The retracted context object itself remains valid for as long as something
// references it; it merely becomes unreachable from the selection chain.
func (c *Context) Exit(done func()) *Context {
	if c.selected != nil {
		c.selected.Exit(done)
		return c
	}
	if c.parent != nil {
		c.parent.selected = nil
		c.logExit()
	}
	if done != nil {
		done()
	}
	return c
}

// Push wraps fn in a task that automates the nesting protocol: when the task
// runs, it enters a fresh sub-context, invokes fn synchronously with that
// sub-context, drains the sub-context to completion, exits it, and only then
// signals its own completion. Anything fn (or code it calls) queues lands in
// the sub-context and is therefore guaranteed to drain before the next task
// at this level starts.
//
// The task is appended to the currently selected context. A nil fn yields a
// no-op task that completes immediately. Returns the generated task.
func (c *Context) Push(fn func(sub *Context)) *Task {
	var t *Task
	if fn == nil {
		t = noopTask()
	} else {
		t = &Task{fn: func(done func(), ctx *Context) {
			sub := ctx.Enter(nil)
			fn(sub)
			sub.Run(func() {
				sub.Exit(nil)
				done()
			})
		}}
	}
	c.PushTask(t)
	return t
}

// PushTask appends a task to the currently selected context. A nil task is
// replaced with an explicit no-op task.
func (c *Context) PushTask(t *Task) {
	if c.selected != nil {
		c.selected.PushTask(t)
		return
	}
	if t == nil {
		t = noopTask()
	}
	c.tasks = append(c.tasks, t)
	c.logPush()
}

// Shift removes and returns the head task of the currently selected context,
// or nil if it is empty.
func (c *Context) Shift() *Task {
	if c.selected != nil {
		return c.selected.Shift()
	}
	return c.shift()
}

// shift pops the head of this context's own queue, ignoring selection.
func (c *Context) shift() *Task {
	if len(c.tasks) == 0 {
		return nil
	}
	t := c.tasks[0]
	c.tasks[0] = nil // release the queue's reference
	c.tasks = c.tasks[1:]
	return t
}

// Run drains the currently selected context: tasks are removed from the
// front and invoked, strictly FIFO, each handed a continuation it must call
// exactly once to advance. When the queue is empty the running flag clears
// and done (if non-nil) is invoked, exactly once.
//
// The first drain step is deferred via the configured [Scheduler], so tasks
// pushed in the same synchronous turn as the Run call are visible before the
// first task executes. Run on a context that is already running is a no-op:
// done is neither queued nor retried. Returns the receiver.
func (c *Context) Run(done func()) *Context {
	if c.selected != nil {
		return c.selected.Run(done)
	}
	if !c.state.tryTransition(StateIdle, StateRunning) {
		c.warnRedundantRun()
		return c
	}
	if len(c.tasks) == 0 {
		c.finish(done)
		return c
	}
	c.logRunScheduled()
	c.nextTick(func() {
		c.step(done)
	})
	return c
}

// step is the drain loop. It is trampolined: a task that calls its
// continuation synchronously advances the for loop rather than recursing,
// while a task that defers completion suspends the loop, which the
// continuation later resumes by re-entering step.
func (c *Context) step(done func()) {
	for {
		t := c.shift()
		if t == nil {
			c.finish(done)
			return
		}

		var returned, advanced, signalled bool
		next := func() {
			if signalled {
				c.warnDoubleDone()
				return
			}
			signalled = true
			if returned {
				c.step(done)
				return
			}
			advanced = true
		}

		c.metrics().taskExecuted(t.noop)
		c.logTaskStart(t)
		t.fn(next, c)
		returned = true
		if !advanced {
			// The task holds the continuation; the drain resumes when (if)
			// it calls next.
			return
		}
	}
}

// finish completes a drain: running clears strictly before done fires.
func (c *Context) finish(done func()) {
	c.state.store(StateIdle)
	c.metrics().drainFinished()
	c.logDrainFinished()
	if done != nil {
		done()
	}
}

// Len returns the pending-task count of the currently selected context.
func (c *Context) Len() int {
	if c.selected != nil {
		return c.selected.Len()
	}
	return len(c.tasks)
}

// Running reports whether this context's own drain loop is active. Unlike
// the other accessors it does not delegate: it reflects this nesting level.
func (c *Context) Running() bool {
	return c.state.load() == StateRunning
}

// State returns this context's drain-loop state.
func (c *Context) State() ContextState {
	return c.state.load()
}

// metrics returns the queue's counters, nil for detached contexts or when
// collection is disabled; queueMetrics methods tolerate a nil receiver.
func (c *Context) metrics() *queueMetrics {
	if c.core == nil {
		return nil
	}
	return c.core.metrics
}

// nextTick defers fn via the configured scheduler, falling back to a
// synchronous call when none is configured (or the context is detached).
func (c *Context) nextTick(fn func()) {
	if c.core != nil && c.core.schedule != nil {
		c.core.schedule(fn)
		return
	}
	fn()
}
