// logging.go - structured logging call sites.
//
// The queue does not own a logging implementation; it emits through an
// optionally injected logiface logger (see WithLogger). Every helper below
// is a no-op without one: logiface builders short-circuit on nil, so the
// call sites stay unconditional.

package taskqueue

import (
	"github.com/joeycumines/logiface"
)

// Log event categories, set as the "category" field on every event.
const (
	categoryContext = "context" // enter / exit, selection chain changes
	categoryTask    = "task"    // push / task execution
	categoryDrain   = "drain"   // run scheduling, drain completion, warnings
)

// logger returns the queue's logger, nil for detached contexts or queues
// constructed without WithLogger. Nil is valid as a logiface receiver.
func (c *Context) logger() *logiface.Logger[logiface.Event] {
	if c.core == nil {
		return nil
	}
	return c.core.logger
}

// event starts a builder pre-populated with the fields common to every event
// emitted by this context.
func (c *Context) event(b *logiface.Builder[logiface.Event], category string) *logiface.Builder[logiface.Event] {
	return b.
		Str(`category`, category).
		Uint64(`queue`, c.queueID()).
		Uint64(`context`, c.id).
		Int(`depth`, c.depth)
}

func (c *Context) queueID() uint64 {
	if c.core == nil {
		return 0
	}
	return c.core.id
}

func (c *Context) logEnter() {
	c.event(c.logger().Debug(), categoryContext).
		Int(`pending`, len(c.tasks)).
		Log(`entered context`)
}

func (c *Context) logExit() {
	c.event(c.logger().Debug(), categoryContext).
		Int(`pending`, len(c.tasks)).
		Log(`exited context`)
}

func (c *Context) logPush() {
	c.event(c.logger().Trace(), categoryTask).
		Int(`pending`, len(c.tasks)).
		Log(`pushed task`)
}

func (c *Context) logTaskStart(t *Task) {
	c.event(c.logger().Trace(), categoryTask).
		Bool(`noop`, t.noop).
		Int(`pending`, len(c.tasks)).
		Log(`task starting`)
}

func (c *Context) logRunScheduled() {
	c.event(c.logger().Debug(), categoryDrain).
		Int(`pending`, len(c.tasks)).
		Log(`drain scheduled`)
}

func (c *Context) logDrainFinished() {
	c.event(c.logger().Debug(), categoryDrain).
		Log(`drain finished`)
}

// warnRedundantRun logs a Run call observed while this context was already
// running. The warning is rate limited per context: a stalled task (one that
// never calls done) typically manifests as repeated Run attempts, and the
// first is as informative as the thousandth.
func (c *Context) warnRedundantRun() {
	if c.core == nil || c.core.logger == nil {
		return
	}
	if _, ok := c.core.runWarn.Allow(c.id); !ok {
		return
	}
	c.event(c.core.logger.Warning(), categoryDrain).
		Int(`pending`, len(c.tasks)).
		Log(`run called on running context; no-op (stalled task?)`)
}

// warnDoubleDone logs a task invoking its completion continuation more than
// once. The extra call is discarded; see Context.step.
func (c *Context) warnDoubleDone() {
	c.event(c.logger().Warning(), categoryDrain).
		Log(`task signalled completion more than once; ignored`)
}
