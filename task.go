package taskqueue

// TaskFunc is the executable body of a [Task].
//
// The function receives a completion continuation and the context it is
// running under. It must eventually invoke done exactly once, directly or
// indirectly, to advance the drain loop; it receives ctx so it can call
// [Context.Enter], [Context.Run], and [Context.Exit] for sub-queuing.
type TaskFunc func(done func(), ctx *Context)

// Task is a queued unit of work.
//
// Task queues hold only well-formed values: wrapping a nil function yields an
// explicit no-op task that signals completion immediately, rather than the
// drain loop checking callability per entry. Once pushed, the owning context
// holds the only reference until the drain loop (or [Context.Shift]) removes
// it.
type Task struct {
	fn   TaskFunc
	noop bool
}

// NewTask wraps fn as a Task. A nil fn yields a no-op task, see [Task].
func NewTask(fn TaskFunc) *Task {
	if fn == nil {
		return noopTask()
	}
	return &Task{fn: fn}
}

// NoOp reports whether the task is an explicit no-op (constructed from a nil
// function), which signals completion immediately without side effects.
func (t *Task) NoOp() bool {
	return t.noop
}

func noopTask() *Task {
	return &Task{
		noop: true,
		fn: func(done func(), _ *Context) {
			done()
		},
	}
}
