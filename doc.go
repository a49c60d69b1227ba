// Package taskqueue provides a cooperative, single-threaded task scheduler
// with nested execution contexts: tasks queued while another task is running
// drain to completion before the outer queue resumes.
//
// # Architecture
//
// The package is built around two cooperating types. A [Context] is one
// nesting level: an ordered FIFO queue of tasks, a link to the context that
// was selected when it was created, and a running flag. A [Queue] is the
// stable handle applications interact with; it is the root context plus
// configuration, and every operation on it transparently targets the deepest
// currently selected context (the leaf of the selection chain).
//
// Nesting is driven by [Context.Enter] and [Context.Exit]: a running task may
// enter a fresh sub-context, queue further tasks into it, run it to
// completion, and exit back before signalling its own completion. The
// [Context.Push] wrapper automates that protocol, so any work queued by code
// running inside the pushed function is guaranteed to drain before the
// wrapping task is considered done. Nesting depth is unbounded.
//
// # Execution Model
//
// Execution is single-threaded and cooperative. A task retains control until
// it invokes the completion continuation it was handed; the scheduler never
// preempts. The only asynchronous boundary is between [Context.Run] being
// called and the first task executing, which hops the configured [Scheduler]
// (a next-tick primitive) so that synchronous callers can finish queuing
// related work first. Without [WithScheduler], the hop degenerates to a
// synchronous call, which preserves the ordering contract within the turn.
//
// Ordering guarantees:
//  1. Tasks within one context execute in strict FIFO order.
//  2. Tasks queued into a sub-context fully drain (recursively, for their own
//     sub-contexts) before the task that entered the sub-context completes.
//  3. Calling Run on a context that is already running is a no-op.
//
// # Usage
//
//	q, err := taskqueue.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	q.Push(func(sub *taskqueue.Context) {
//		// anything queued here lands in sub and drains before
//		// the next root-level task starts
//		sub.Push(nil)
//	})
//	q.Push(func(*taskqueue.Context) {})
//
//	q.Run(func() {
//		fmt.Println("all tasks drained")
//	})
//
// # Caller Contract
//
// Each task must eventually invoke its completion continuation exactly once.
// A task that never does so stalls its context permanently: the running flag
// stays set, pending tasks remain queued, and no error is raised. There is no
// cancellation, prioritisation, or error propagation from task bodies; a
// panicking task body is the caller's responsibility. When a logger is
// attached via [WithLogger], a redundant Run on a running context emits a
// rate-limited warning, as that is the one observable symptom of a stalled
// task.
package taskqueue
