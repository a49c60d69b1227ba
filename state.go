package taskqueue

import (
	"sync/atomic"
)

// ContextState represents the drain-loop state of a single [Context].
//
// State Machine:
//
//	StateIdle (0) → StateRunning (1)    [Run() on an idle context]
//	StateRunning (1) → StateIdle (0)    [queue drained]
//
// Transitions into StateRunning use CAS (tryTransition), which is what makes
// a concurrent or re-entrant Run a no-op: only one caller wins the
// Idle→Running transition. The transition back to StateIdle uses a plain
// store, as only the drain loop itself performs it.
type ContextState uint32

const (
	// StateIdle indicates the context's drain loop is not active.
	StateIdle ContextState = 0
	// StateRunning indicates the context's drain loop is active, or stalled
	// waiting on a task that has not yet signalled completion.
	StateRunning ContextState = 1
)

// String returns a human-readable representation of the state.
func (s ContextState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// runState is the atomic holder for a context's ContextState.
//
// The scheduling model is single-threaded cooperative, so atomics are not
// required for correctness of the drain itself; they make State and Running
// safe to observe from other goroutines (e.g. test harnesses, monitors).
type runState struct {
	v atomic.Uint32
}

// load returns the current state.
func (s *runState) load() ContextState {
	return ContextState(s.v.Load())
}

// store unconditionally stores a new state.
func (s *runState) store(state ContextState) {
	s.v.Store(uint32(state))
}

// tryTransition attempts to atomically transition from one state to another,
// reporting whether it succeeded.
func (s *runState) tryTransition(from, to ContextState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
