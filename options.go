// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package taskqueue

import (
	"time"

	"github.com/joeycumines/logiface"
)

// queueOptions holds configuration options for Queue creation.
type queueOptions struct {
	scheduler      Scheduler
	logger         *logiface.Logger[logiface.Event]
	runWarnRates   map[time.Duration]int
	metricsEnabled bool
}

// --- Queue Options ---

// Option configures a Queue instance.
type Option interface {
	applyQueue(*queueOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyQueueFunc func(*queueOptions) error
}

func (o *optionImpl) applyQueue(opts *queueOptions) error {
	return o.applyQueueFunc(opts)
}

// WithScheduler sets the next-tick primitive used to defer the first drain
// step of each Run call until the current synchronous execution completes.
// Typical implementations post to a host event loop's microtask queue.
// Without this option, the queue falls back to invoking the step
// synchronously, which keeps the ordering contract but forfeits fairness
// across competing synchronous callers.
func WithScheduler(scheduler Scheduler) Option {
	return &optionImpl{func(opts *queueOptions) error {
		if scheduler == nil {
			return ErrNilScheduler
		}
		opts.scheduler = scheduler
		return nil
	}}
}

// WithLogger attaches a structured logger to the Queue. All contexts created
// under the queue share it. A nil logger is equivalent to omitting the
// option; the logging call sites are no-ops either way.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *queueOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMetrics enables runtime metrics collection on the Queue.
// When enabled, a snapshot can be accessed via Queue.Metrics().
// This adds minimal overhead (atomic counter updates per task and per
// context transition); leave disabled for zero-cost hot paths.
func WithMetrics(enabled bool) Option {
	return &optionImpl{func(opts *queueOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// WithRunWarnRates overrides the rate limits applied to the warning logged
// when Run is called on an already-running context (the observable symptom
// of a task that never signalled completion). The map is sliding-window
// duration → max events, applied per context; see
// [github.com/joeycumines/go-catrate]. Defaults to one warning per context
// per 30 seconds. Only meaningful in combination with WithLogger.
func WithRunWarnRates(rates map[time.Duration]int) Option {
	return &optionImpl{func(opts *queueOptions) error {
		if len(rates) == 0 {
			return ErrNoWarnRates
		}
		opts.runWarnRates = rates
		return nil
	}}
}

// resolveOptions applies Option instances to queueOptions.
func resolveOptions(opts []Option) (*queueOptions, error) {
	cfg := &queueOptions{
		runWarnRates: map[time.Duration]int{30 * time.Second: 1}, // default
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyQueue(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
