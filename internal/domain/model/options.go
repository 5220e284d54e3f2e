package model

import "github.com/okian/c4hscore/internal/clock"

// Option applies a configuration option to a new Event.
type Option func(*Event)

// WithClock sets the time source used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(e *Event) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithDefaultArena creates arena "1" named "Arena 1" on construction.
func WithDefaultArena() Option {
	return func(e *Event) {
		e.defaultArena = true
	}
}

// WithDetails sets the free-text event details.
func WithDetails(details string) Option {
	return func(e *Event) {
		e.Details = details
	}
}
