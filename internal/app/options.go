package service

import (
	"github.com/okian/c4hscore/internal/adapters/repository"
	"github.com/okian/c4hscore/internal/clock"
	"github.com/okian/c4hscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the event file store. Articles are read through the
// same store, and are unavailable if it cannot read them.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store == nil {
			return
		}
		s.store = store
		s.articleStore, _ = store.(ArticleStore)
	}
}

// WithClock sets the time source handed to created and opened events.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDefaultArena makes Create add arena "1" to new events.
func WithDefaultArena(enabled bool) Option {
	return func(s *Service) {
		s.defaultArena = enabled
	}
}
