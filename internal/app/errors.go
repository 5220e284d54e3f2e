package service

import "errors"

var (
	// ErrNoEvent is returned when an operation needs an open event and none is loaded.
	ErrNoEvent = errors.New("no event open")
	// ErrNotFound is returned when a referenced arena, rider or horse does not exist.
	ErrNotFound = errors.New("not found")
)
