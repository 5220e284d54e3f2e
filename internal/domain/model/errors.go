package model

import "errors"

// Sentinel error kinds for the event model. These allow errors.Is from callers.
var (
	// ErrDuplicateKey is returned by factories when the identifying value is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidFormat is returned when a field value does not have the required shape.
	ErrInvalidFormat = errors.New("invalid format")
)
