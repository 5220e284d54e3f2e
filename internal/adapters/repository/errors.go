package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrNoFilename = errors.New("event has no filename")
	ErrBadHeader  = errors.New("missing file header")
)
