package nominate

import "errors"

// Sentinel kinds for import errors.
var (
	ErrMissingColumn = errors.New("missing nomination column")
	ErrNoComboID     = errors.New("nomination has no entry id")
)
