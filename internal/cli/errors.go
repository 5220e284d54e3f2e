package cli

import "errors"

// ErrUsage is returned for an unknown command or missing arguments.
var ErrUsage = errors.New("usage")
