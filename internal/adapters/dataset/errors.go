package dataset

import (
	"errors"
)

// Sentinel error kinds for input loading.
var (
	ErrMissingSource   = errors.New("input source missing")
	ErrMalformedSource = errors.New("input source malformed")
)
