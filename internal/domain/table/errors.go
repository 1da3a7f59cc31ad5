package table

import "errors"

// ErrUnknownColumn is returned when a projection names a missing column.
var ErrUnknownColumn = errors.New("unknown column")
