package report

import (
	"errors"
)

// Sentinel error kinds for report output.
var (
	ErrCreateReport   = errors.New("create report failed")
	ErrWriteSheet     = errors.New("write sheet failed")
	ErrDuplicateSheet = errors.New("sheet already written")
	ErrSaveReport     = errors.New("save report failed")
	ErrClosed         = errors.New("report closed")
)
