package service

import "errors"

// Sentinel error kinds for a report run.
var (
	ErrRun     = errors.New("report run failed")
	ErrSummary = errors.New("write summary failed")
)
