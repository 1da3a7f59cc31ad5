package datagen

import "errors"

// Sentinel error kinds for dataset generation.
var (
	ErrInvalidConfig = errors.New("invalid generator config")
	ErrWriteDataset  = errors.New("write dataset failed")
)
