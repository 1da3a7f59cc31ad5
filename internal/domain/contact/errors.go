package contact

import (
	"errors"
)

// ErrInvalidTimestamp marks a contact row whose From or To cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid contact timestamp")
