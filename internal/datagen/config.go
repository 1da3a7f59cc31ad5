package datagen

import (
	"fmt"
	"time"
)

// Default generation parameters.
const (
	DefaultPersons       = 200
	DefaultContacts      = 2000
	DefaultSmallFraction = 0.3
	DefaultDuplicateRate = 0.05
	DefaultShortRate     = 0.2
)

// Config holds parameters for one generated dataset.
type Config struct {
	Persons       int       // persons in the large table
	Contacts      int       // distinct contacts before duplication
	SmallFraction float64   // share of rows routed to the small files
	DuplicateRate float64   // share of contacts emitted twice
	ShortRate     float64   // share of contacts shorter than five minutes
	Seed          uint64    // zero draws a seed from a fresh UUID
	Start         time.Time // earliest contact start
}

// DefaultConfig returns a Config with the default parameters.
func DefaultConfig() Config {
	return Config{
		Persons:       DefaultPersons,
		Contacts:      DefaultContacts,
		SmallFraction: DefaultSmallFraction,
		DuplicateRate: DefaultDuplicateRate,
		ShortRate:     DefaultShortRate,
		Start:         time.Date(2023, time.January, 1, 8, 0, 0, 0, time.UTC),
	}
}

// Validate checks that counts are positive and rates lie in [0, 1].
func (c Config) Validate() error {
	if c.Persons <= 0 {
		return fmt.Errorf("%w: persons must be positive", ErrInvalidConfig)
	}
	if c.Contacts < 0 {
		return fmt.Errorf("%w: contacts must be >= 0", ErrInvalidConfig)
	}
	for name, rate := range map[string]float64{
		"small_fraction": c.SmallFraction,
		"duplicate_rate": c.DuplicateRate,
		"short_rate":     c.ShortRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1]", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Stats summarises what was generated.
type Stats struct {
	Persons      int
	SmallPersons int
	Contacts     int
	Duplicates   int
	Short        int
	Seed         uint64
}
