// Package dedupe tracks which row keys have already been seen in a batch.
package dedupe

import (
	"context"
)

// Deduper records seen keys so that only the first occurrence of a row is kept.
type Deduper interface {
	// SeenAndRecord reports whether key was seen before and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Size returns the number of distinct keys recorded.
	Size() int
}

// inMemoryDeduper keeps every key for the lifetime of the batch. There is no
// eviction: exact deduplication needs the full key set.
type inMemoryDeduper struct {
	seen         map[string]struct{}
	expectedSize int
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.expectedSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int {
	return len(d.seen)
}
