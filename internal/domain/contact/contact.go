// Package contact unions, deduplicates and duration-filters contact events.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/contactreport/internal/domain/dedupe"
	"github.com/okian/contactreport/internal/domain/model"
)

// MinDuration is the shortest interaction that counts as a contact.
const MinDuration = 5 * time.Minute

// timestampLayouts are tried in order. Fractional seconds are accepted by
// every layout with a seconds field; zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Stats describes what the filter discarded.
type Stats struct {
	Input      int // rows across both sources
	Duplicates int // exact duplicate rows collapsed
	TooShort   int // rows shorter than MinDuration
}

// Result is the filtered contact table.
type Result struct {
	Contacts []model.Contact
	Stats    Stats
}

// Filter concatenates small then large, keeps the first of each group of
// identical rows, parses timestamps and drops contacts shorter than
// MinDuration. Any unparseable timestamp fails the whole operation.
func Filter(ctx context.Context, small, large []model.ContactRecord) (Result, error) {
	all := make([]model.ContactRecord, 0, len(small)+len(large))
	all = append(all, small...)
	all = append(all, large...)

	res := Result{Stats: Stats{Input: len(all)}}
	seen := dedupe.NewInMemoryDeduper(dedupe.WithExpectedSize(len(all)))
	res.Contacts = make([]model.Contact, 0, len(all))

	for i, rec := range all {
		if seen.SeenAndRecord(ctx, rowKey(rec)) {
			res.Stats.Duplicates++
			continue
		}

		start, err := ParseTimestamp(rec.From)
		if err != nil {
			return Result{}, fmt.Errorf("%w: row %d field From: %w", ErrInvalidTimestamp, i, err)
		}
		end, err := ParseTimestamp(rec.To)
		if err != nil {
			return Result{}, fmt.Errorf("%w: row %d field To: %w", ErrInvalidTimestamp, i, err)
		}

		d := end.Sub(start)
		if d < MinDuration {
			res.Stats.TooShort++
			continue
		}
		res.Contacts = append(res.Contacts, model.Contact{
			Record:   rec,
			Start:    start,
			End:      end,
			Duration: d,
		})
	}
	return res, nil
}

// Records returns the wire records of contacts, in order.
func Records(contacts []model.Contact) []model.ContactRecord {
	out := make([]model.ContactRecord, len(contacts))
	for i, c := range contacts {
		out[i] = c.Record
	}
	return out
}

// ParseTimestamp parses an ISO-8601 timestamp in any of the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// rowKey identifies a row by all of its wire fields.
func rowKey(r model.ContactRecord) string {
	return fmt.Sprintf("%d\x00%d\x00%s\x00%s", r.Member1ID, r.Member2ID, r.From, r.To)
}
