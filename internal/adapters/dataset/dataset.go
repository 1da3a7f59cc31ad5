// Package dataset reads the person and contact sources from JSON files
// holding an array of flat objects.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goccy/go-json"

	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/pkg/metrics"
)

// Source names, used in logs and metric labels.
const (
	SourcePersonsSmall  = "persons-small"
	SourcePersonsLarge  = "persons-large"
	SourceContactsSmall = "contacts-small"
	SourceContactsLarge = "contacts-large"
)

// Paths locates the four input files.
type Paths struct {
	PersonsSmall  string
	PersonsLarge  string
	ContactsSmall string
	ContactsLarge string
}

// Sources holds every input table, loaded in full.
type Sources struct {
	PersonsSmall  []model.PersonRecord
	PersonsLarge  []model.PersonRecord
	ContactsSmall []model.ContactRecord
	ContactsLarge []model.ContactRecord
}

// wire shapes use pointers so absent required fields are detectable.
type personWire struct {
	ID   *int    `json:"ID"`
	Name *string `json:"Name"`
	Age  *int    `json:"Age"`
}

type contactWire struct {
	Member1ID *int    `json:"Member1_ID"`
	Member2ID *int    `json:"Member2_ID"`
	From      *string `json:"From"`
	To        *string `json:"To"`
}

// Load reads all four sources. It fails on the first missing or malformed
// file so nothing downstream runs on partial input.
func Load(ctx context.Context, p Paths) (*Sources, error) {
	var (
		s   Sources
		err error
	)
	if s.PersonsSmall, err = LoadPersons(ctx, SourcePersonsSmall, p.PersonsSmall); err != nil {
		return nil, err
	}
	if s.PersonsLarge, err = LoadPersons(ctx, SourcePersonsLarge, p.PersonsLarge); err != nil {
		return nil, err
	}
	if s.ContactsSmall, err = LoadContacts(ctx, SourceContactsSmall, p.ContactsSmall); err != nil {
		return nil, err
	}
	if s.ContactsLarge, err = LoadContacts(ctx, SourceContactsLarge, p.ContactsLarge); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadPersons reads a person source file.
func LoadPersons(ctx context.Context, source, path string) ([]model.PersonRecord, error) {
	var wire []personWire
	if err := decodeFile(ctx, source, path, &wire); err != nil {
		return nil, err
	}

	out := make([]model.PersonRecord, len(wire))
	for i, w := range wire {
		if w.ID == nil || w.Name == nil || w.Age == nil {
			return nil, fmt.Errorf("%w: %s record %d: ID, Name and Age are required", ErrMalformedSource, source, i)
		}
		if *w.Age < 0 {
			return nil, fmt.Errorf("%w: %s record %d: negative Age %d", ErrMalformedSource, source, i, *w.Age)
		}
		out[i] = model.PersonRecord{ID: *w.ID, Name: *w.Name, Age: *w.Age}
	}
	metrics.RecordRecordsLoaded(source, len(out))
	return out, nil
}

// LoadContacts reads a contact source file. Timestamps are left unparsed.
func LoadContacts(ctx context.Context, source, path string) ([]model.ContactRecord, error) {
	var wire []contactWire
	if err := decodeFile(ctx, source, path, &wire); err != nil {
		return nil, err
	}

	out := make([]model.ContactRecord, len(wire))
	for i, w := range wire {
		if w.Member1ID == nil || w.Member2ID == nil || w.From == nil || w.To == nil {
			return nil, fmt.Errorf("%w: %s record %d: Member1_ID, Member2_ID, From and To are required", ErrMalformedSource, source, i)
		}
		out[i] = model.ContactRecord{Member1ID: *w.Member1ID, Member2ID: *w.Member2ID, From: *w.From, To: *w.To}
	}
	metrics.RecordRecordsLoaded(source, len(out))
	return out, nil
}

func decodeFile(ctx context.Context, source, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrMissingSource, source, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrMalformedSource, source, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, source, v)
}

// Decode reads a single JSON array from r into v.
func Decode(r io.Reader, source string, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedSource, source, err)
	}
	return nil
}

// Encode writes records as an indented JSON array, the shape Load reads.
func Encode(w io.Writer, records any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteFile encodes records to path, replacing any existing file.
func WriteFile(path string, records any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, records)
}
