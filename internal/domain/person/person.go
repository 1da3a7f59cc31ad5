// Package person derives the working columns of person tables.
package person

import (
	"sort"
	"strings"

	"github.com/okian/contactreport/internal/domain/model"
)

// Normalize derives aliases and the first/last name split for each record.
// The input is not modified.
func Normalize(records []model.PersonRecord) []model.Person {
	out := make([]model.Person, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}

// FromRecord normalizes a single record. Name is split on the first space;
// a name without one has no last name.
func FromRecord(r model.PersonRecord) model.Person {
	first, last, found := strings.Cut(r.Name, " ")
	return model.Person{
		ID:          r.ID,
		Name:        r.Name,
		Age:         r.Age,
		NameKey:     r.Name,
		AgeKey:      r.Age,
		FirstName:   first,
		LastName:    last,
		HasLastName: found,
	}
}

// SortByLastName returns a copy ordered by last name, persons without one last.
func SortByLastName(persons []model.Person) []model.Person {
	out := append([]model.Person(nil), persons...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasLastName != b.HasLastName {
			return a.HasLastName
		}
		return a.LastName < b.LastName
	})
	return out
}

// SortByFirstName returns a copy ordered by first name.
func SortByFirstName(persons []model.Person) []model.Person {
	out := append([]model.Person(nil), persons...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

// WithLetters returns the persons whose Name contains an ASCII letter.
func WithLetters(persons []model.Person) []model.Person {
	out := make([]model.Person, 0, len(persons))
	for _, p := range persons {
		if strings.ContainsFunc(p.Name, isASCIILetter) {
			out = append(out, p)
		}
	}
	return out
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
