// Package reconcile compares two person tables by last name.
//
// Matching is on last name only: persons sharing a surname are
// indistinguishable here. A missing last name matches another missing last
// name.
package reconcile

import (
	"github.com/okian/contactreport/internal/domain/model"
)

type surnameKey struct {
	name    string
	present bool
}

func keyOf(p model.Person) surnameKey {
	return surnameKey{name: p.LastName, present: p.HasLastName}
}

// Missing returns the rows of large whose last name does not occur in small,
// in large-table order.
func Missing(large, small []model.Person) []model.Person {
	return unmatched(large, small)
}

// Verify returns the rows of small whose last name does not occur in large.
// The small dataset is expected to be a subset of the large one, so any
// result signals inconsistent inputs.
func Verify(small, large []model.Person) []model.Person {
	return unmatched(small, large)
}

// unmatched is the anti-join of left against right.
func unmatched(left, right []model.Person) []model.Person {
	index := make(map[surnameKey]struct{}, len(right))
	for _, p := range right {
		index[keyOf(p)] = struct{}{}
	}

	out := make([]model.Person, 0)
	for _, p := range left {
		if _, ok := index[keyOf(p)]; !ok {
			out = append(out, p)
		}
	}
	return out
}
