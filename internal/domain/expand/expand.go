// Package expand renders each contact once per participant so that per-person
// statistics need a single grouping instead of per-role special cases.
package expand

import (
	"github.com/okian/contactreport/internal/domain/model"
)

// Result is the dual-role table.
type Result struct {
	Rows []model.DualRoleRow
	// Unresolved counts participant ids with no matching person; those roles
	// produce no row.
	Unresolved int
}

// DualRole joins contacts to persons on the initiator id, then on the
// receiver id, and concatenates the two in that order. A self-contact yields
// two rows with the same person and different roles.
func DualRole(contacts []model.Contact, persons []model.Person) Result {
	byID := make(map[int][]model.Person, len(persons))
	for _, p := range persons {
		byID[p.ID] = append(byID[p.ID], p)
	}

	res := Result{Rows: make([]model.DualRoleRow, 0, 2*len(contacts))}
	join := func(role model.Role, id func(model.ContactRecord) int) {
		for _, c := range contacts {
			matches, ok := byID[id(c.Record)]
			if !ok {
				res.Unresolved++
				continue
			}
			for _, p := range matches {
				res.Rows = append(res.Rows, model.DualRoleRow{
					Role:     role,
					Person:   p,
					Start:    c.Start,
					End:      c.End,
					Duration: c.Duration,
				})
			}
		}
	}
	join(model.RoleInitiator, func(r model.ContactRecord) int { return r.Member1ID })
	join(model.RoleReceiver, func(r model.ContactRecord) int { return r.Member2ID })
	return res
}
