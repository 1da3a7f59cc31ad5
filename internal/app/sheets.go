package service

import (
	"github.com/okian/contactreport/internal/domain/aggregate"
	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/internal/domain/table"
)

// Sheet names, in the order they are written.
const (
	SheetSmallData    = "small_data"
	SheetBigData      = "big_data"
	SheetMissing      = "1.5"
	SheetAgeGaps      = "1.6"
	SheetNamed        = "1.7"
	SheetContactCount = "2.4"
	SheetDuration     = "2.5"
)

// Working column names written when projection is off.
const (
	colNameKey   = "name_key"
	colAgeKey    = "age_key"
	colFirstName = "first_name"
	colLastName  = "last_name"
	colDiff      = "diff"
	colCount     = "count"
	colDuration  = "duration_seconds"
)

var personColumns = []string{
	table.ColID, table.ColName, table.ColAge,
	colNameKey, colAgeKey, colFirstName, colLastName,
}

func personCells(p model.Person) []any {
	var last any
	if p.HasLastName {
		last = p.LastName
	}
	return []any{p.ID, p.Name, p.Age, p.NameKey, p.AgeKey, p.FirstName, last}
}

func personsTable(persons []model.Person) *table.Table {
	t := table.New(personColumns...)
	for _, p := range persons {
		t.Append(personCells(p)...)
	}
	return t
}

func ageGapsTable(gaps []aggregate.AgeGap) *table.Table {
	t := table.New(append(append([]string(nil), personColumns...), colDiff)...)
	for _, g := range gaps {
		t.Append(append(personCells(g.Person), g.Gap)...)
	}
	return t
}

func countsTable(counts []aggregate.PersonCount) *table.Table {
	t := table.New(append([]string{colCount}, personColumns...)...)
	for _, c := range counts {
		t.Append(append([]any{c.Count}, personCells(c.Person)...)...)
	}
	return t
}

func durationsTable(totals []aggregate.PersonDuration) *table.Table {
	t := table.New(append([]string{colDuration}, personColumns...)...)
	for _, d := range totals {
		t.Append(append([]any{d.Duration.Seconds()}, personCells(d.Person)...)...)
	}
	return t
}
