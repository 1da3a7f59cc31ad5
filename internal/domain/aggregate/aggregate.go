// Package aggregate computes the per-person and per-age statistics of the
// report from normalized persons and the dual-role contact table.
package aggregate

import (
	"sort"
	"time"

	"github.com/okian/contactreport/internal/domain/model"
)

const (
	// AgeGapTarget is the exact age difference AgeGaps looks for.
	AgeGapTarget = 10
	// SummaryLimit is the default number of rows of the gap summary.
	SummaryLimit = 10
)

// PersonCount is the number of dual-role rows of one person.
type PersonCount struct {
	Person model.Person
	Count  int
}

// PersonDuration is the summed contact duration of one person.
type PersonDuration struct {
	Person   model.Person
	Duration time.Duration
}

// AgeGap is a person whose age exceeds the next younger person with the
// same last name by Gap years.
type AgeGap struct {
	Person model.Person
	Gap    int
}

// AgeAverageGap is the mean time between consecutive contacts of persons of
// one age. Valid is false when no person of that age has two contacts.
type AgeAverageGap struct {
	Age   int
	Mean  float64 // seconds
	Valid bool
}

// ContactCounts counts rows per person id, orders by count descending (ties
// by ascending id) and re-joins the persons table.
func ContactCounts(rows []model.DualRoleRow, persons []model.Person) []PersonCount {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.Person.ID]++
	}

	ids := sortedIDs(counts)
	sort.SliceStable(ids, func(i, j int) bool { return counts[ids[i]] > counts[ids[j]] })

	index := indexByID(persons)
	out := make([]PersonCount, 0, len(ids))
	for _, id := range ids {
		for _, p := range index[id] {
			out = append(out, PersonCount{Person: p, Count: counts[id]})
		}
	}
	return out
}

// TotalDurations sums durations per person id, orders by total descending
// (ties by ascending id) and re-joins the persons table.
func TotalDurations(rows []model.DualRoleRow, persons []model.Person) []PersonDuration {
	totals := make(map[int]time.Duration)
	for _, r := range rows {
		totals[r.Person.ID] += r.Duration
	}

	ids := sortedIDs(totals)
	sort.SliceStable(ids, func(i, j int) bool { return totals[ids[i]] > totals[ids[j]] })

	index := indexByID(persons)
	out := make([]PersonDuration, 0, len(ids))
	for _, id := range ids {
		for _, p := range index[id] {
			out = append(out, PersonDuration{Person: p, Duration: totals[id]})
		}
	}
	return out
}

// AgeGaps orders persons by age descending and, within each last-name group,
// compares every person with the next one down. Persons exactly
// AgeGapTarget years older than that neighbour are returned in age order.
// Persons without a last name belong to no group.
func AgeGaps(persons []model.Person) []AgeGap {
	sorted := append([]model.Person(nil), persons...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AgeKey > sorted[j].AgeKey })

	// Walk from the youngest up so each person sees the next lower age of
	// its group already recorded.
	next := make(map[string]int)
	gaps := make([]int, len(sorted))
	hasGap := make([]bool, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		if !p.HasLastName {
			continue
		}
		if lower, ok := next[p.LastName]; ok {
			gaps[i] = p.AgeKey - lower
			hasGap[i] = true
		}
		next[p.LastName] = p.AgeKey
	}

	out := make([]AgeGap, 0)
	for i, p := range sorted {
		if hasGap[i] && gaps[i] == AgeGapTarget {
			out = append(out, AgeGap{Person: p, Gap: gaps[i]})
		}
	}
	return out
}

// AverageGaps orders each person's rows by (start, end) and takes, for every
// row with a successor, next.End - current.Start. The gaps are averaged per
// age. Results are ordered by mean then age, undefined means last.
func AverageGaps(rows []model.DualRoleRow) []AgeAverageGap {
	sorted := append([]model.DualRoleRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Person.ID != b.Person.ID {
			return a.Person.ID < b.Person.ID
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.End.Before(b.End)
	})

	type acc struct {
		sum float64
		n   int
	}
	byAge := make(map[int]*acc)
	for i, cur := range sorted {
		a, ok := byAge[cur.Person.AgeKey]
		if !ok {
			a = &acc{}
			byAge[cur.Person.AgeKey] = a
		}
		if i+1 < len(sorted) && sorted[i+1].Person.ID == cur.Person.ID {
			a.sum += sorted[i+1].End.Sub(cur.Start).Seconds()
			a.n++
		}
	}

	out := make([]AgeAverageGap, 0, len(byAge))
	for age, a := range byAge {
		g := AgeAverageGap{Age: age}
		if a.n > 0 {
			g.Mean = a.sum / float64(a.n)
			g.Valid = true
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Mean != b.Mean {
			return a.Mean < b.Mean
		}
		return a.Age < b.Age
	})
	return out
}

// Top returns at most n leading gaps.
func Top(gaps []AgeAverageGap, n int) []AgeAverageGap {
	if n < 0 || n >= len(gaps) {
		return gaps
	}
	return gaps[:n]
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func indexByID(persons []model.Person) map[int][]model.Person {
	index := make(map[int][]model.Person, len(persons))
	for _, p := range persons {
		index[p.ID] = append(index[p.ID], p)
	}
	return index
}
