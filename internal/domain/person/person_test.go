package person_test

import (
	"testing"

	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/internal/domain/person"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw person records", t, func() {
		records := []model.PersonRecord{
			{ID: 1, Name: "Ann Lee", Age: 30},
			{ID: 2, Name: "Mary Ann Smith", Age: 41},
			{ID: 3, Name: "Plato", Age: 80},
		}

		Convey("When normalizing", func() {
			persons := person.Normalize(records)

			Convey("Then names split on the first space", func() {
				So(persons, ShouldHaveLength, 3)
				So(persons[0].FirstName, ShouldEqual, "Ann")
				So(persons[0].LastName, ShouldEqual, "Lee")
				So(persons[0].HasLastName, ShouldBeTrue)
				So(persons[1].FirstName, ShouldEqual, "Mary")
				So(persons[1].LastName, ShouldEqual, "Ann Smith")
			})

			Convey("Then a single-token name has no last name", func() {
				So(persons[2].FirstName, ShouldEqual, "Plato")
				So(persons[2].LastName, ShouldEqual, "")
				So(persons[2].HasLastName, ShouldBeFalse)
			})

			Convey("Then aliases mirror the originals", func() {
				for i, p := range persons {
					So(p.NameKey, ShouldEqual, records[i].Name)
					So(p.AgeKey, ShouldEqual, records[i].Age)
					So(p.ID, ShouldEqual, records[i].ID)
				}
			})
		})
	})
}

func TestSorting(t *testing.T) {
	Convey("Given normalized persons", t, func() {
		persons := person.Normalize([]model.PersonRecord{
			{ID: 1, Name: "Zed Adams", Age: 20},
			{ID: 2, Name: "Plato", Age: 80},
			{ID: 3, Name: "Amy Brown", Age: 30},
			{ID: 4, Name: "Bob Adams", Age: 50},
		})

		Convey("When sorting by last name", func() {
			sorted := person.SortByLastName(persons)

			Convey("Then ties keep input order and missing last names go last", func() {
				ids := []int{sorted[0].ID, sorted[1].ID, sorted[2].ID, sorted[3].ID}
				So(ids, ShouldResemble, []int{1, 4, 3, 2})
			})

			Convey("Then the input is untouched", func() {
				So(persons[0].ID, ShouldEqual, 1)
				So(persons[1].ID, ShouldEqual, 2)
			})
		})

		Convey("When sorting by first name", func() {
			sorted := person.SortByFirstName(persons)

			Convey("Then persons are ordered by first name", func() {
				ids := []int{sorted[0].ID, sorted[1].ID, sorted[2].ID, sorted[3].ID}
				So(ids, ShouldResemble, []int{3, 4, 2, 1})
			})
		})
	})
}

func TestWithLetters(t *testing.T) {
	Convey("Given names with and without letters", t, func() {
		persons := person.Normalize([]model.PersonRecord{
			{ID: 1, Name: "Ann Lee"},
			{ID: 2, Name: "1234 5678"},
			{ID: 3, Name: ""},
			{ID: 4, Name: "R2 D2"},
		})

		Convey("When filtering", func() {
			kept := person.WithLetters(persons)

			Convey("Then only names containing a letter remain", func() {
				So(kept, ShouldHaveLength, 2)
				So(kept[0].ID, ShouldEqual, 1)
				So(kept[1].ID, ShouldEqual, 4)
			})
		})
	})
}
