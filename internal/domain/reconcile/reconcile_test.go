package reconcile_test

import (
	"testing"

	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/internal/domain/person"
	"github.com/okian/contactreport/internal/domain/reconcile"
	. "github.com/smartystreets/goconvey/convey"
)

func persons(records ...model.PersonRecord) []model.Person {
	return person.Normalize(records)
}

func TestMissing(t *testing.T) {
	Convey("Given a small and a large person table", t, func() {
		small := persons(
			model.PersonRecord{ID: 1, Name: "Ann Lee", Age: 30},
			model.PersonRecord{ID: 3, Name: "Cy Roe", Age: 20},
		)
		large := persons(
			model.PersonRecord{ID: 1, Name: "Ann Lee", Age: 30},
			model.PersonRecord{ID: 2, Name: "Bo Lee", Age: 40},
			model.PersonRecord{ID: 3, Name: "Cy Roe", Age: 20},
			model.PersonRecord{ID: 4, Name: "Di Fox", Age: 55},
			model.PersonRecord{ID: 5, Name: "Ed Fox", Age: 25},
		)

		Convey("When finding persons of large with no surname in small", func() {
			missing := reconcile.Missing(large, small)

			Convey("Then only unmatched surnames are returned in large order", func() {
				So(missing, ShouldHaveLength, 2)
				So(missing[0].ID, ShouldEqual, 4)
				So(missing[1].ID, ShouldEqual, 5)
			})

			Convey("Then a surname shared with a different person still matches", func() {
				for _, p := range missing {
					So(p.ID, ShouldNotEqual, 2)
				}
			})
		})

		Convey("When verifying small against large", func() {
			anomalies := reconcile.Verify(small, large)

			Convey("Then no anomalies are reported", func() {
				So(anomalies, ShouldBeEmpty)
			})
		})

		Convey("When small holds a surname large lacks", func() {
			small = append(small, persons(model.PersonRecord{ID: 9, Name: "Gus Hay", Age: 33})...)
			anomalies := reconcile.Verify(small, large)

			Convey("Then the offending row is reported", func() {
				So(anomalies, ShouldHaveLength, 1)
				So(anomalies[0].ID, ShouldEqual, 9)
			})
		})
	})
}

func TestMissingLastNames(t *testing.T) {
	Convey("Given persons without a last name", t, func() {
		large := persons(
			model.PersonRecord{ID: 1, Name: "Plato", Age: 80},
			model.PersonRecord{ID: 2, Name: "Ann Lee", Age: 30},
		)

		Convey("When small also has a person without a last name", func() {
			small := persons(model.PersonRecord{ID: 7, Name: "Homer", Age: 70})
			missing := reconcile.Missing(large, small)

			Convey("Then the missing last names match each other", func() {
				So(missing, ShouldHaveLength, 1)
				So(missing[0].ID, ShouldEqual, 2)
			})
		})

		Convey("When small is empty", func() {
			missing := reconcile.Missing(large, nil)

			Convey("Then every large row is missing", func() {
				So(missing, ShouldHaveLength, 2)
			})
		})
	})
}
