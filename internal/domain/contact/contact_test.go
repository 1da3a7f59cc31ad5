package contact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/contactreport/internal/domain/contact"
	"github.com/okian/contactreport/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(m1, m2 int, from, to string) model.ContactRecord {
	return model.ContactRecord{Member1ID: m1, Member2ID: m2, From: from, To: to}
}

func TestFilter(t *testing.T) {
	Convey("Given small and large contact tables", t, func() {
		ctx := context.Background()
		small := []model.ContactRecord{
			rec(1, 2, "2023-01-01T10:00:00", "2023-01-01T10:06:00"),
			rec(2, 3, "2023-01-01T09:00:00", "2023-01-01T09:04:00"),
		}
		large := []model.ContactRecord{
			rec(1, 2, "2023-01-01T10:00:00", "2023-01-01T10:06:00"),
			rec(3, 1, "2023-01-02T08:00:00", "2023-01-02T08:05:00"),
			rec(3, 1, "2023-01-02T08:00:00", "2023-01-02T08:04:59.999"),
		}

		Convey("When filtering", func() {
			res, err := contact.Filter(ctx, small, large)

			Convey("Then duplicates collapse and short contacts are dropped", func() {
				So(err, ShouldBeNil)
				So(res.Stats.Input, ShouldEqual, 5)
				So(res.Stats.Duplicates, ShouldEqual, 1)
				So(res.Stats.TooShort, ShouldEqual, 2)
				So(res.Contacts, ShouldHaveLength, 2)
				So(res.Contacts[0].Record, ShouldResemble, small[0])
				So(res.Contacts[0].Duration, ShouldEqual, 6*time.Minute)
			})

			Convey("Then exactly five minutes is kept", func() {
				So(res.Contacts[1].Record, ShouldResemble, large[1])
				So(res.Contacts[1].Duration, ShouldEqual, contact.MinDuration)
			})

			Convey("Then every retained contact is at least MinDuration", func() {
				for _, c := range res.Contacts {
					So(c.Duration, ShouldBeGreaterThanOrEqualTo, contact.MinDuration)
					So(c.End.Sub(c.Start), ShouldEqual, c.Duration)
				}
			})

			Convey("And filtering the output again", func() {
				again, err := contact.Filter(ctx, contact.Records(res.Contacts), nil)

				Convey("Then the table is unchanged", func() {
					So(err, ShouldBeNil)
					So(again.Contacts, ShouldResemble, res.Contacts)
					So(again.Stats.Duplicates, ShouldEqual, 0)
					So(again.Stats.TooShort, ShouldEqual, 0)
				})
			})
		})

		Convey("When a timestamp cannot be parsed", func() {
			large = append(large, rec(4, 5, "yesterday", "2023-01-02T08:05:00"))
			res, err := contact.Filter(ctx, small, large)

			Convey("Then the whole operation fails", func() {
				So(errors.Is(err, contact.ErrInvalidTimestamp), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 5 field From")
				So(res.Contacts, ShouldBeNil)
			})
		})

		Convey("When both inputs are empty", func() {
			res, err := contact.Filter(ctx, nil, nil)

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(res.Contacts, ShouldBeEmpty)
			})
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	Convey("Given timestamps in accepted layouts", t, func() {
		want := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)

		Convey("Then each parses to the same instant", func() {
			for _, s := range []string{
				"2023-03-04T05:06:07Z",
				"2023-03-04T07:06:07+02:00",
				"2023-03-04T05:06:07",
				"2023-03-04 05:06:07",
				" 2023-03-04T05:06:07 ",
			} {
				got, err := contact.ParseTimestamp(s)
				So(err, ShouldBeNil)
				So(got.Equal(want), ShouldBeTrue)
			}
		})

		Convey("Then fractional seconds and date-only values parse", func() {
			got, err := contact.ParseTimestamp("2023-03-04T05:06:07.250")
			So(err, ShouldBeNil)
			So(got.Nanosecond(), ShouldEqual, 250_000_000)

			got, err = contact.ParseTimestamp("2023-03-04")
			So(err, ShouldBeNil)
			So(got.Hour(), ShouldEqual, 0)
		})

		Convey("Then empty and garbage values fail", func() {
			_, err := contact.ParseTimestamp("")
			So(err, ShouldNotBeNil)
			_, err = contact.ParseTimestamp("10:00")
			So(err, ShouldNotBeNil)
		})
	})
}
