package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/contactreport/internal/adapters/dataset"
	service "github.com/okian/contactreport/internal/app"
	"github.com/okian/contactreport/internal/domain/contact"
	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/internal/domain/table"
	"github.com/okian/contactreport/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// memorySink keeps every sheet in write order.
type memorySink struct {
	names  []string
	tables map[string]*table.Table
	failOn string
}

func newMemorySink() *memorySink {
	return &memorySink{tables: make(map[string]*table.Table)}
}

func (s *memorySink) WriteSheet(_ context.Context, name string, t *table.Table) error {
	if name == s.failOn {
		return errors.New("disk full")
	}
	s.names = append(s.names, name)
	s.tables[name] = t
	return nil
}

func column(t *table.Table, name string) []any {
	i := t.Index(name)
	out := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

func sources() *dataset.Sources {
	return &dataset.Sources{
		PersonsSmall: []model.PersonRecord{
			{ID: 1, Name: "Ann Lee", Age: 30},
			{ID: 3, Name: "Cy Roe", Age: 20},
		},
		PersonsLarge: []model.PersonRecord{
			{ID: 1, Name: "Ann Lee", Age: 30},
			{ID: 2, Name: "Bo Lee", Age: 40},
			{ID: 3, Name: "Cy Roe", Age: 20},
			{ID: 4, Name: "Di Fox", Age: 55},
			{ID: 5, Name: "1234", Age: 18},
		},
		ContactsSmall: []model.ContactRecord{
			{Member1ID: 1, Member2ID: 2, From: "2023-01-01T10:00:00", To: "2023-01-01T10:06:00"},
			{Member1ID: 2, Member2ID: 3, From: "2023-01-01T09:00:00", To: "2023-01-01T09:04:00"},
		},
		ContactsLarge: []model.ContactRecord{
			{Member1ID: 1, Member2ID: 2, From: "2023-01-01T10:00:00", To: "2023-01-01T10:06:00"},
			{Member1ID: 2, Member2ID: 4, From: "2023-01-01T11:00:00", To: "2023-01-01T11:20:00"},
		},
	}
}

func TestRunner_Run(t *testing.T) {
	Convey("Given a runner writing every column", t, func() {
		ctx := context.Background()
		var out bytes.Buffer
		runner := service.New(
			service.WithKeepOriginalColumns(false),
			service.WithSummaryWriter(&out),
		)
		sink := newMemorySink()

		Convey("When running on consistent sources", func() {
			err := runner.Run(ctx, sources(), sink)

			Convey("Then every sheet is written in order", func() {
				So(err, ShouldBeNil)
				So(sink.names, ShouldResemble, []string{
					service.SheetSmallData, service.SheetBigData, service.SheetMissing,
					service.SheetAgeGaps, service.SheetNamed,
					service.SheetContactCount, service.SheetDuration,
				})
			})

			Convey("Then small_data is ordered by last name and big_data by first name", func() {
				So(column(sink.tables[service.SheetSmallData], table.ColID), ShouldResemble, []any{1, 3})
				So(column(sink.tables[service.SheetBigData], table.ColID), ShouldResemble, []any{5, 1, 2, 3, 4})
			})

			Convey("Then working columns are kept", func() {
				So(sink.tables[service.SheetBigData].Index("last_name"), ShouldBeGreaterThan, 0)
				So(sink.tables[service.SheetAgeGaps].Index("diff"), ShouldBeGreaterThan, 0)
			})

			Convey("Then 1.5 holds large persons whose last name is absent from small", func() {
				So(column(sink.tables[service.SheetMissing], table.ColID), ShouldResemble, []any{4, 5})
			})

			Convey("Then 1.6 holds the ten-year surname gap", func() {
				So(column(sink.tables[service.SheetAgeGaps], table.ColID), ShouldResemble, []any{2})
			})

			Convey("Then 1.7 drops names without letters", func() {
				So(column(sink.tables[service.SheetNamed], table.ColID), ShouldResemble, []any{1, 2, 3, 4})
			})

			Convey("Then 2.4 and 2.5 rank persons by contacts", func() {
				counts := sink.tables[service.SheetContactCount]
				So(column(counts, table.ColID), ShouldResemble, []any{2, 1, 4})
				So(column(counts, "count"), ShouldResemble, []any{2, 1, 1})

				durations := sink.tables[service.SheetDuration]
				So(column(durations, table.ColID), ShouldResemble, []any{2, 4, 1})
				So(column(durations, "duration_seconds"), ShouldResemble, []any{1560.0, 1200.0, 360.0})
			})

			Convey("Then the gap summary is printed", func() {
				So(out.String(), ShouldContainSubstring, "avg_time_between_contacts")
				So(out.String(), ShouldContainSubstring, "4800.0")
				So(out.String(), ShouldContainSubstring, "NaN")
			})
		})

		Convey("When a contact timestamp is malformed", func() {
			src := sources()
			src.ContactsLarge[1].To = "not a time"
			err := runner.Run(ctx, src, sink)

			Convey("Then the run aborts after the person sheets", func() {
				So(errors.Is(err, contact.ErrInvalidTimestamp), ShouldBeTrue)
				So(sink.names, ShouldHaveLength, 5)
				So(out.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the sink fails", func() {
			sink.failOn = service.SheetMissing
			err := runner.Run(ctx, sources(), sink)

			Convey("Then the run stops at that sheet", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "disk full")
				So(sink.names, ShouldResemble, []string{service.SheetSmallData, service.SheetBigData})
			})
		})

		Convey("When sources are nil", func() {
			err := runner.Run(ctx, nil, sink)

			Convey("Then it fails without writing", func() {
				So(errors.Is(err, service.ErrRun), ShouldBeTrue)
				So(sink.names, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a runner keeping only original columns", t, func() {
		var out bytes.Buffer
		runner := service.New(service.WithSummaryWriter(&out), service.WithSummaryLimit(1))
		sink := newMemorySink()

		Convey("When running", func() {
			err := runner.Run(context.Background(), sources(), sink)

			Convey("Then every sheet has exactly ID, Name and Age", func() {
				So(err, ShouldBeNil)
				for _, name := range sink.names {
					So(sink.tables[name].Columns, ShouldResemble, table.OriginalColumns)
				}
			})

			Convey("Then the summary honours the limit", func() {
				So(out.String(), ShouldContainSubstring, "4800.0")
				So(out.String(), ShouldNotContainSubstring, "NaN")
			})
		})
	})

	Convey("Given small persons missing from the large dataset", t, func() {
		runner := service.New(service.WithSummaryWriter(&bytes.Buffer{}))
		src := sources()
		src.PersonsSmall = append(src.PersonsSmall, model.PersonRecord{ID: 9, Name: "Gus Hay", Age: 33})

		Convey("When running", func() {
			err := runner.Run(context.Background(), src, newMemorySink())

			Convey("Then the anomaly is reported without failing", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
