// Package service assembles the contact report: it runs the domain steps in
// a fixed order and hands each result to the report sink.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/contactreport/internal/adapters/dataset"
	"github.com/okian/contactreport/internal/adapters/report"
	"github.com/okian/contactreport/internal/domain/aggregate"
	"github.com/okian/contactreport/internal/domain/contact"
	"github.com/okian/contactreport/internal/domain/expand"
	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/internal/domain/person"
	"github.com/okian/contactreport/internal/domain/reconcile"
	"github.com/okian/contactreport/internal/domain/table"
	"github.com/okian/contactreport/pkg/logger"
	"github.com/okian/contactreport/pkg/metrics"
)

// Pipeline stage names used for logging and metrics.
const (
	stagePersons   = "persons"
	stageReconcile = "reconcile"
	stageContacts  = "contacts"
	stageAggregate = "aggregate"
	stageSummary   = "summary"
	stageReport    = "report"
)

const millisecondsPerSecond = 1e3

// Runner executes one report run. It holds configuration only; every run
// works on its own tables.
type Runner struct {
	keepOriginal  bool
	summaryLimit  int
	summaryWriter io.Writer
	logger        logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithKeepOriginalColumns strips derived working columns from every sheet
// so only ID, Name and Age are written.
func WithKeepOriginalColumns(keep bool) Option {
	return func(r *Runner) {
		r.keepOriginal = keep
	}
}

// WithSummaryLimit sets how many rows the console gap summary shows.
func WithSummaryLimit(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.summaryLimit = n
		}
	}
}

// WithSummaryWriter sets where the gap summary is printed.
func WithSummaryWriter(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.summaryWriter = w
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs a Runner with default configuration.
func New(opts ...Option) *Runner {
	r := &Runner{
		keepOriginal:  true,
		summaryLimit:  aggregate.SummaryLimit,
		summaryWriter: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get()
	}
	return r
}

// RunToFile writes the report workbook at path. The workbook is saved on
// every path, so sheets written before a failure are kept.
func (r *Runner) RunToFile(ctx context.Context, src *dataset.Sources, path string) (err error) {
	wb, err := report.Create(path)
	if err != nil {
		metrics.RecordRunFailure(stageReport)
		return err
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			metrics.RecordRunFailure(stageReport)
			err = errors.Join(err, cerr)
		}
		r.logger.Info(ctx, "report saved",
			logger.String("path", wb.Path()),
			logger.Int("sheets", len(wb.Sheets())),
		)
	}()
	return r.Run(ctx, src, wb)
}

// Run executes every step in order and writes each result to sink. The
// first failure aborts the remaining steps.
func (r *Runner) Run(ctx context.Context, src *dataset.Sources, sink report.Sink) error {
	if src == nil {
		return fmt.Errorf("%w: nil sources", ErrRun)
	}
	r.logger.Info(ctx, "starting report run",
		logger.Bool("keepOriginalColumns", r.keepOriginal),
		logger.Int("summaryLimit", r.summaryLimit),
	)

	var small, large []model.Person
	if err := r.stage(ctx, stagePersons, func() error {
		small = person.Normalize(src.PersonsSmall)
		large = person.Normalize(src.PersonsLarge)
		if err := r.emit(ctx, sink, SheetSmallData, personsTable(person.SortByLastName(small))); err != nil {
			return err
		}
		return r.emit(ctx, sink, SheetBigData, personsTable(person.SortByFirstName(large)))
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, stageReconcile, func() error {
		if anomalies := reconcile.Verify(small, large); len(anomalies) > 0 {
			metrics.RecordReconciliationAnomalies(len(anomalies))
			r.logger.Warn(ctx, "small dataset has last names absent from large dataset",
				logger.Int("unmatched", len(anomalies)),
				logger.Int("firstID", anomalies[0].ID),
			)
		}
		if err := r.emit(ctx, sink, SheetMissing, personsTable(reconcile.Missing(large, small))); err != nil {
			return err
		}
		if err := r.emit(ctx, sink, SheetAgeGaps, ageGapsTable(aggregate.AgeGaps(large))); err != nil {
			return err
		}
		return r.emit(ctx, sink, SheetNamed, personsTable(person.WithLetters(large)))
	}); err != nil {
		return err
	}

	var dual expand.Result
	if err := r.stage(ctx, stageContacts, func() error {
		filtered, err := contact.Filter(ctx, src.ContactsSmall, src.ContactsLarge)
		if err != nil {
			return err
		}
		metrics.RecordContactsDuplicate(filtered.Stats.Duplicates)
		metrics.RecordContactsTooShort(filtered.Stats.TooShort)
		metrics.UpdateContactsRetained(len(filtered.Contacts))

		dual = expand.DualRole(filtered.Contacts, large)
		metrics.UpdateDualRoleRows(len(dual.Rows))
		metrics.RecordParticipantsUnresolved(dual.Unresolved)
		if dual.Unresolved > 0 {
			r.logger.Warn(ctx, "contact participants missing from large person dataset",
				logger.Int("unresolved", dual.Unresolved),
			)
		}
		r.logger.Info(ctx, "contacts prepared",
			logger.Int("input", filtered.Stats.Input),
			logger.Int("duplicates", filtered.Stats.Duplicates),
			logger.Int("tooShort", filtered.Stats.TooShort),
			logger.Int("retained", len(filtered.Contacts)),
			logger.Int("dualRoleRows", len(dual.Rows)),
		)
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, stageAggregate, func() error {
		if err := r.emit(ctx, sink, SheetContactCount, countsTable(aggregate.ContactCounts(dual.Rows, large))); err != nil {
			return err
		}
		return r.emit(ctx, sink, SheetDuration, durationsTable(aggregate.TotalDurations(dual.Rows, large)))
	}); err != nil {
		return err
	}

	return r.stage(ctx, stageSummary, func() error {
		gaps := aggregate.Top(aggregate.AverageGaps(dual.Rows), r.summaryLimit)
		if err := WriteSummary(r.summaryWriter, gaps); err != nil {
			return fmt.Errorf("%w: %w", ErrSummary, err)
		}
		return nil
	})
}

// emit applies the column projection policy and hands t to sink.
func (r *Runner) emit(ctx context.Context, sink report.Sink, name string, t *table.Table) error {
	out := t
	if r.keepOriginal {
		projected, err := t.Project(table.OriginalColumns...)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		out = projected
	}
	if err := sink.WriteSheet(ctx, name, out); err != nil {
		return err
	}
	metrics.RecordSheetWritten(name, out.Len())
	r.logger.Debug(ctx, "sheet written", logger.String("sheet", name), logger.Int("rows", out.Len()))
	return nil
}

// stage runs fn, timing it and recording failures under name.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.RecordStageLatency(name, elapsed.Seconds()*millisecondsPerSecond)

	if err != nil {
		metrics.RecordRunFailure(name)
		r.logger.Error(ctx, "stage failed", logger.String("stage", name), logger.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	r.logger.Debug(ctx, "stage done", logger.String("stage", name), logger.Duration("elapsed", elapsed))
	return nil
}
