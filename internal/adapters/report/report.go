// Package report writes result tables as sheets of an xlsx workbook.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/okian/contactreport/internal/domain/table"
)

const (
	defaultSheet  = "Sheet1"
	dirPermission = 0o755
)

// Sink accepts named tables and appends each as a sheet.
type Sink interface {
	WriteSheet(ctx context.Context, name string, t *table.Table) error
}

// Workbook is an xlsx report saved to disk on Close.
type Workbook struct {
	file   *excelize.File
	path   string
	sheets []string
	closed bool
}

// Create prepares a workbook that will be saved at path, creating the parent
// directory when missing. Nothing is written to disk until Close.
func Create(path string) (*Workbook, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCreateReport, err)
		}
	}
	return &Workbook{file: excelize.NewFile(), path: path}, nil
}

// Path returns where the workbook is saved.
func (w *Workbook) Path() string {
	return w.path
}

// Sheets returns the sheet names written so far, in order.
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.sheets...)
}

// WriteSheet appends t as sheet name: a header row followed by data rows.
func (w *Workbook) WriteSheet(ctx context.Context, name string, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.closed {
		return ErrClosed
	}
	for _, s := range w.sheets {
		if s == name {
			return fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
		}
	}

	// The first sheet takes over the default one a new file starts with.
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteSheet, name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteSheet, name, err)
	}
	w.sheets = append(w.sheets, name)

	sw, err := w.file.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteSheet, name, err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteSheet, name, err)
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteSheet, name, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("%w: %s row %d: %w", ErrWriteSheet, name, r, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteSheet, name, err)
	}
	return nil
}

// Close saves the workbook with whatever sheets were written and releases it.
// It is safe to call more than once.
func (w *Workbook) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	saveErr := w.file.SaveAs(w.path)
	closeErr := w.file.Close()
	if saveErr != nil {
		return fmt.Errorf("%w: %w", ErrSaveReport, saveErr)
	}
	return closeErr
}
