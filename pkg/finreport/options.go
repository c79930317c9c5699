// Package finreport extracts per-company records from columnar finance
// worksheets and renders them back into xlsx reports.
package finreport

import (
	"log/slog"
	"time"
)

const (
	// DefaultFirstColumn is the first entity column; columns before it hold
	// row labels and metadata.
	DefaultFirstColumn = 6
	// DefaultHeaderRow is the row holding company names.
	DefaultHeaderRow = 2
)

// Observer receives extraction statistics. sheet is the worksheet's name as
// stored in the workbook, whatever casing the caller used. Implementations
// must be safe for concurrent use.
type Observer interface {
	ObserveExtraction(sheet string, elapsed time.Duration, records, cellErrors int)
}

// Options configures extraction behavior.
type Options struct {
	// FirstColumn is the 1-based index of the first entity column.
	// Zero means DefaultFirstColumn.
	FirstColumn int
	// HeaderRow is the 1-based row holding company names.
	// Zero means DefaultHeaderRow.
	HeaderRow int
	// MaxWorkers bounds the number of columns read concurrently.
	// Zero or negative means one task per column.
	MaxWorkers int
	// Logger receives suppressed cell read errors. Nil means slog.Default().
	Logger *slog.Logger
	// Observer, if set, is told about every completed extraction.
	Observer Observer
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		FirstColumn: DefaultFirstColumn,
		HeaderRow:   DefaultHeaderRow,
	}
}

func (o Options) firstColumn() int {
	if o.FirstColumn > 0 {
		return o.FirstColumn
	}
	return DefaultFirstColumn
}

func (o Options) headerRow() int {
	if o.HeaderRow > 0 {
		return o.HeaderRow
	}
	return DefaultHeaderRow
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
