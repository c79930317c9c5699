// Package parser provides worksheet access and per-column cell reading.
package parser

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the workbook has no worksheet with the requested name.
var ErrSheetNotFound = errors.New("worksheet not found")

// Workbook is an open spreadsheet file.
type Workbook interface {
	// Sheet returns the named worksheet or ErrSheetNotFound.
	Sheet(name string) (Sheet, error)
	Close() error
}

// Sheet reads cells from a single worksheet. Implementations must be safe
// for concurrent reads.
type Sheet interface {
	Name() string
	// CellText returns the displayed text of the cell at the 1-based row and column.
	CellText(row, col int) (string, error)
	// ColumnRange returns the first and last populated 1-based column indexes.
	// Both are 0 when the sheet is empty.
	ColumnRange() (start, end int, err error)
}

// Open opens an xlsx file from disk.
func Open(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &excelWorkbook{f: f}, nil
}

// OpenReader opens an xlsx stream.
func OpenReader(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &excelWorkbook{f: f}, nil
}

// FromFile wraps an already opened excelize file. Closing the returned
// Workbook closes f.
func FromFile(f *excelize.File) Workbook {
	return &excelWorkbook{f: f}
}

type excelWorkbook struct {
	f *excelize.File
}

func (w *excelWorkbook) Sheet(name string) (Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, ErrSheetNotFound
	}
	// Use the stored name so lookups match regardless of the caller's casing.
	return &excelSheet{f: w.f, name: w.f.GetSheetName(idx)}, nil
}

func (w *excelWorkbook) Close() error {
	return w.f.Close()
}

type excelSheet struct {
	f    *excelize.File
	name string
}

func (s *excelSheet) Name() string {
	return s.name
}

func (s *excelSheet) CellText(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return s.f.GetCellValue(s.name, cell)
}

func (s *excelSheet) ColumnRange() (int, int, error) {
	rows, err := s.f.GetRows(s.name)
	if err != nil {
		return 0, 0, err
	}
	start, end := findColumnBounds(rows)
	return start, end, nil
}
