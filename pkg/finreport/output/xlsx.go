// Package output renders extraction results as JSON or xlsx.
package output

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"github.com/xuri/excelize/v2"
)

// ErrEmptyResultSet indicates there are no records to write.
var ErrEmptyResultSet = errors.New("no data to export")

// ErrSerialization indicates the workbook could not be built.
var ErrSerialization = errors.New("failed to generate the excel file")

// ResultsSheet is the name of the single worksheet in a generated report.
const ResultsSheet = "Results"

// ContentType is the media type of a generated report.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	minColWidth = 8
	maxColWidth = 255
	colPadding  = 2
)

// ToXLSX writes rs into a single-sheet workbook and returns its bytes.
//
// Row 1 holds the schema as bold, centered headers. Each record follows in
// schema order; keys missing from a record are left blank and keys outside
// the schema are dropped.
func ToXLSX(rs *models.ResultSet) ([]byte, error) {
	if rs.Len() == 0 {
		return nil, ErrEmptyResultSet
	}
	columns := rs.Columns()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return nil, serializationError(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D3D3D3"}},
	})
	if err != nil {
		return nil, serializationError(err)
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, serializationError(err)
	}

	widths := make([]int, len(columns))
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
		widths[i] = utf8.RuneCountInString(col)
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return nil, serializationError(err)
	}

	for r, rec := range rs.Records {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			if v, ok := rec.Get(col); ok {
				row[i] = v
				widths[i] = max(widths[i], utf8.RuneCountInString(v))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, serializationError(err)
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return nil, serializationError(err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, serializationError(err)
	}
	if err := f.SetCellStyle(ResultsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, serializationError(err)
	}
	lastRow := rs.Len() + 1
	if err := f.SetCellStyle(ResultsSheet, "A2", fmt.Sprintf("%s%d", lastCol, lastRow), dataStyle); err != nil {
		return nil, serializationError(err)
	}

	if err := autoFit(f, widths); err != nil {
		return nil, serializationError(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, serializationError(err)
	}
	return buf.Bytes(), nil
}

// autoFit sizes each column to its widest value.
func autoFit(f *excelize.File, widths []int) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(min(max(w+colPadding, minColWidth), maxColWidth))
		if err := f.SetColWidth(ResultsSheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func serializationError(err error) error {
	return fmt.Errorf("%w: %v", ErrSerialization, err)
}
