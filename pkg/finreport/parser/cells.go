package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/finreport-go/pkg/finreport/models"
)

// SentinelNoData is the accounting-format text a sheet shows for an empty amount.
const SentinelNoData = "$-"

// CellReadError describes a single cell that could not be read. It is
// reported to the caller's logger and never aborts a column.
type CellReadError struct {
	Sheet string
	Row   int
	Col   int
	Field string
	Err   error
}

func (e *CellReadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("read cell (%d,%d) in sheet %q: %v", e.Row, e.Col, e.Sheet, e.Err)
	}
	return fmt.Sprintf("read cell (%d,%d) for field %q in sheet %q: %v", e.Row, e.Col, e.Field, e.Sheet, e.Err)
}

func (e *CellReadError) Unwrap() error {
	return e.Err
}

// NormalizeValue maps the no-data sentinel to the empty string and returns
// any other text unchanged.
func NormalizeValue(text string) string {
	if strings.TrimSpace(text) == SentinelNoData {
		return ""
	}
	return text
}

// ReadEntity builds the record for one entity column. ok is false when the
// header cell at headerRow is blank, in which case the column is not an
// entity. Cells that fail to read are left out of the record and returned
// as errors.
func ReadEntity(sheet Sheet, col, headerRow int, mappings []models.FieldMapping) (rec models.Record, ok bool, errs []*CellReadError) {
	header, err := sheet.CellText(headerRow, col)
	if err != nil {
		errs = append(errs, &CellReadError{Sheet: sheet.Name(), Row: headerRow, Col: col, Field: models.CompanyNameKey, Err: err})
		return models.Record{}, false, errs
	}
	name := strings.TrimSpace(header)
	if name == "" {
		return models.Record{}, false, nil
	}

	rec = models.NewRecord(name)
	for _, m := range mappings {
		text, err := sheet.CellText(m.RowNumber, col)
		if err != nil {
			errs = append(errs, &CellReadError{Sheet: sheet.Name(), Row: m.RowNumber, Col: col, Field: m.FieldName, Err: err})
			continue
		}
		rec.Set(m.Key(), NormalizeValue(text))
	}
	return rec, true, errs
}
