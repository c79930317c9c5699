package finreport

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"github.com/ukaji3/finreport-go/pkg/finreport/parser"
	"golang.org/x/sync/errgroup"
)

// Extract builds one record per company column of the named worksheet.
//
// Columns from opts.FirstColumn to the last populated column are read
// concurrently. A column whose header cell is blank is skipped. Cells that
// fail to read are logged and left out of their record. The result is
// sorted by company name; columns sharing a name keep their sheet order.
func Extract(ctx context.Context, wb parser.Workbook, worksheet string, mappings []models.FieldMapping, opts Options) (*models.ResultSet, error) {
	start := time.Now()
	log := opts.logger().With("extraction_id", uuid.NewString(), "worksheet", worksheet)

	sheet, err := wb.Sheet(worksheet)
	if err != nil {
		if errors.Is(err, parser.ErrSheetNotFound) {
			log.Error("worksheet not found")
			return nil, NewError(KindWorksheetNotFound, "extract", worksheet, err)
		}
		return nil, NewError(KindInternal, "extract", worksheet, err)
	}

	_, lastCol, err := sheet.ColumnRange()
	if err != nil {
		return nil, NewError(KindInternal, "extract", worksheet, err)
	}

	first := opts.firstColumn()
	slots := make([]*models.Record, max(lastCol-first+1, 0))
	var cellErrors atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxWorkers > 0 {
		g.SetLimit(opts.MaxWorkers)
	}

	headerRow := opts.headerRow()
	for col := first; col <= lastCol; col++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, ok, errs := parser.ReadEntity(sheet, col, headerRow, mappings)
			for _, e := range errs {
				log.Warn("cell read failed",
					"row", e.Row,
					"col", e.Col,
					"field", e.Field,
					"error", e.Err,
				)
			}
			cellErrors.Add(int64(len(errs)))
			if ok {
				slots[col-first] = &rec
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, NewError(KindInternal, "extract", worksheet, err)
	}

	records := make([]models.Record, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	models.SortByCompany(records)
	rs := models.NewResultSet(records)

	elapsed := time.Since(start)
	log.Debug("extraction complete",
		"records", rs.Len(),
		"cell_errors", cellErrors.Load(),
		"duration_ms", elapsed.Milliseconds(),
	)
	if opts.Observer != nil {
		opts.Observer.ObserveExtraction(sheet.Name(), elapsed, rs.Len(), int(cellErrors.Load()))
	}
	return rs, nil
}

// ExtractFile opens the workbook at path and runs Extract against it.
func ExtractFile(ctx context.Context, path, worksheet string, mappings []models.FieldMapping, opts Options) (*models.ResultSet, error) {
	wb, err := parser.Open(path)
	if err != nil {
		return nil, NewError(KindInternal, "open", worksheet, err)
	}
	defer wb.Close()

	return Extract(ctx, wb, worksheet, mappings, opts)
}
