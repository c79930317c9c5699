package finreport

import (
	"context"

	"github.com/ukaji3/finreport-go/pkg/finreport/cache"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"github.com/ukaji3/finreport-go/pkg/finreport/output"
	"github.com/ukaji3/finreport-go/pkg/finreport/parser"
)

// Service answers report requests against one workbook, memoizing
// extractions through a cache.Gate.
type Service struct {
	path string
	opts Options
	gate *cache.Gate
	open func(path string) (parser.Workbook, error)
}

// NewService creates a Service reading the workbook at path. The store is
// shared across requests and owned by the caller.
func NewService(store cache.Store, path string, opts Options, gateOpts ...cache.GateOption) *Service {
	s := &Service{
		path: path,
		opts: opts,
		open: parser.Open,
	}
	s.gate = cache.NewGate(store, s.load, gateOpts...)
	return s
}

// Path returns the workbook path the service reads.
func (s *Service) Path() string {
	return s.path
}

// Report returns the records for req, from cache when possible.
func (s *Service) Report(ctx context.Context, req *models.Request) (*models.ResultSet, error) {
	if err := req.Validate(); err != nil {
		return nil, NewError(KindInvalidRequest, "validate", "", err)
	}
	return s.gate.Get(ctx, req.WorksheetName, s.path, req.FieldMappings)
}

// Download returns the records for req rendered as an xlsx workbook.
func (s *Service) Download(ctx context.Context, req *models.Request) ([]byte, error) {
	rs, err := s.Report(ctx, req)
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return nil, NewError(KindEmptyResultSet, "download", req.WorksheetName, ErrEmptyResultSet)
	}
	data, err := output.ToXLSX(rs)
	if err != nil {
		return nil, NewError(KindSerialization, "download", req.WorksheetName, err)
	}
	return data, nil
}

func (s *Service) load(ctx context.Context, worksheet, path string, mappings []models.FieldMapping) (*models.ResultSet, error) {
	wb, err := s.open(path)
	if err != nil {
		return nil, NewError(KindInternal, "open", worksheet, err)
	}
	defer wb.Close()

	return Extract(ctx, wb, worksheet, mappings, s.opts)
}
