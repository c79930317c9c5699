package finreport

import (
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ukaji3/finreport-go/pkg/finreport/parser"
)

type cellRef struct{ row, col int }

// fakeSheet is an in-memory parser.Sheet that counts cell reads.
type fakeSheet struct {
	name    string
	lastCol int
	cells   map[cellRef]string
	fail    map[cellRef]error
	reads   atomic.Int64
	// jitter, when set, delays each read by a random amount below it.
	jitter time.Duration
}

func newFakeSheet(name string) *fakeSheet {
	return &fakeSheet{
		name:  name,
		cells: make(map[cellRef]string),
		fail:  make(map[cellRef]error),
	}
}

func (s *fakeSheet) set(row, col int, text string) *fakeSheet {
	s.cells[cellRef{row, col}] = text
	if col > s.lastCol {
		s.lastCol = col
	}
	return s
}

func (s *fakeSheet) Name() string { return s.name }

func (s *fakeSheet) CellText(row, col int) (string, error) {
	s.reads.Add(1)
	if s.jitter > 0 {
		time.Sleep(rand.N(s.jitter))
	}
	if err := s.fail[cellRef{row, col}]; err != nil {
		return "", err
	}
	return s.cells[cellRef{row, col}], nil
}

func (s *fakeSheet) ColumnRange() (int, int, error) {
	if s.lastCol == 0 {
		return 0, 0, nil
	}
	return 1, s.lastCol, nil
}

type fakeWorkbook struct {
	sheets map[string]*fakeSheet
	closed atomic.Int32
}

func newFakeWorkbook(sheets ...*fakeSheet) *fakeWorkbook {
	wb := &fakeWorkbook{sheets: make(map[string]*fakeSheet)}
	for _, s := range sheets {
		wb.sheets[s.name] = s
	}
	return wb
}

func (w *fakeWorkbook) Sheet(name string) (parser.Sheet, error) {
	for stored, s := range w.sheets {
		if strings.EqualFold(stored, name) {
			return s, nil
		}
	}
	return nil, parser.ErrSheetNotFound
}

func (w *fakeWorkbook) Close() error {
	w.closed.Add(1)
	return nil
}
