package finreport

import (
	"errors"
	"fmt"

	"github.com/ukaji3/finreport-go/pkg/finreport/output"
	"github.com/ukaji3/finreport-go/pkg/finreport/parser"
)

// ErrInvalidRequest indicates a malformed or incomplete request.
var ErrInvalidRequest = errors.New("invalid request")

// ErrWorksheetNotFound indicates the requested worksheet does not exist.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// ErrEmptyResultSet indicates there are no records to export.
var ErrEmptyResultSet = output.ErrEmptyResultSet

// ErrSerialization indicates the xlsx report could not be built.
var ErrSerialization = output.ErrSerialization

// CellReadError is a single failed cell lookup. Extract logs and counts
// these; they never reach the caller.
type CellReadError = parser.CellReadError

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRequest
	KindWorksheetNotFound
	KindEmptyResultSet
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindWorksheetNotFound:
		return "worksheet_not_found"
	case KindEmptyResultSet:
		return "empty_result_set"
	case KindSerialization:
		return "serialization_failure"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by every finreport operation.
type Error struct {
	Kind      Kind
	Op        string // "extract", "download", "open", "validate"
	Worksheet string
	Err       error
}

func (e *Error) Error() string {
	if e.Worksheet == "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Op, e.Worksheet, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.Kind == KindInvalidRequest
	case ErrWorksheetNotFound:
		return e.Kind == KindWorksheetNotFound
	}
	return false
}

// Client reports whether the error was caused by the caller's input.
func (e *Error) Client() bool {
	switch e.Kind {
	case KindInvalidRequest, KindWorksheetNotFound, KindEmptyResultSet:
		return true
	}
	return false
}

// NewError creates a new Error.
func NewError(kind Kind, op, worksheet string, err error) *Error {
	return &Error{
		Kind:      kind,
		Op:        op,
		Worksheet: worksheet,
		Err:       err,
	}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
