package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ukaji3/finreport-go/internal/logging"
	"github.com/ukaji3/finreport-go/pkg/finreport"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

const internalMessage = "An error occurred while processing your request."

// statusFor maps an error kind to its HTTP status. Client-caused kinds are
// 4xx; everything else is 500.
func statusFor(kind finreport.Kind) int {
	switch kind {
	case finreport.KindInvalidRequest, finreport.KindEmptyResultSet:
		return http.StatusBadRequest
	case finreport.KindWorksheetNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err with request context and writes a sanitized JSON
// error. Server-side failures never expose their details to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := finreport.KindOf(err)
	status := statusFor(kind)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"status", status,
		"code", kind.String(),
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	message := internalMessage
	var fe *finreport.Error
	if errors.As(err, &fe) && fe.Client() {
		message = fe.Err.Error()
	}

	writeJSON(w, r, status, ErrorResponse{
		Error:     message,
		Code:      kind.String(),
		RequestID: middleware.GetReqID(r.Context()),
	})
}
