package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ukaji3/finreport-go/pkg/finreport"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"github.com/ukaji3/finreport-go/pkg/finreport/output"
)

// reportFilename is the attachment name of a downloaded report.
const reportFilename = "report.xlsx"

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rs, err := s.reporter.Report(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rs)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := s.reporter.Download(r.Context(), req)
	if err != nil {
		s.observeDownload(finreport.KindOf(err).String())
		s.respondError(w, r, err)
		return
	}
	s.observeDownload("ok")

	w.Header().Set("Content-Type", output.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// decodeRequest reads a JSON models.Request from the body. Decode failures
// are returned as invalid-request errors.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*models.Request, error) {
	body := r.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	var req *models.Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is required")
		}
		return nil, finreport.NewError(finreport.KindInvalidRequest, "decode", "", err)
	}
	return req, nil
}

func (s *Server) observeDownload(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveDownload(outcome)
	}
}
