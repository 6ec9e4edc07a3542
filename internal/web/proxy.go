package web

// proxy.go is the document proxy: raw GET and PUT of the spreadsheet bytes
// against the configured blob store. It is the server side of
// transport.HTTPDocument.

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/blob"
	"github.com/lulicroppi/malaly-merceria/internal/core"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// handleDocument dispatches /api/excel by method.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetDocument(w, r)
	case http.MethodPut:
		s.handlePutDocument(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeJSON(w, r, http.StatusMethodNotAllowed, ErrorResponse{
			Error:   "method not allowed",
			Message: "method not allowed",
			Code:    "HTTP405",
		})
	}
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	obj, err := s.store.Get(r.Context(), s.cfg.Storage.DocumentKey)
	if errors.Is(err, blob.ErrNotFound) {
		respondError(w, r, err, http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, r, apperr.IO(err, "%s get", s.store.Name()), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", workbook.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	if !obj.UpdatedAt.IsZero() {
		w.Header().Set("Last-Modified", obj.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(obj.Data); err != nil {
		logging.FromContext(r.Context()).Warn("document download interrupted", "error", err)
	}
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Acquire(r.Context()); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer s.limiter.Release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, apperr.Invalid("body", err.Error()), http.StatusBadRequest)
		return
	}

	if err := workbook.Sniff(data, r.Header.Get("Content-Type")); err != nil {
		respondError(w, r, err, http.StatusUnsupportedMediaType)
		return
	}

	obj := blob.Object{Data: data, ContentType: workbook.ContentType}
	if err := s.store.Put(r.Context(), s.cfg.Storage.DocumentKey, obj); err != nil {
		respondError(w, r, apperr.IO(err, "%s put", s.store.Name()), http.StatusBadGateway)
		return
	}

	logging.FromContext(r.Context()).Info("document stored",
		"backend", s.store.Name(),
		"key", s.cfg.Storage.DocumentKey,
		"bytes", len(data),
	)
	w.WriteHeader(http.StatusNoContent)
}

// PingResponse reports whether the server is up and how it stores the
// document.
type PingResponse struct {
	OK           bool                     `json:"ok"`
	HasBlobToken bool                     `json:"hasBlobToken"`
	Backend      string                   `json:"backend"`
	Uploads      core.UploadLimiterStatus `json:"uploads"`
	Hint         string                   `json:"hint,omitempty"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	resp := PingResponse{
		OK:           true,
		HasBlobToken: s.cfg.Storage.Token != "",
		Backend:      "remote",
		Uploads:      s.limiter.Status(),
	}
	if s.store != nil {
		resp.Backend = s.store.Name()
	}
	if !resp.HasBlobToken {
		resp.Hint = "set BLOB_READ_WRITE_TOKEN to require a bearer token on /api/excel"
	}
	writeJSON(w, r, http.StatusOK, resp)
}
