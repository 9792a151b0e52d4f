// Package api serves the ranking service over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ezBadminton/ttrank/core"
	"github.com/ezBadminton/ttrank/internal/document"
	"github.com/ezBadminton/ttrank/internal/metrics"
	"github.com/ezBadminton/ttrank/internal/report"
	"github.com/ezBadminton/ttrank/internal/service"
	"github.com/ezBadminton/ttrank/internal/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("request body too large")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler routes the HTTP requests to the ranking service.
type Handler struct {
	service      *service.Service
	metrics      *metrics.Manager
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewHandler creates a handler. maxBodyBytes caps uploaded documents.
func NewHandler(svc *service.Service, m *metrics.Manager, logger *zap.Logger, maxBodyBytes int64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:      svc,
		metrics:      m,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Router returns the routes of the service.
//
//	GET  /healthz
//	GET  /metrics
//	POST /v1/rankings        a document, responds with the JSON report
//	POST /v1/rankings.xlsx   a document, responds with the report workbook
//	POST /v1/rankings/batch  several documents, responds with a JSON array
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.metricsMiddleware)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/rankings", h.handleRank)
		r.Post("/rankings.xlsx", h.handleRankWorkbook)
		r.Post("/rankings/batch", h.handleRankBatch)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleRank(w http.ResponseWriter, r *http.Request) {
	rep, err := h.rankRequest(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleRankWorkbook(w http.ResponseWriter, r *http.Request) {
	rep, err := h.rankRequest(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteReport(&buf, rep); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="ranking.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleRankBatch(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	format, err := document.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	docs, err := document.DecodeAll(bytes.NewReader(body), format)
	if err != nil {
		h.writeError(w, err)
		return
	}

	reports, err := h.service.RankAll(r.Context(), docs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Reads the document of the request in the format of its content type
// and ranks it.
func (h *Handler) rankRequest(w http.ResponseWriter, r *http.Request) (*report.Report, error) {
	body, err := h.readBody(w, r)
	if err != nil {
		return nil, err
	}

	var doc *document.Document
	contentType := r.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType == xlsxContentType {
		doc, err = spreadsheet.ReadDocument(bytes.NewReader(body))
	} else {
		var format document.Format
		format, err = document.FormatFromContentType(contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		doc, err = document.Decode(bytes.NewReader(body), format)
	}
	if err != nil {
		return nil, err
	}

	return h.service.Rank(r.Context(), doc)
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return body, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Code: "too_large", Message: err.Error()})
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, document.ErrInvalidDocument),
		errors.Is(err, spreadsheet.ErrInvalidWorkbook),
		errors.Is(err, core.ErrInvalidRules):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    "internal",
			Message: http.StatusText(http.StatusInternalServerError),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Records the requests by their route pattern so that the
// metric labels stay bounded.
func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		h.metrics.RecordHTTPRequest(r.Method, route, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
