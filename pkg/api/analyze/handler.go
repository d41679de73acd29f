// Package analyze provides the HTTP handler for retrieving an analysis
// result by its correlation ID.
package analyze

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"tanshin_insight/pkg/core/pipeline"
	"tanshin_insight/pkg/core/report"
	"tanshin_insight/pkg/core/store"
	"tanshin_insight/pkg/core/tanshin"
)

// Handler serves GET /api/analyze/{id}.
type Handler struct {
	pipeline *pipeline.Pipeline
}

func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{pipeline: p}
}

// HandleAnalyze runs (or retrieves) the analysis for a stored document.
// Status mapping: 404 unknown ID, 500 terminal extraction failure, 200 with
// the full result document otherwise.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/analyze/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	resp, err := h.pipeline.Analyze(r.Context(), id)
	if err != nil {
		status, msg := classify(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Analyze] %s failed: %v", id, err)
		}
		writeError(w, status, msg)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

// classify maps pipeline errors onto the error contract.
func classify(err error) (int, string) {
	var invalid *tanshin.InvalidDocumentError
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, tanshin.ErrUnsupportedFormat):
		return http.StatusInternalServerError, "対応していない決算書形式です"
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	default:
		return http.StatusInternalServerError, "分析処理に失敗しました"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report.ErrorResponse{Error: msg})
}
