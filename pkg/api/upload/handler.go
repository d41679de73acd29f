// Package upload provides the HTTP handler for submitting a filing document.
// Uploads return a correlation ID immediately; the analysis itself runs when
// the client polls the analyze endpoint.
package upload

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"tanshin_insight/pkg/core/report"
	"tanshin_insight/pkg/core/store"
	"tanshin_insight/pkg/core/tanshin"
)

// Handler serves POST /api/upload.
type Handler struct {
	documents *store.DocumentStore
	maxBytes  int64
}

func NewHandler(documents *store.DocumentStore, maxBytes int64) *Handler {
	return &Handler{documents: documents, maxBytes: maxBytes}
}

// UploadResponse is the phase-one payload: a correlation ID plus the
// processing-status marker the client polls with.
type UploadResponse struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

var allowedExtensions = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
}

// HandleUpload accepts a multipart form with a "file" field.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "document exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if err := validateFilename(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	if int64(len(content)) > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "document exceeds the size limit")
		return
	}

	id, err := h.documents.Save(content)
	if err != nil {
		log.Printf("[Upload] store failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	log.Printf("[Upload] stored %s as %s (%d bytes)", header.Filename, id, len(content))
	json.NewEncoder(w).Encode(UploadResponse{
		Filename: id,
		Status:   "processing",
		Message:  "分析を開始しました",
	})
}

func validateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return &tanshin.InvalidDocumentError{Reason: "only .html, .htm and .xhtml documents are supported"}
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report.ErrorResponse{Error: msg})
}
