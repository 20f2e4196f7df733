package export

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/crk2/designer/internal/document"
)

const maxUploadSize = 5 << 20 // 5MB

// CreateRequest is the body of POST /exports.
type CreateRequest struct {
	ClientName string               `json:"clientName"`
	View       *document.ExportView `json:"view"`
}

// CreateResponse is returned from POST /exports.
type CreateResponse struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// Handler accepts exports from the editor and serves them for download.
type Handler struct {
	exporter *FileExporter
}

func NewHandler(exporter *FileExporter) *Handler {
	return &Handler{exporter: exporter}
}

// Create handles POST /exports.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.View == nil {
		http.Error(w, "missing view", http.StatusBadRequest)
		return
	}

	name, err := h.exporter.Export(r.Context(), req.View, req.ClientName)
	if errors.Is(err, ErrEmptyName) {
		http.Error(w, "client name is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("export design", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateResponse{FileName: name, URL: "/exports/" + name})
}

// Serve returns an http.Handler for /exports/ with attachment headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.exporter.dir))
	return http.StripPrefix("/exports/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(r.URL.Path)+`"`)
		w.Header().Set("Cache-Control", "no-store")
		fs.ServeHTTP(w, r)
	}))
}
