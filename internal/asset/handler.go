package asset

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

// Catalog images are served read-only; anything else in the directory stays private.
var imageTypes = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".svg":  true,
	".gif":  true,
}

// Handler serves product, clipart and custom image files referenced by the catalog.
type Handler struct {
	dir string // directory holding catalog images
}

// NewHandler creates a new asset handler that serves files from dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Serve returns an http.Handler for /assets/ with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !imageTypes[strings.ToLower(path.Ext(r.URL.Path))] {
			http.NotFound(w, r)
			return
		}
		// Catalog files can be replaced between events
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fs.ServeHTTP(w, r)
	}))
}
