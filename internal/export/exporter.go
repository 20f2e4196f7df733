package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crk2/designer/internal/document"
)

var ErrEmptyName = errors.New("empty file name")

// FileExporter writes the flattened scene as a JSON document that a print pipeline can
// rasterize.
type FileExporter struct {
	dir string
	now func() time.Time
}

// NewFileExporter creates an exporter that writes into dir, creating it when missing.
func NewFileExporter(dir string) *FileExporter {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create export dir", "error", err, "dir", dir)
	}
	return &FileExporter{dir: dir, now: time.Now}
}

// Export writes view and returns the file name, relative to the export directory.
func (e *FileExporter) Export(ctx context.Context, view *document.ExportView, clientName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := FileName(clientName, e.now())
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode view: %w", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	slog.Info("export complete", "file", name, "elements", len(view.Elements), "size", len(data))
	return name, nil
}

// FileName builds "<client>_<timestamp>.json" from a free-form client name.
func FileName(clientName string, at time.Time) (string, error) {
	name := strings.TrimSpace(clientName)
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	if strings.Trim(name, "-") == "" {
		return "", ErrEmptyName
	}
	return fmt.Sprintf("%s_%s.json", name, at.UTC().Format("20060102-150405")), nil
}
