package asset

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestServe(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "star.png"), []byte("\x89PNG"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("private"), 0644)
	h := NewHandler(dir).Serve()

	tests := []struct {
		path string
		code int
	}{
		{"/assets/star.png", http.StatusOK},
		{"/assets/STAR.PNG", http.StatusNotFound},
		{"/assets/notes.txt", http.StatusNotFound},
		{"/assets/missing.png", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/star.png", nil))
	if rec.Header().Get("Cache-Control") == "" {
		t.Error("asset response lacks Cache-Control")
	}
}
