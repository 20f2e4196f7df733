package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crk2/designer/internal/document"
	"github.com/crk2/designer/internal/store"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 8080 || cfg.HistoryLimit != 50 || cfg.LongPress != 500*time.Millisecond {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.CanvasWidth != 500 || cfg.CanvasHeight != 600 {
		t.Errorf("canvas = %v×%v, want 500×600", cfg.CanvasWidth, cfg.CanvasHeight)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("EDITOR_LONG_PRESS", "750ms")
	t.Setenv("STORAGE_TYPE", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.LongPress != 750*time.Millisecond || cfg.StorageType != "sqlite" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestConfig_Settings(t *testing.T) {
	t.Setenv("EDITOR_LONG_PRESS", "1.5s")
	t.Setenv("EDITOR_CANVAS_WIDTH", "320")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	want := Settings{CanvasWidth: 320, CanvasHeight: 600, HistoryLimit: 50, LongPressMs: 1500}
	if got := cfg.Settings(); got != want {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("EDITOR_HISTORY_LIMIT", "lots")
	if _, err := Load(); err == nil {
		t.Error("Load() should reject a non-numeric history limit")
	}
}

func TestParseResources_Fallbacks(t *testing.T) {
	res, err := ParseResources([]byte(`{"products":[{"id":"mug","name":"Taza","image":"mug.png"}]}`))
	if err != nil {
		t.Fatalf("ParseResources() failed: %v", err)
	}
	if len(res.Products) != 1 || res.Products[0].ID != "mug" {
		t.Errorf("Products = %+v", res.Products)
	}
	if len(res.Colors) != 3 || res.Colors[0] != "#000000" {
		t.Errorf("Colors = %v, want default palette", res.Colors)
	}
	if len(res.Fonts) != 3 || res.Fonts[2] != "Bebas Neue" {
		t.Errorf("Fonts = %v, want default fonts", res.Fonts)
	}
	if res.Cliparts == nil || res.CustomImages == nil {
		t.Error("missing image lists should become empty lists")
	}
}

func TestParseResources_Invalid(t *testing.T) {
	if _, err := ParseResources([]byte("{")); err == nil {
		t.Error("ParseResources() should fail on malformed JSON")
	}
}

func TestLoadResources_Store(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	if _, err := LoadResources(ctx, kv); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("LoadResources() error = %v, want ErrNotConfigured", err)
	}

	if err := SaveResources(ctx, kv, document.NewSampleResources()); err != nil {
		t.Fatalf("SaveResources() failed: %v", err)
	}
	res, err := LoadResources(ctx, kv)
	if err != nil {
		t.Fatalf("LoadResources() failed: %v", err)
	}
	if len(res.Products) != 2 {
		t.Errorf("loaded %d products, want 2", len(res.Products))
	}
}

func TestResolveResources_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.json")
	os.WriteFile(path, []byte(`{"products":[{"id":"cap","name":"Gorra"}],"fonts":["Lobster"]}`), 0644)

	cfg := &Config{ResourcesPath: path}
	res, err := ResolveResources(context.Background(), cfg, store.NewMemoryStore())
	if err != nil {
		t.Fatalf("ResolveResources() failed: %v", err)
	}
	if res.Products[0].ID != "cap" || res.Fonts[0] != "Lobster" {
		t.Errorf("ResolveResources() = %+v", res)
	}

	cfg.ResourcesPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := ResolveResources(context.Background(), cfg, store.NewMemoryStore()); err == nil {
		t.Error("ResolveResources() should fail for a missing file")
	}
}
