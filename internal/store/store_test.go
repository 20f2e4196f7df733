package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crk2/designer/internal/document"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	db, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]KV{
		TypeMemory: NewMemoryStore(),
		TypeFile:   fs,
		TypeSQLite: db,
	}
}

func TestKV_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() missing key error = %v, want ErrNotFound", err)
			}

			if err := kv.Set(ctx, "crk2_event_config", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := kv.Get(ctx, "crk2_event_config")
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("Get() = %s, want {\"a\":1}", got)
			}

			if err := kv.Set(ctx, "crk2_event_config", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("Set() overwrite failed: %v", err)
			}
			got, _ = kv.Get(ctx, "crk2_event_config")
			if string(got) != `{"a":2}` {
				t.Errorf("Get() after overwrite = %s", got)
			}

			if err := kv.Delete(ctx, "crk2_event_config"); err != nil {
				t.Fatalf("Delete() failed: %v", err)
			}
			if _, err := kv.Get(ctx, "crk2_event_config"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
			}
			if err := kv.Delete(ctx, "crk2_event_config"); err != nil {
				t.Errorf("Delete() of a missing key failed: %v", err)
			}
		})
	}
}

func TestKV_InvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", ".hidden", "a/b"} {
				if err := kv.Set(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
				}
				if _, err := kv.Get(ctx, key); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
				}
				if err := kv.Delete(ctx, key); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Delete(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	v := []byte("abc")
	kv.Set(ctx, "k", v)
	v[0] = 'z'

	got, _ := kv.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get() = %s, want abc", got)
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	kv.Set(ctx, "k", []byte("v"))

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		t.Errorf("directory holds %v, want only k.json", entries)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		storageType string
		path        string
	}{
		{TypeMemory, ""},
		{"unknown", ""},
		{TypeFile, filepath.Join(dir, "files")},
		{TypeSQLite, filepath.Join(dir, "open.db")},
	}
	for _, tt := range tests {
		kv, err := Open(context.Background(), tt.storageType, tt.path)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", tt.storageType, err)
		}
		if err := kv.Set(context.Background(), "k", []byte("v")); err != nil {
			t.Errorf("Open(%q).Set() failed: %v", tt.storageType, err)
		}
		kv.Close()
	}
}

func TestDesignLog_Append(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	log := NewDesignLog(kv)

	list, err := log.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List() on empty store = %v", list)
	}

	for _, name := range []string{"Ana", "Luis"} {
		rec := document.DesignRecord{ID: "design_" + name, ClientName: name, ProductID: "mug"}
		if err := log.Append(ctx, rec); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	list, err = log.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 2 || list[0].ClientName != "Ana" || list[1].ClientName != "Luis" {
		t.Errorf("List() = %+v, want Ana then Luis", list)
	}
}

func TestDesignLog_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	kv.Set(ctx, DesignsKey, []byte("not json"))

	err := NewDesignLog(kv).Append(ctx, document.DesignRecord{ID: "x"})
	if err == nil {
		t.Fatal("Append() over a corrupt list should fail")
	}
	got, _ := kv.Get(ctx, DesignsKey)
	if string(got) != "not json" {
		t.Error("Append() overwrote a list it could not read")
	}
}
