package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

// KV is a flat key/value store holding JSON documents.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Storage types.
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeSQLite = "sqlite"
	TypeS3     = "s3"
)

// Open returns the store for storageType. path is a directory, a database file or a bucket
// name depending on the type. Unknown types fall back to memory.
func Open(ctx context.Context, storageType, path string) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch storageType {
	case TypeFile:
		kv, err = NewFileStore(path)
	case TypeSQLite:
		kv, err = NewSQLiteStore(path)
	case TypeS3:
		kv, err = NewS3Store(ctx, path)
	default:
		storageType = TypeMemory
		kv = NewMemoryStore()
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", storageType, err)
	}
	slog.Info("use storage", "storageType", storageType, "path", path)
	return kv, nil
}

// validKey accepts keys that are safe as file names.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
