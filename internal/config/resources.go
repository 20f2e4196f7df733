package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/crk2/designer/internal/document"
	"github.com/crk2/designer/internal/store"
)

// ResourcesKey is the storage key holding the event catalog.
const ResourcesKey = "crk2_event_config"

// ErrNotConfigured means no catalog has been set up yet.
var ErrNotConfigured = errors.New("event not configured")

// ParseResources decodes a catalog and fills in missing palettes.
func ParseResources(data []byte) (*document.Resources, error) {
	var res document.Resources
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	res.Normalize()
	return &res, nil
}

// LoadResourcesFile reads a catalog from a JSON file.
func LoadResourcesFile(path string) (*document.Resources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources: %w", err)
	}
	return ParseResources(data)
}

// LoadResources reads the catalog from the store. A missing key is ErrNotConfigured.
func LoadResources(ctx context.Context, kv store.KV) (*document.Resources, error) {
	data, err := kv.Get(ctx, ResourcesKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	return ParseResources(data)
}

// SaveResources writes the catalog to the store.
func SaveResources(ctx context.Context, kv store.KV, res *document.Resources) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}
	if err := kv.Set(ctx, ResourcesKey, data); err != nil {
		return fmt.Errorf("save resources: %w", err)
	}
	return nil
}

// ResolveResources picks the catalog for a host: the file named by the config when set,
// otherwise the stored catalog.
func ResolveResources(ctx context.Context, cfg *Config, kv store.KV) (*document.Resources, error) {
	if cfg.ResourcesPath != "" {
		return LoadResourcesFile(cfg.ResourcesPath)
	}
	return LoadResources(ctx, kv)
}
