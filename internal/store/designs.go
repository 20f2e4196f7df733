package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/crk2/designer/internal/document"
)

// DesignsKey is the storage key holding the saved design list.
const DesignsKey = "crk2_designs"

// DesignLog appends saved designs to a JSON array kept under DesignsKey.
type DesignLog struct {
	mu sync.Mutex
	kv KV
}

func NewDesignLog(kv KV) *DesignLog {
	return &DesignLog{kv: kv}
}

// Append adds rec to the end of the list.
func (l *DesignLog) Append(ctx context.Context, rec document.DesignRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load(ctx)
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode designs: %w", err)
	}
	if err := l.kv.Set(ctx, DesignsKey, data); err != nil {
		return fmt.Errorf("save designs: %w", err)
	}
	return nil
}

// List returns every saved design, oldest first.
func (l *DesignLog) List(ctx context.Context) ([]document.DesignRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *DesignLog) load(ctx context.Context) ([]document.DesignRecord, error) {
	data, err := l.kv.Get(ctx, DesignsKey)
	if errors.Is(err, ErrNotFound) {
		return []document.DesignRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load designs: %w", err)
	}
	var records []document.DesignRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode designs: %w", err)
	}
	return records, nil
}
