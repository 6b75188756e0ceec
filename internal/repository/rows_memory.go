package repository

import (
	"context"
	"sync"

	"partscan/internal/model"
)

// MemoryRowStore implements RowStore in memory, for tests and for
// running a station without persistence.
type MemoryRowStore struct {
	mu   sync.RWMutex
	rows []model.InventoryRecord
}

// NewMemoryRowStore creates an empty in-memory row store.
func NewMemoryRowStore() *MemoryRowStore {
	return &MemoryRowStore{}
}

// Append inserts one committed row.
func (s *MemoryRowStore) Append(ctx context.Context, rec *model.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, *rec)
	return nil
}

// LoadAll returns every row in insertion order.
func (s *MemoryRowStore) LoadAll(ctx context.Context) ([]model.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.InventoryRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Count returns the number of rows.
func (s *MemoryRowStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

// Stats returns statistics about the row table.
func (s *MemoryRowStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	count, _ := s.Count(ctx)
	return map[string]interface{}{"total_rows": count}, nil
}

// Close is a no-op for the memory store.
func (s *MemoryRowStore) Close() error {
	return nil
}

// Ensure MemoryRowStore implements RowStore
var _ RowStore = (*MemoryRowStore)(nil)
