package repository

import (
	"context"

	"partscan/internal/model"
)

// RowStore is the append-only inventory table. Rows are inserted once
// and never rewritten; the full table is loaded at startup to seed the
// duplicate-key index.
type RowStore interface {
	// Append inserts one committed row.
	Append(ctx context.Context, rec *model.InventoryRecord) error

	// LoadAll returns every row in insertion order.
	LoadAll(ctx context.Context) ([]model.InventoryRecord, error)

	// Count returns the number of rows.
	Count(ctx context.Context) (int64, error)

	// Stats returns backend statistics for the admin surface.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the store.
	Close() error
}
