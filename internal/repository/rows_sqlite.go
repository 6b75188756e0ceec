package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"partscan/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteRowStore implements RowStore using SQLite. WAL mode keeps
// concurrent reads from the HTTP surface cheap while the pipeline is
// the only writer.
type SQLiteRowStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteRowStore opens (creating if needed) the row table at dbPath.
func NewSQLiteRowStore(dbPath string) (*SQLiteRowStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createRowTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteRowStore] Initialized with database: %s", dbPath)
	return &SQLiteRowStore{db: db}, nil
}

func createRowTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS inventory_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		barcode_key TEXT NOT NULL,
		symbology TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		supplier_part TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		pack_quantity INTEGER NOT NULL DEFAULT 0,
		barcode_response TEXT NOT NULL DEFAULT '',
		product_response TEXT NOT NULL DEFAULT '',
		scanned_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_barcode_key ON inventory_rows(barcode_key);
	`
	_, err := db.Exec(query)
	return err
}

// Append inserts one committed row. The table is append-only: there is
// deliberately no update or delete path.
func (s *SQLiteRowStore) Append(ctx context.Context, rec *model.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO inventory_rows
			(barcode_key, symbology, category, supplier_part, quantity,
			 description, pack_quantity, barcode_response, product_response,
			 scanned_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		rec.BarcodeKey, rec.Symbology, rec.Category, rec.SupplierPart, rec.Quantity,
		rec.Description, rec.PackQuantity, rec.BarcodeResponse, rec.ProductResponse,
		rec.ScannedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// LoadAll returns every row in insertion order.
func (s *SQLiteRowStore) LoadAll(ctx context.Context) ([]model.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, barcode_key, symbology, category, supplier_part, quantity,
		       description, pack_quantity, barcode_response, product_response,
		       scanned_at, updated_at
		FROM inventory_rows ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	defer rows.Close()

	var out []model.InventoryRecord
	for rows.Next() {
		var rec model.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.BarcodeKey, &rec.Symbology, &rec.Category,
			&rec.SupplierPart, &rec.Quantity, &rec.Description, &rec.PackQuantity,
			&rec.BarcodeResponse, &rec.ProductResponse, &rec.ScannedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of rows.
func (s *SQLiteRowStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inventory_rows").Scan(&count)
	return count, err
}

// Stats returns statistics about the row table.
func (s *SQLiteRowStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inventory_rows").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_rows"] = count

	var lastScan sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(scanned_at) FROM inventory_rows").Scan(&lastScan); err == nil && lastScan.Valid {
		stats["last_scan"] = lastScan.Time
	}

	var pageCount, pageSize int64
	s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
	stats["db_size_bytes"] = pageCount * pageSize

	return stats, nil
}

// Close closes the database connection.
func (s *SQLiteRowStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteRowStore implements RowStore
var _ RowStore = (*SQLiteRowStore)(nil)
