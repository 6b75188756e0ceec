package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"partscan/internal/model"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLRowStore implements RowStore using MySQL, for stations that
// share one inventory table across the shop network.
type MySQLRowStore struct {
	db *sql.DB
}

// NewMySQLRowStore connects to MySQL using the given DSN and ensures
// the row table exists.
func NewMySQLRowStore(dsn string) (*MySQLRowStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS inventory_rows (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		barcode_key VARCHAR(512) NOT NULL,
		symbology VARCHAR(64) NOT NULL,
		category VARCHAR(255) NOT NULL DEFAULT '',
		supplier_part VARCHAR(255) NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		description TEXT,
		pack_quantity INT NOT NULL DEFAULT 0,
		barcode_response MEDIUMTEXT,
		product_response MEDIUMTEXT,
		scanned_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		INDEX idx_barcode_key (barcode_key(255))
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLRowStore] Initialized")
	return &MySQLRowStore{db: db}, nil
}

// Append inserts one committed row.
func (s *MySQLRowStore) Append(ctx context.Context, rec *model.InventoryRecord) error {
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
func (s *MySQLRowStore) LoadAll(ctx context.Context) ([]model.InventoryRecord, error) {
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
func (s *MySQLRowStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inventory_rows").Scan(&count)
	return count, err
}

// Stats returns statistics about the row table.
func (s *MySQLRowStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats["total_rows"] = count

	var lastScan sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(scanned_at) FROM inventory_rows").Scan(&lastScan); err == nil && lastScan.Valid {
		stats["last_scan"] = lastScan.Time
	}

	return stats, nil
}

// Close closes the database connection.
func (s *MySQLRowStore) Close() error {
	return s.db.Close()
}

// Ensure MySQLRowStore implements RowStore
var _ RowStore = (*MySQLRowStore)(nil)
