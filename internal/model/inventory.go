package model

import "time"

// InventoryRecord is one received-item row. A record is created when a
// scan opens it, mutated by operator commands while it stays open, and
// becomes an immutable appended row once committed.
type InventoryRecord struct {
	ID              int64     `json:"id,omitempty"`
	BarcodeKey      string    `json:"barcode_key"`
	Symbology       string    `json:"symbology"`
	Category        string    `json:"category"`
	SupplierPart    string    `json:"supplier_part"`
	Quantity        int       `json:"quantity"`
	Description     string    `json:"description"`
	PackQuantity    int       `json:"pack_quantity"`
	BarcodeResponse string    `json:"barcode_response,omitempty"`
	ProductResponse string    `json:"product_response,omitempty"`
	ScannedAt       time.Time `json:"scanned_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
