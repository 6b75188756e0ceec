// Package lookup talks to the distributor catalog API that enriches
// scanned parts with part numbers, descriptions and categories.
package lookup

import "context"

// BarcodeResult is the outcome of a barcode lookup: the distributor's
// part number for the label plus the packed quantity. Raw holds the
// unmodified response body for the audit columns of the row store.
type BarcodeResult struct {
	PartNumber             string
	ManufacturerPartNumber string
	ManufacturerName       string
	Description            string
	Quantity               int
	Raw                    []byte
}

// ProductDetails is the outcome of a product-detail lookup keyed by a
// part number.
type ProductDetails struct {
	Description            string
	DetailedDescription    string
	Category               string
	Manufacturer           string
	ManufacturerPartNumber string
	QuantityAvailable      int
	StandardPackage        int
	UnitPrice              float64
	ProductURL             string
	DatasheetURL           string
	Raw                    []byte
}

// Client is the catalog collaborator contract. Every call either
// succeeds with a populated result or fails; callers treat any failure
// as recoverable.
type Client interface {
	// Barcode resolves a 1D/linear product barcode.
	Barcode(ctx context.Context, raw string) (*BarcodeResult, error)

	// Barcode2D resolves a full 2D label payload.
	Barcode2D(ctx context.Context, raw string) (*BarcodeResult, error)

	// ProductDetails fetches catalog details for a part number.
	ProductDetails(ctx context.Context, partNumber string) (*ProductDetails, error)
}
