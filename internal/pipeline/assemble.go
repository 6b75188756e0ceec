package pipeline

import (
	"context"
	"log"
	"time"

	"partscan/internal/eigp144"
	"partscan/internal/lookup"
	"partscan/internal/model"
	"partscan/internal/scan"
)

// handleScan opens a fresh record for a new sighting. If a record is
// already open it is committed first; a scan never silently drops the
// record before it.
func (p *Pipeline) handleScan(ctx context.Context, e scan.Event) {
	if p.open != nil {
		p.commit(ctx)
	}

	key := lookup.EscapeText(e.Text)
	rec := &openRecord{InventoryRecord: model.InventoryRecord{
		BarcodeKey: key,
		Symbology:  e.Symbology,
		ScannedAt:  e.At,
		UpdatedAt:  e.At,
	}}

	if _, dup := p.index[key]; dup {
		log.Printf("[Pipeline] WARNING: barcode %s was already committed before", key)
	}

	msg, err := eigp144.Decode(e.Text)
	switch {
	case err != nil:
		log.Printf("[Pipeline] WARNING: decode failed for %s: %v; record opened with key only", key, err)
	case msg != nil:
		p.enrichMatrix(ctx, rec, e, msg)
	case scan.IsLinear(e.Symbology):
		p.enrichLinear(ctx, rec, e.Text)
	default:
		log.Printf("[Pipeline] WARNING: unrecognized payload on %s symbology; record opened with key only", e.Symbology)
	}

	p.open = rec
	p.emit(NotifyOpened, &rec.InventoryRecord)
}

// enrichMatrix handles a successfully decoded segmented label: seed
// supplier part and pack quantity from the decoded fields, then consult
// the catalog.
func (p *Pipeline) enrichMatrix(ctx context.Context, rec *openRecord, e scan.Event, msg *eigp144.Message) {
	dist := scan.GuessDistributor(e.Symbology, msg)
	if dist == scan.DistributorUnknown {
		log.Printf("[Pipeline] WARNING: segmented payload on %s symbology, distributor unknown; skipping enrichment", e.Symbology)
		return
	}
	log.Printf("[Pipeline] %s label: %s", dist, msg)

	rec.SupplierPart = msg.Raw(eigp144.FieldSupplierPartNumber.Identifier)
	if qty, ok := msg.Int(eigp144.FieldQuantity.Identifier); ok {
		rec.PackQuantity = qty
	}

	// The barcode lookup resolves the distributor's own part number for
	// the product search; when it fails the decoded supplier part
	// number serves as the search key instead.
	searchTerm := rec.SupplierPart
	br, err := p.barcode2D(ctx, e.Text)
	if err != nil {
		log.Printf("[Pipeline] WARNING: %s barcode lookup failed, falling back to supplier part %q: %v", dist, searchTerm, err)
	} else {
		rec.BarcodeResponse = string(br.Raw)
		if br.PartNumber != "" {
			searchTerm = br.PartNumber
		}
		if br.Quantity > 0 {
			rec.PackQuantity = br.Quantity
		}
	}

	if searchTerm == "" {
		log.Printf("[Pipeline] WARNING: no search term for product details; record left as scanned")
		return
	}
	p.fetchProductDetails(ctx, rec, searchTerm, false)
}

// enrichLinear handles a 1D/linear barcode, which carries no segmented
// payload: the catalog resolves part number and pack quantity from the
// raw text alone.
func (p *Pipeline) enrichLinear(ctx context.Context, rec *openRecord, raw string) {
	cctx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	br, err := p.catalog.Barcode(cctx, raw)
	cancel()
	if err != nil {
		log.Printf("[Pipeline] WARNING: linear barcode lookup failed: %v; record opened with key only", err)
		return
	}

	rec.BarcodeResponse = string(br.Raw)
	rec.SupplierPart = br.PartNumber
	if br.Quantity > 0 {
		rec.PackQuantity = br.Quantity
	}
	if br.PartNumber == "" {
		return
	}
	p.fetchProductDetails(ctx, rec, br.PartNumber, false)
}

func (p *Pipeline) barcode2D(ctx context.Context, raw string) (*lookup.BarcodeResult, error) {
	cctx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	defer cancel()
	return p.catalog.Barcode2D(cctx, raw)
}

// fetchProductDetails populates description and category from the
// catalog. Pack quantity is only taken from the catalog's standard
// package when the label provided none, or on a manual override
// (force). A failed lookup leaves every populated field untouched.
func (p *Pipeline) fetchProductDetails(ctx context.Context, rec *openRecord, partNumber string, force bool) {
	cctx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	details, err := p.catalog.ProductDetails(cctx, partNumber)
	cancel()
	if err != nil {
		log.Printf("[Pipeline] WARNING: product detail lookup for %q failed: %v", partNumber, err)
		return
	}

	rec.Description = details.Description
	rec.Category = details.Category
	if details.StandardPackage > 0 && (force || rec.PackQuantity == 0) {
		rec.PackQuantity = details.StandardPackage
	}
	rec.ProductResponse = string(details.Raw)
	rec.UpdatedAt = time.Now()
}
