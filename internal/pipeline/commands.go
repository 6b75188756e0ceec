package pipeline

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

// Operator command grammar, one command per line:
//
//	(empty)   commit the open record
//	d...      delete the open record without writing
//	+N -N 0   adjust quantity by a signed delta
//	p<part>   re-fetch product details for an explicit part number
//
// Every command except commit-with-nothing-open requires an open
// record; anything else is a warning and leaves all state unchanged.
func (p *Pipeline) handleCommand(ctx context.Context, line string) {
	line = strings.TrimSpace(line)

	if line == "" {
		if p.open == nil {
			log.Printf("[Pipeline] WARNING: commit command with no open record")
			return
		}
		p.commit(ctx)
		return
	}

	if p.open == nil {
		log.Printf("[Pipeline] WARNING: command %q with no open record", line)
		return
	}

	switch line[0] {
	case 'd':
		rec := p.open
		p.open = nil
		log.Printf("[Pipeline] deleted open record %s, nothing written", rec.BarcodeKey)
		p.emit(NotifyDeleted, &rec.InventoryRecord)
	case 'p':
		partNumber := strings.TrimSpace(line[1:])
		if partNumber == "" {
			log.Printf("[Pipeline] WARNING: product override without a part number")
			return
		}
		p.fetchProductDetails(ctx, p.open, partNumber, true)
	default:
		p.applyQuantityDelta(line)
	}
}

// applyQuantityDelta parses a signed integer token and adjusts the open
// record's current quantity. The first delta seeds the current quantity
// from the pack quantity.
func (p *Pipeline) applyQuantityDelta(token string) {
	delta, err := strconv.Atoi(token)
	if err != nil {
		log.Printf("[Pipeline] WARNING: malformed quantity token %q", token)
		return
	}

	rec := p.open
	if !rec.quantitySet {
		rec.Quantity = rec.PackQuantity
		rec.quantitySet = true
	}
	rec.Quantity += delta
	rec.UpdatedAt = time.Now()
	log.Printf("[Pipeline] quantity %+d -> %d for %s", delta, rec.Quantity, rec.BarcodeKey)
}
