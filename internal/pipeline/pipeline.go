// Package pipeline assembles inventory rows from scan events and
// operator commands. One consumer goroutine owns the single open
// record and the duplicate-key index; producers only submit events.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"partscan/internal/lookup"
	"partscan/internal/model"
	"partscan/internal/repository"
	"partscan/internal/scan"
)

// Notification kinds published to the station hook (audio feedback
// lives behind it).
type Notification int

const (
	NotifyOpened Notification = iota
	NotifyCommitted
	NotifyDeleted
)

func (n Notification) String() string {
	switch n {
	case NotifyOpened:
		return "opened"
	case NotifyCommitted:
		return "committed"
	case NotifyDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// NotifyFunc receives pipeline notifications. It is called from the
// consumer goroutine and must not block.
type NotifyFunc func(n Notification, rec *model.InventoryRecord)

// Config holds pipeline tuning.
type Config struct {
	QueueSize     int           // event channel capacity; default 64
	LookupTimeout time.Duration // per catalog call; default 10s
	Notify        NotifyFunc    // optional
}

type event struct {
	isCommand bool
	line      string
	scan      scan.Event
}

// openRecord is the record under edit plus edit-only state that never
// reaches the table.
type openRecord struct {
	model.InventoryRecord
	quantitySet bool
}

// Pipeline is the record assembler. All state behind it is owned by the
// goroutine running Run; the only safe entry points from other
// goroutines are SubmitScan and SubmitCommand.
type Pipeline struct {
	store   repository.RowStore
	catalog lookup.Client
	events  chan event

	index  map[string]struct{} // barcode keys already in the table
	open   *openRecord
	notify NotifyFunc

	lookupTimeout time.Duration
}

// New creates a pipeline over the given row store and catalog client.
func New(store repository.RowStore, catalog lookup.Client, cfg Config) *Pipeline {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	lookupTimeout := cfg.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = 10 * time.Second
	}
	return &Pipeline{
		store:         store,
		catalog:       catalog,
		events:        make(chan event, queueSize),
		index:         make(map[string]struct{}),
		notify:        cfg.Notify,
		lookupTimeout: lookupTimeout,
	}
}

// LoadIndex seeds the duplicate-key index from the row store. A store
// that cannot be read aborts startup; there is no recovery path for a
// broken table.
func (p *Pipeline) LoadIndex(ctx context.Context) error {
	rows, err := p.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading duplicate-key index: %w", err)
	}
	for _, row := range rows {
		p.index[row.BarcodeKey] = struct{}{}
	}
	log.Printf("[Pipeline] duplicate-key index loaded: %d rows, %d distinct keys", len(rows), len(p.index))
	return nil
}

// SubmitScan queues a post-dedup scan event. Blocks if the queue is
// full; events are never reordered or dropped.
func (p *Pipeline) SubmitScan(e scan.Event) {
	p.events <- event{scan: e}
}

// SubmitCommand queues one operator command line.
func (p *Pipeline) SubmitCommand(line string) {
	p.events <- event{isCommand: true, line: line}
}

// Run drains the event queue strictly in arrival order until ctx is
// cancelled. It must be called from exactly one goroutine.
func (p *Pipeline) Run(ctx context.Context) {
	log.Printf("[Pipeline] started")
	for {
		select {
		case <-ctx.Done():
			if p.open != nil {
				log.Printf("[Pipeline] shutdown with uncommitted record %s; discarding", p.open.BarcodeKey)
			}
			log.Printf("[Pipeline] stopped")
			return
		case ev := <-p.events:
			if ev.isCommand {
				p.handleCommand(ctx, ev.line)
			} else {
				p.handleScan(ctx, ev.scan)
			}
		}
	}
}

func (p *Pipeline) emit(n Notification, rec *model.InventoryRecord) {
	if p.notify != nil {
		p.notify(n, rec)
	}
}

// commit writes the open record to the table, updates the duplicate-key
// index, and closes the open slot. A quantity never touched by the
// operator commits at the pack quantity.
func (p *Pipeline) commit(ctx context.Context) {
	rec := p.open
	if !rec.quantitySet {
		rec.Quantity = rec.PackQuantity
	}
	rec.UpdatedAt = time.Now()

	p.open = nil
	if err := p.store.Append(ctx, &rec.InventoryRecord); err != nil {
		log.Printf("[Pipeline] ERROR: append failed for %s, row lost: %v", rec.BarcodeKey, err)
		return
	}
	p.index[rec.BarcodeKey] = struct{}{}
	log.Printf("[Pipeline] committed %s qty=%d (%s)", rec.BarcodeKey, rec.Quantity, rec.Description)
	p.emit(NotifyCommitted, &rec.InventoryRecord)
}
