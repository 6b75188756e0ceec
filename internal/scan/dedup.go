package scan

import (
	"container/list"
	"time"
)

// Deduplicator defaults.
const (
	DefaultRepeatWindow  = 4 * time.Second
	DefaultDedupCapacity = 4096
)

// Deduplicator suppresses rapid repeat sightings of an identical
// payload, e.g. a label held steady in front of the camera. It never
// alters decoded content. Sightings are kept in a capacity-bounded LRU
// so the table cannot grow without limit over a long shift.
//
// A Deduplicator is owned by a single producer goroutine and is not
// safe for concurrent use.
type Deduplicator struct {
	window   time.Duration
	capacity int
	byText   map[string]*list.Element
	order    *list.List // front = most recently sighted
}

type sighting struct {
	text string
	at   time.Time
}

// NewDeduplicator creates a deduplicator. Zero window or capacity
// select the defaults.
func NewDeduplicator(window time.Duration, capacity int) *Deduplicator {
	if window <= 0 {
		window = DefaultRepeatWindow
	}
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &Deduplicator{
		window:   window,
		capacity: capacity,
		byText:   make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Observe records a sighting and reports whether it is a repeat: a
// prior sighting of the identical text within the repeat window. The
// last-seen time is refreshed on every call regardless of the outcome.
func (d *Deduplicator) Observe(text string, at time.Time) (repeat bool) {
	if elem, ok := d.byText[text]; ok {
		prev := elem.Value.(*sighting)
		repeat = at.Sub(prev.at) <= d.window
		prev.at = at
		d.order.MoveToFront(elem)
		return repeat
	}

	d.byText[text] = d.order.PushFront(&sighting{text: text, at: at})
	for d.order.Len() > d.capacity {
		oldest := d.order.Back()
		d.order.Remove(oldest)
		delete(d.byText, oldest.Value.(*sighting).text)
	}
	return false
}

// Len returns the number of tracked sightings.
func (d *Deduplicator) Len() int {
	return d.order.Len()
}
