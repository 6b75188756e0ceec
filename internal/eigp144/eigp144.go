// Package eigp144 decodes the ISO/IEC 15434 / ECIA EIGP-114 segmented
// text format used on 2D barcode labels for electronic parts.
// https://www.ecianow.org/assets/docs/GIPC/EIGP-114.2018%20ECIA%20Labeling%20Specification%20for%20Product%20and%20Shipment%20Identification%20in%20the%20Electronics%20Industry%20-%202D%20Barcode.pdf
package eigp144

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format control characters and markers.
const (
	ComplianceIndicator = "[)>"
	RecordSeparator     = "␞"
	GroupSeparator      = "␝"
	EndOfTransmission   = "␄"

	// Header is the fixed prefix of every EIGP-114 payload: compliance
	// indicator, record separator, format envelope "06", group separator.
	Header = ComplianceIndicator + RecordSeparator + "06" + GroupSeparator

	// Trailer is optional on the wire; Digi-Key labels omit it.
	Trailer = RecordSeparator + EndOfTransmission
)

// FormatError reports a payload that carries the EIGP-114 header but
// violates the segment grammar. It is fatal to that decode attempt only.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "eigp144: " + e.Reason
}

// Record is one decoded data element: its identifier, the raw value
// text, and the typed value when the field defines a parser and the
// raw text satisfies it.
type Record struct {
	Identifier string
	Raw        string
	Value      any
}

func (r Record) String() string {
	return r.Identifier + "=" + r.Raw
}

// Message is an immutable decoded payload: one Record per identifier,
// in arrival order.
type Message struct {
	records map[string]Record
	order   []string
}

// Decode parses one scanned payload. A payload that does not start with
// the EIGP-114 header is not an error: Decode returns (nil, nil) so the
// caller can route it to a different enrichment path. A payload that
// carries the header but repeats an identifier or contains a segment
// with no type character fails with *FormatError.
func Decode(data string) (*Message, error) {
	if !strings.HasPrefix(data, Header) {
		return nil, nil
	}
	data = strings.TrimPrefix(data, Header)
	data = strings.TrimSuffix(data, Trailer)

	m := &Message{records: make(map[string]Record)}
	for _, segment := range strings.Split(data, GroupSeparator) {
		identifier, raw, err := splitSegment(segment)
		if err != nil {
			return nil, err
		}
		if _, exists := m.records[identifier]; exists {
			return nil, &FormatError{Reason: fmt.Sprintf("duplicate identifier %q", identifier)}
		}

		rec := Record{Identifier: identifier, Raw: raw}
		if field, ok := Lookup(identifier); ok && field.Parse != nil {
			// A failed typed parse keeps the raw value; it is not a
			// grammar violation.
			if value, err := field.Parse(raw); err == nil {
				rec.Value = value
			}
		}
		m.records[identifier] = rec
		m.order = append(m.order, identifier)
	}
	return m, nil
}

// splitSegment consumes zero or more leading decimal digits plus exactly
// one non-digit type character as the identifier; the rest is the value.
func splitSegment(segment string) (identifier, raw string, err error) {
	for i := 0; i < len(segment); {
		r, size := utf8.DecodeRuneInString(segment[i:])
		i += size
		if !unicode.IsDigit(r) {
			return segment[:i], segment[i:], nil
		}
	}
	return "", "", &FormatError{Reason: fmt.Sprintf("segment %q has no type character", segment)}
}

// Get returns the record for an identifier.
func (m *Message) Get(identifier string) (Record, bool) {
	rec, ok := m.records[identifier]
	return rec, ok
}

// Has reports whether the identifier is present.
func (m *Message) Has(identifier string) bool {
	_, ok := m.records[identifier]
	return ok
}

// Raw returns the raw value for an identifier, or "" if absent.
func (m *Message) Raw(identifier string) string {
	return m.records[identifier].Raw
}

// Int returns the integer value for an identifier. It prefers the typed
// value produced at decode time and falls back to parsing the raw text.
func (m *Message) Int(identifier string) (int, bool) {
	rec, ok := m.records[identifier]
	if !ok {
		return 0, false
	}
	if n, ok := rec.Value.(int); ok {
		return n, true
	}
	n, err := strconv.Atoi(rec.Raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Len returns the number of decoded records.
func (m *Message) Len() int {
	return len(m.records)
}

// Identifiers returns the identifiers in arrival order.
func (m *Message) Identifiers() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// String renders records in arrival order, for logs.
func (m *Message) String() string {
	if m == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(m.order))
	for _, identifier := range m.order {
		parts = append(parts, m.records[identifier].String())
	}
	return strings.Join(parts, " ")
}
