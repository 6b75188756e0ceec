// Package scan models sightings of already-decoded barcode symbols and
// the station-side filtering that happens before a sighting reaches the
// inventory pipeline: repeat suppression and distributor classification.
package scan

import (
	"strings"
	"time"
)

// Symbology identifiers as reported by the symbol decoder.
const (
	SymbologyDataMatrix = "DataMatrix"
	SymbologyQRCode     = "QRCode"
	SymbologyCode128    = "Code128"
	SymbologyCode39     = "Code39"
)

// linearPrefixes match the raw symbology identifiers of 1D/linear
// families. Linear payloads bypass the segmented decoder and go to the
// plain barcode-lookup path.
var linearPrefixes = []string{"Code", "EAN", "UPC", "ITF", "Codabar"}

// Event is one sighting of a decoded symbol: the symbology the decoder
// reported, the full payload text, and the arrival time.
type Event struct {
	Symbology string
	Text      string
	At        time.Time
}

// IsLinear reports whether a symbology identifier names a 1D/linear
// family, by prefix.
func IsLinear(symbology string) bool {
	for _, prefix := range linearPrefixes {
		if strings.HasPrefix(symbology, prefix) {
			return true
		}
	}
	return false
}
