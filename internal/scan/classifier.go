package scan

import "partscan/internal/eigp144"

// Distributor is the guessed upstream supplier of a scanned label.
type Distributor int

const (
	DistributorUnknown Distributor = iota
	DistributorDigikey
	DistributorMouser
)

func (d Distributor) String() string {
	switch d {
	case DistributorDigikey:
		return "Digikey"
	case DistributorMouser:
		return "Mouser"
	default:
		return "Unknown"
	}
}

// Digi-Key labels carry a reserved 20Z filler record; Mouser labels
// never do.
const digikeyFillerIdentifier = "20Z"

// GuessDistributor classifies the originating distributor from the
// symbology and the decoded message. Only Data Matrix labels can be
// classified on this axis; everything else is Unknown here and is
// branched by symbology prefix instead.
func GuessDistributor(symbology string, msg *eigp144.Message) Distributor {
	if symbology != SymbologyDataMatrix || msg == nil {
		return DistributorUnknown
	}
	if msg.Has(digikeyFillerIdentifier) {
		return DistributorDigikey
	}
	return DistributorMouser
}
