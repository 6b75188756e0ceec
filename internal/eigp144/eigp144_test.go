package eigp144_test

import (
	"errors"
	"testing"

	"partscan/internal/eigp144"
)

func TestDecodeSpecExample(t *testing.T) {
	input := "[)>␞06␝P596-777A1-ND␝1PXAF4444␝Q3␝10D1452␝1TBF1103␝4LUS␞␄"

	msg, err := eigp144.Decode(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg == nil {
		t.Fatal("Decode() returned nil message for a valid payload")
	}

	want := map[string]string{
		"P":   "596-777A1-ND",
		"1P":  "XAF4444",
		"Q":   "3",
		"10D": "1452",
		"1T":  "BF1103",
		"4L":  "US",
	}
	if msg.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", msg.Len(), len(want))
	}
	for identifier, raw := range want {
		if got := msg.Raw(identifier); got != raw {
			t.Errorf("Raw(%q) = %q, want %q", identifier, got, raw)
		}
	}

	if qty, ok := msg.Int("Q"); !ok || qty != 3 {
		t.Errorf("Int(Q) = %d, %v, want 3, true", qty, ok)
	}
}

func TestDecodeDigikeyLabel(t *testing.T) {
	// Real Digi-Key label: no trailer, vendor-specific Z identifiers.
	input := "[)>␞06␝PRMCF0603FT5K10CT-ND␝1PRMCF0603FT5K10␝K␝1K58732613␝10K67192477␝11K1␝4LCN␝Q100␝11ZPICK␝12Z1943037␝13Z803900␝20Z000000000000000000000000000000000000"

	msg, err := eigp144.Decode(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg == nil {
		t.Fatal("Decode() returned nil message")
	}

	if got := msg.Raw("P"); got != "RMCF0603FT5K10CT-ND" {
		t.Errorf("Raw(P) = %q", got)
	}
	if got := msg.Raw("1P"); got != "RMCF0603FT5K10" {
		t.Errorf("Raw(1P) = %q", got)
	}
	if got := msg.Raw("Q"); got != "100" {
		t.Errorf("Raw(Q) = %q", got)
	}
	// Unknown vendor identifiers pass through keyed by their literal string.
	if !msg.Has("20Z") {
		t.Error("Has(20Z) = false, want pass-through record")
	}
	if got := msg.Raw("11Z"); got != "PICK" {
		t.Errorf("Raw(11Z) = %q, want %q", got, "PICK")
	}
	// An empty value after the type character is valid (bare K record).
	if got := msg.Raw("K"); got != "" {
		t.Errorf("Raw(K) = %q, want empty", got)
	}
}

func TestDecodeMouserLabel(t *testing.T) {
	input := "[)>␞06␝K0160NLA52600␝14K002␝1PFH12-15S-0.5SH(55)␝Q2␝11K069808311␝4LJP␝1VHirose␞␄"

	msg, err := eigp144.Decode(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg == nil {
		t.Fatal("Decode() returned nil message")
	}
	if got := msg.Raw("1P"); got != "FH12-15S-0.5SH(55)" {
		t.Errorf("Raw(1P) = %q", got)
	}
	if got := msg.Raw("1V"); got != "Hirose" {
		t.Errorf("Raw(1V) = %q", got)
	}
	if got := msg.Raw("Q"); got != "2" {
		t.Errorf("Raw(Q) = %q", got)
	}
}

func TestDecodeNotThisFormat(t *testing.T) {
	inputs := []string{
		"",
		// bare 1D payload
		"RMCF0603FT5K10CT-ND",
		// wrong envelope version
		"[)>␞05␝Q3",
		// missing compliance indicator
		"06␝Q3",
		// missing record separator
		"[)>␝Q3",
	}
	for _, input := range inputs {
		msg, err := eigp144.Decode(input)
		if err != nil {
			t.Errorf("Decode(%q) error = %v, want nil", input, err)
		}
		if msg != nil {
			t.Errorf("Decode(%q) = %v, want nil message", input, msg)
		}
	}
}

func TestDecodeDuplicateIdentifier(t *testing.T) {
	input := "[)>␞06␝Q3␝Q5"

	msg, err := eigp144.Decode(input)
	if msg != nil {
		t.Errorf("Decode() message = %v, want nil", msg)
	}
	var formatErr *eigp144.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Decode() error = %v (%T), want *FormatError", err, err)
	}
}

func TestDecodeEmptySegment(t *testing.T) {
	input := "[)>␞06␝Q3␝"

	msg, err := eigp144.Decode(input)
	if msg != nil || err == nil {
		t.Fatalf("Decode() = %v, %v, want nil message and *FormatError", msg, err)
	}
}

func TestDecodeTypedValues(t *testing.T) {
	input := "[)>␞06␝Q250␝13Q4␝7Q1.25␝6D20240117"

	msg, err := eigp144.Decode(input)
	if err != nil || msg == nil {
		t.Fatalf("Decode() = %v, %v", msg, err)
	}

	if qty, ok := msg.Int("Q"); !ok || qty != 250 {
		t.Errorf("Int(Q) = %d, %v", qty, ok)
	}
	if pkgs, ok := msg.Int("13Q"); !ok || pkgs != 4 {
		t.Errorf("Int(13Q) = %d, %v", pkgs, ok)
	}
	rec, _ := msg.Get("7Q")
	if rec.Value == nil {
		t.Error("Get(7Q).Value = nil, want decimal weight")
	}
	rec, _ = msg.Get("6D")
	if rec.Value == nil {
		t.Error("Get(6D).Value = nil, want parsed date")
	}
}

func TestDecodeTypedParseFailureKeepsRaw(t *testing.T) {
	// A non-numeric quantity is not a grammar violation; the raw value
	// survives and the typed value is absent.
	input := "[)>␞06␝Qnotanumber"

	msg, err := eigp144.Decode(input)
	if err != nil || msg == nil {
		t.Fatalf("Decode() = %v, %v", msg, err)
	}
	if got := msg.Raw("Q"); got != "notanumber" {
		t.Errorf("Raw(Q) = %q", got)
	}
	if _, ok := msg.Int("Q"); ok {
		t.Error("Int(Q) ok = true, want false")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		identifier string
		wantName   string
		wantOK     bool
	}{
		{"K", "Customer PO", true},
		{"1P", "Supplier Part Number", true},
		{"10D", "Date Code", true},
		{"33P", "BIN Code", true},
		{"E", "RoHS/CC", true},
		{"20Z", "", false},
		{"k", "", false}, // exact match only
	}
	for _, tt := range tests {
		field, ok := eigp144.Lookup(tt.identifier)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.identifier, ok, tt.wantOK)
			continue
		}
		if ok && field.Name != tt.wantName {
			t.Errorf("Lookup(%q).Name = %q, want %q", tt.identifier, field.Name, tt.wantName)
		}
	}
}
