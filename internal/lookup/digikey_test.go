package lookup_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"partscan/internal/cache"
	"partscan/internal/lookup"
)

const barcodeJSON = `{
	"DigiKeyPartNumber": "RMCF0603FT5K10CT-ND",
	"ManufacturerPartNumber": "RMCF0603FT5K10",
	"ManufacturerName": "Stackpole Electronics Inc",
	"ProductDescription": "RES 5.1K OHM 1% 1/10W 0603",
	"Quantity": 100
}`

const productJSON = `{
	"Product": {
		"Description": {
			"ProductDescription": "RES 5.1K OHM 1% 1/10W 0603",
			"DetailedDescription": "5.1 kOhms 1% 0.1W, 1/10W Chip Resistor"
		},
		"Manufacturer": {"Name": "Stackpole Electronics Inc"},
		"ManufacturerProductNumber": "RMCF0603FT5K10",
		"UnitPrice": 0.1,
		"QuantityAvailable": 574311,
		"StandardPackage": 5000,
		"Category": {"Name": "Chip Resistor - Surface Mount"}
	}
}`

func TestDigikeyClientBarcode(t *testing.T) {
	var gotPath, gotClientID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotClientID = r.Header.Get("X-DIGIKEY-Client-Id")
		w.Write([]byte(barcodeJSON))
	}))
	defer srv.Close()

	client := lookup.NewDigikeyClient(lookup.DigikeyConfig{
		BaseURL:  srv.URL + "/",
		ClientID: "client-123",
	})

	result, err := client.Barcode(context.Background(), "RMCF0603FT5K10CT-ND")
	if err != nil {
		t.Fatalf("Barcode() error = %v", err)
	}

	if !strings.HasPrefix(gotPath, "/Barcoding/v3/ProductBarcodes/") {
		t.Errorf("path = %q", gotPath)
	}
	if gotClientID != "client-123" {
		t.Errorf("X-DIGIKEY-Client-Id = %q", gotClientID)
	}
	if result.PartNumber != "RMCF0603FT5K10CT-ND" || result.Quantity != 100 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Raw) == 0 {
		t.Error("Raw body not retained")
	}
}

func TestDigikeyClientBarcode2DEscapesPayload(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(barcodeJSON))
	}))
	defer srv.Close()

	client := lookup.NewDigikeyClient(lookup.DigikeyConfig{BaseURL: srv.URL + "/"})

	payload := "[)>␞06␝1PRMCF0603FT5K10␝Q100"
	if _, err := client.Barcode2D(context.Background(), payload); err != nil {
		t.Fatalf("Barcode2D() error = %v", err)
	}

	if !strings.HasPrefix(gotPath, "/Barcoding/v3/Product2DBarcodes/") {
		t.Errorf("path = %q", gotPath)
	}
	// The separators must arrive as backslash escapes, not raw Unicode.
	if !strings.Contains(gotPath, "u241e") || !strings.Contains(gotPath, "u241d") {
		t.Errorf("payload not ASCII-escaped in path: %q", gotPath)
	}
}

func TestDigikeyClientProductDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-DIGIKEY-Locale-Site") != "US" {
			t.Errorf("missing locale headers")
		}
		if !strings.HasSuffix(r.URL.Path, "/productdetails") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(productJSON))
	}))
	defer srv.Close()

	client := lookup.NewDigikeyClient(lookup.DigikeyConfig{BaseURL: srv.URL + "/"})

	details, err := client.ProductDetails(context.Background(), "RMCF0603FT5K10")
	if err != nil {
		t.Fatalf("ProductDetails() error = %v", err)
	}
	if details.Description != "RES 5.1K OHM 1% 1/10W 0603" {
		t.Errorf("Description = %q", details.Description)
	}
	if details.Category != "Chip Resistor - Surface Mount" {
		t.Errorf("Category = %q", details.Category)
	}
	if details.StandardPackage != 5000 {
		t.Errorf("StandardPackage = %d", details.StandardPackage)
	}
}

func TestDigikeyClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := lookup.NewDigikeyClient(lookup.DigikeyConfig{BaseURL: srv.URL + "/"})

	if _, err := client.Barcode(context.Background(), "nope"); err == nil {
		t.Error("Barcode() error = nil on 404")
	}
	if _, err := client.ProductDetails(context.Background(), "nope"); err == nil {
		t.Error("ProductDetails() error = nil on 404")
	}
}

func TestDigikeyClientContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := lookup.NewDigikeyClient(lookup.DigikeyConfig{BaseURL: srv.URL + "/"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.ProductDetails(ctx, "RMCF0603FT5K10"); err == nil {
		t.Error("ProductDetails() error = nil, want deadline error")
	}
}

func TestEscapeText(t *testing.T) {
	got := lookup.EscapeText("[)>␞06␝Q3")
	if strings.ContainsRune(got, '␞') {
		t.Errorf("EscapeText left raw separator: %q", got)
	}
	if !strings.Contains(got, `\u241e`) {
		t.Errorf("EscapeText = %q, want backslash escapes", got)
	}
}

// countingClient fails or succeeds per script and counts detail calls.
type countingClient struct {
	details      *lookup.ProductDetails
	err          error
	detailCalls  int
	barcodeCalls int
}

func (c *countingClient) Barcode(ctx context.Context, raw string) (*lookup.BarcodeResult, error) {
	c.barcodeCalls++
	return nil, errors.New("not scripted")
}

func (c *countingClient) Barcode2D(ctx context.Context, raw string) (*lookup.BarcodeResult, error) {
	c.barcodeCalls++
	return nil, errors.New("not scripted")
}

func (c *countingClient) ProductDetails(ctx context.Context, partNumber string) (*lookup.ProductDetails, error) {
	c.detailCalls++
	return c.details, c.err
}

func TestCachedClientProductDetails(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	inner := &countingClient{details: &lookup.ProductDetails{
		Description: "RES 5.1K OHM",
		Category:    "Chip Resistors",
	}}
	client := lookup.NewCachedClient(inner, mem, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		details, err := client.ProductDetails(ctx, "RMCF0603FT5K10")
		if err != nil {
			t.Fatalf("ProductDetails() #%d error = %v", i+1, err)
		}
		if details.Description != "RES 5.1K OHM" {
			t.Errorf("Description = %q", details.Description)
		}
	}
	if inner.detailCalls != 1 {
		t.Errorf("upstream detail calls = %d, want 1", inner.detailCalls)
	}
}

func TestCachedClientDoesNotCacheFailures(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	inner := &countingClient{err: errors.New("upstream down")}
	client := lookup.NewCachedClient(inner, mem, time.Minute)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.ProductDetails(ctx, "RMCF0603FT5K10"); err == nil {
			t.Fatal("ProductDetails() error = nil, want failure")
		}
	}
	if inner.detailCalls != 2 {
		t.Errorf("upstream detail calls = %d, want 2 (failures not cached)", inner.detailCalls)
	}
}
