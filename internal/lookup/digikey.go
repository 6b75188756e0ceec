package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Digi-Key API host; the sandbox host
// can be configured instead.
const DefaultBaseURL = "https://api.digikey.com/"

// DigikeyConfig holds the settings for the Digi-Key catalog client.
// The access token is supplied ready-made; obtaining and refreshing it
// is outside this service.
type DigikeyConfig struct {
	BaseURL        string
	ClientID       string
	AccessToken    string
	LocaleLanguage string
	LocaleSite     string
	Timeout        time.Duration
}

// DigikeyClient implements Client against the Digi-Key barcode and
// product-search APIs.
type DigikeyClient struct {
	cfg  DigikeyConfig
	http *http.Client
}

// NewDigikeyClient creates a Digi-Key catalog client.
func NewDigikeyClient(cfg DigikeyConfig) *DigikeyClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LocaleLanguage == "" {
		cfg.LocaleLanguage = "en"
	}
	if cfg.LocaleSite == "" {
		cfg.LocaleSite = "US"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &DigikeyClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Response shapes, per
// https://developer.digikey.com/products/barcode/barcoding/productbarcode
// and https://developer.digikey.com/products/barcode/barcoding/product2dbarcode.
// Fields not consumed here are left to the raw body.
type productBarcodeResponse struct {
	DigiKeyPartNumber      string
	ManufacturerPartNumber string
	ManufacturerName       string
	ProductDescription     string
	Quantity               int
}

type productDetailsResponse struct {
	Product struct {
		Description struct {
			ProductDescription  string
			DetailedDescription string
		}
		Manufacturer struct {
			Name string
		}
		ManufacturerProductNumber string
		UnitPrice                 float64
		ProductUrl                string
		DatasheetUrl              string
		QuantityAvailable         int
		StandardPackage           int
		Category                  struct {
			Name string
		}
	}
}

// Barcode resolves a 1D/linear product barcode.
func (c *DigikeyClient) Barcode(ctx context.Context, raw string) (*BarcodeResult, error) {
	path := "Barcoding/v3/ProductBarcodes/" + url.PathEscape(raw)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return parseBarcodeResult(body)
}

// Barcode2D resolves a full 2D label payload. Control characters in the
// payload are escaped to ASCII before they go into the URL path, the
// same encoding the API expects for scanned Data Matrix text.
func (c *DigikeyClient) Barcode2D(ctx context.Context, raw string) (*BarcodeResult, error) {
	path := "Barcoding/v3/Product2DBarcodes/" + url.PathEscape(EscapeText(raw))
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return parseBarcodeResult(body)
}

// ProductDetails fetches catalog details for a manufacturer or
// distributor part number.
func (c *DigikeyClient) ProductDetails(ctx context.Context, partNumber string) (*ProductDetails, error) {
	path := fmt.Sprintf("products/v4/product/search/%s/productdetails", url.PathEscape(partNumber))
	body, err := c.get(ctx, path, map[string]string{
		"X-DIGIKEY-Locale-Language": c.cfg.LocaleLanguage,
		"X-DIGIKEY-Locale-Site":     c.cfg.LocaleSite,
	})
	if err != nil {
		return nil, err
	}

	var parsed productDetailsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("lookup: decoding product details: %w", err)
	}
	p := parsed.Product
	return &ProductDetails{
		Description:            p.Description.ProductDescription,
		DetailedDescription:    p.Description.DetailedDescription,
		Category:               p.Category.Name,
		Manufacturer:           p.Manufacturer.Name,
		ManufacturerPartNumber: p.ManufacturerProductNumber,
		QuantityAvailable:      p.QuantityAvailable,
		StandardPackage:        p.StandardPackage,
		UnitPrice:              p.UnitPrice,
		ProductURL:             p.ProductUrl,
		DatasheetURL:           p.DatasheetUrl,
		Raw:                    body,
	}, nil
}

func (c *DigikeyClient) get(ctx context.Context, path string, extraHeaders map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup: building request: %w", err)
	}
	req.Header.Set("X-DIGIKEY-Client-Id", c.cfg.ClientID)
	if c.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lookup: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup: %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func parseBarcodeResult(body []byte) (*BarcodeResult, error) {
	var parsed productBarcodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("lookup: decoding barcode response: %w", err)
	}
	return &BarcodeResult{
		PartNumber:             parsed.DigiKeyPartNumber,
		ManufacturerPartNumber: parsed.ManufacturerPartNumber,
		ManufacturerName:       parsed.ManufacturerName,
		Description:            parsed.ProductDescription,
		Quantity:               parsed.Quantity,
		Raw:                    body,
	}, nil
}

// EscapeText backslash-escapes non-ASCII and control characters, so the
// format separators (U+241E etc.) survive transport in a URL path.
func EscapeText(s string) string {
	quoted := strconv.QuoteToASCII(s)
	return quoted[1 : len(quoted)-1]
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Client = (*DigikeyClient)(nil)
