package lookup

import (
	"context"
	"encoding/json"
	"time"

	"partscan/internal/cache"
)

// CachedClient caches product-detail responses, which are stable for a
// given part number, through the station cache. Barcode lookups pass
// straight through: their quantities describe the specific package
// being scanned and must stay fresh.
type CachedClient struct {
	inner Client
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedClient wraps a client with product-detail caching.
func NewCachedClient(inner Client, c cache.Cache, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedClient{inner: inner, cache: c, ttl: ttl}
}

// Barcode resolves a 1D/linear product barcode.
func (c *CachedClient) Barcode(ctx context.Context, raw string) (*BarcodeResult, error) {
	return c.inner.Barcode(ctx, raw)
}

// Barcode2D resolves a full 2D label payload.
func (c *CachedClient) Barcode2D(ctx context.Context, raw string) (*BarcodeResult, error) {
	return c.inner.Barcode2D(ctx, raw)
}

// ProductDetails fetches catalog details, serving repeats from cache.
func (c *CachedClient) ProductDetails(ctx context.Context, partNumber string) (*ProductDetails, error) {
	body, err := c.cache.GetOrSet(ctx, "product:"+partNumber, c.ttl, func() ([]byte, error) {
		details, err := c.inner.ProductDetails(ctx, partNumber)
		if err != nil {
			return nil, err
		}
		return json.Marshal(details)
	})
	if err != nil {
		return nil, err
	}

	var details ProductDetails
	if err := json.Unmarshal(body, &details); err != nil {
		// A corrupt cache entry must not fail the lookup.
		_ = c.cache.Delete(ctx, "product:"+partNumber)
		return c.inner.ProductDetails(ctx, partNumber)
	}
	return &details, nil
}

var _ Client = (*CachedClient)(nil)
