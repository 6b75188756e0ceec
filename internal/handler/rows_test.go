package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"partscan/internal/handler"
	"partscan/internal/model"
	"partscan/internal/repository"
	"partscan/internal/router"
)

func newTestServer(t *testing.T, store repository.RowStore) *httptest.Server {
	t.Helper()
	r := router.New(router.Config{
		Handler:     handler.New("1.0.0"),
		RowsHandler: handler.NewRowsHandler(store, "memory"),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func seedRows(t *testing.T, store repository.RowStore, keys ...string) {
	t.Helper()
	now := time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
	for _, key := range keys {
		err := store.Append(context.Background(), &model.InventoryRecord{
			BarcodeKey: key,
			Symbology:  "DataMatrix",
			Quantity:   10,
			ScannedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			t.Fatalf("Append(%q) error = %v", key, err)
		}
	}
}

type listResponse struct {
	Success bool                    `json:"success"`
	Data    []model.InventoryRecord `json:"data"`
	Meta    struct {
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"meta"`
}

func TestListRows(t *testing.T) {
	store := repository.NewMemoryRowStore()
	seedRows(t, store, "key-1", "key-2", "key-3")
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/v1/rows?limit=2")
	if err != nil {
		t.Fatalf("GET /rows error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !body.Success {
		t.Error("success = false")
	}
	if body.Meta.Total != 3 {
		t.Errorf("meta.total = %d, want 3", body.Meta.Total)
	}
	if len(body.Data) != 2 {
		t.Fatalf("rows = %d, want 2", len(body.Data))
	}
	// Newest first.
	if body.Data[0].BarcodeKey != "key-3" || body.Data[1].BarcodeKey != "key-2" {
		t.Errorf("order = %q, %q", body.Data[0].BarcodeKey, body.Data[1].BarcodeKey)
	}
}

func TestListRowsBadLimit(t *testing.T) {
	srv := newTestServer(t, repository.NewMemoryRowStore())

	resp, err := http.Get(srv.URL + "/api/v1/rows?limit=banana")
	if err != nil {
		t.Fatalf("GET /rows error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStatusAndStats(t *testing.T) {
	store := repository.NewMemoryRowStore()
	seedRows(t, store, "key-1")
	srv := newTestServer(t, store)

	for _, path := range []string{"/api/status", "/api/v1/health", "/api/v1/stats"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("X-Request-ID"); got == "" {
			t.Errorf("GET %s missing X-Request-ID", path)
		}
		resp.Body.Close()
	}
}
