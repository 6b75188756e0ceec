package handler

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"partscan/internal/model"
	"partscan/internal/repository"
	"partscan/pkg/apierror"
	"partscan/pkg/response"
)

// RowsHandler serves the committed inventory table read-only. The
// pipeline is the only writer; this surface never mutates rows.
type RowsHandler struct {
	store     repository.RowStore
	dbType    string
	startTime time.Time
}

// NewRowsHandler creates a rows handler over the given store.
func NewRowsHandler(store repository.RowStore, dbType string) *RowsHandler {
	return &RowsHandler{
		store:     store,
		dbType:    dbType,
		startTime: time.Now(),
	}
}

// List handles GET /api/v1/rows?limit=N — most recent rows first.
func (h *RowsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(w, apierror.BadRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	rows, err := h.store.LoadAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	total := int64(len(rows))
	// Newest last in the table; serve newest first.
	out := make([]model.InventoryRecord, 0, limit)
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, rows[i])
	}

	response.JSONWithMeta(w, http.StatusOK, out, limit, total)
}

// Stats handles GET /api/v1/stats
func (h *RowsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["db_type"] = h.dbType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	storeStats, err := h.store.Stats(ctx)
	if err == nil {
		storeStats["status"] = "connected"
		stats["store"] = storeStats
	} else {
		stats["store"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}

	response.OK(w, stats)
}
