package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/axioma/trendboard/pkg/metrics"
)

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	statsProvider StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(statsProvider StatsProvider) *HealthHandler {
	return &HealthHandler{statsProvider: statsProvider}
}

type healthResponse struct {
	Status          string `json:"status"`
	SnapshotVersion any    `json:"snapshot_version,omitempty"`
}

// HandleHealth handles GET /healthz. It reports 503 until a dataset snapshot
// has been loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	stats := h.statsProvider.GetStats()
	version, ok := stats["snapshotVersion"]
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "no_snapshot"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", SnapshotVersion: version})
}

// HandleMetrics serves the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
