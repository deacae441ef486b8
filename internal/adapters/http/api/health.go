package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

const msgLoadFailed = "the last dataset load failed; see the server logs"

// HealthReporter reports the dataset state.
type HealthReporter interface {
	Health(ctx context.Context) service.Health
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	reporter HealthReporter
	metrics  http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{
		reporter: reporter,
		metrics:  promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status string `json:"status"`
	service.Health
}

// HandleHealth handles GET /healthz. The process is up either way; the
// status is 503 while no dataset is loaded so probes can tell. The data
// directory and load errors stay in the logs.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	state := h.reporter.Health(r.Context())
	if state.LastError != "" {
		logger.Get().Named("api").Debug(r.Context(), "health reports a load error",
			logger.String("data_dir", state.DataDir),
			logger.String("error", state.LastError),
		)
		state.LastError = msgLoadFailed
	}
	state.DataDir = ""
	if !state.Loaded {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "dataset_unavailable", Health: state})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Health: state})
}

// HandleMetrics handles GET /metrics with the custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
