// Package handlers contains the HTTP handler implementations for the
// Pulseboard API:
//   - Dashboard aggregation (GET /v1/dashboard, /sector/{sector}, /alerts, /metrics)
//   - Finance trends (GET /v1/finance/trends)
//   - Prompt analysis (POST /v1/prompts/analyze, GET /v1/prompts/suggestions)
//   - Source introspection (GET /v1/sources, /{id}/latest, /{id}/status)
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/core"
	"pulseboard/internal/overview"
	"pulseboard/internal/types"
)

// DashboardServiceInterface defines the service contract for the dashboard
// handler. Matches the overview service but is defined locally to avoid
// tight coupling per the handler injection pattern.
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context) (*overview.Dashboard, error)
	Sector(ctx context.Context, sector types.Sector) (any, error)
	Alerts(ctx context.Context) ([]types.Alert, error)
	Metrics(ctx context.Context) (*overview.MetricTiles, error)
}

// DashboardHandler maps HTTP requests to the overview service. Sector data
// endpoints never surface upstream failures as 5xx: the service degrades to
// fallback payloads with provenance instead.
type DashboardHandler struct {
	service DashboardServiceInterface
	logger  *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler with the provided
// dependencies.
func NewDashboardHandler(svc DashboardServiceInterface, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts the dashboard endpoints onto the mux.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.HandleGetDashboard)
		r.Get("/sector/{sector}", h.HandleGetSector)
		r.Get("/alerts", h.HandleGetAlerts)
		r.Get("/metrics", h.HandleGetMetrics)
	})
}

// HandleGetDashboard handles GET /v1/dashboard: the combined three-sector
// overview with per-sector provenance.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: dashboard})
}

// HandleGetSector handles GET /v1/dashboard/sector/{sector}. An unknown
// sector name is a 404.
func (h *DashboardHandler) HandleGetSector(w http.ResponseWriter, r *http.Request) {
	sector := types.Sector(chi.URLParam(r, "sector"))

	result, err := h.service.Sector(r.Context(), sector)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleGetAlerts handles GET /v1/dashboard/alerts: the flattened alert list
// across all sectors.
func (h *DashboardHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Alerts(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	}})
}

// HandleGetMetrics handles GET /v1/dashboard/metrics: the headline metric
// tiles for the dashboard header.
func (h *DashboardHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	tiles, err := h.service.Metrics(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: tiles})
}
