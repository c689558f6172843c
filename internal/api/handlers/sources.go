package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/core"
	"pulseboard/internal/ingest"
	"pulseboard/internal/types"
)

// maxLatestRecords bounds how many raw records the latest-data endpoint
// returns per request.
const maxLatestRecords = 100

// FetchTracker reports the newest ingested fetch timestamp for a symbol.
// ok is false when the symbol has never been ingested.
type FetchTracker interface {
	LatestFetch(ctx context.Context, symbol string) (time.Time, bool, error)
}

// SourcesHandler serves the source-introspection endpoints over the
// configured catalog. Credentialed request parameters are never echoed back.
type SourcesHandler struct {
	catalog *ingest.Catalog
	adapter ingest.Adapter
	tracker FetchTracker
	clock   types.Clock
	logger  *slog.Logger
}

// NewSourcesHandler creates a SourcesHandler. tracker may be nil when no
// warehouse is attached; the status endpoint then omits ingestion info.
func NewSourcesHandler(catalog *ingest.Catalog, adapter ingest.Adapter, tracker FetchTracker, clock types.Clock, logger *slog.Logger) *SourcesHandler {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SourcesHandler{
		catalog: catalog,
		adapter: adapter,
		tracker: tracker,
		clock:   clock,
		logger:  logger,
	}
}

// RegisterRoutes mounts the source endpoints onto the mux.
func (h *SourcesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sources", func(r chi.Router) {
		r.Get("/", h.HandleListSources)
		r.Get("/{id}/latest", h.HandleGetLatest)
		r.Get("/{id}/status", h.HandleGetStatus)
	})
}

// SourceInfo is the public description of one configured source. Request
// parameters are deliberately absent: they can carry API keys.
type SourceInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	URL    string `json:"url"`
}

// SourceStatus is the response body for the per-source status endpoint.
type SourceStatus struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Sector         string     `json:"sector"`
	Reachable      bool       `json:"reachable"`
	RecordCount    int        `json:"record_count"`
	LastIngestedAt *time.Time `json:"last_ingested_at,omitempty"`
	CheckedAt      time.Time  `json:"checked_at"`
}

// HandleListSources handles GET /v1/sources. The optional sector query
// parameter filters the listing.
func (h *SourcesHandler) HandleListSources(w http.ResponseWriter, r *http.Request) {
	var configs []ingest.SourceConfig
	if raw := r.URL.Query().Get("sector"); raw != "" {
		if !types.ValidSector(types.Sector(raw)) {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationInvalidSector,
				"unknown sector: "+raw,
				nil,
			))
			return
		}
		configs = h.catalog.BySector(raw)
	} else {
		configs = h.catalog.All()
	}

	infos := make([]SourceInfo, 0, len(configs))
	for _, cfg := range configs {
		infos = append(infos, SourceInfo{
			ID:     cfg.ID,
			Name:   cfg.Name,
			Sector: cfg.Sector,
			URL:    cfg.URL,
		})
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: map[string]any{
		"sources": infos,
		"count":   len(infos),
	}})
}

// HandleGetLatest handles GET /v1/sources/{id}/latest: a bounded view of the
// raw records the source currently yields.
func (h *SourcesHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg, ok := h.catalog.Get(id)
	if !ok {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundSource,
			"no such source: "+id,
			nil,
		))
		return
	}

	table := h.adapter.Fetch(r.Context(), cfg)
	if table.Empty() {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"source returned no data",
			nil,
		))
		return
	}

	records := table
	if len(records) > maxLatestRecords {
		records = records[:maxLatestRecords]
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: map[string]any{
		"source_id":    id,
		"record_count": len(table),
		"records":      records,
		"fetched_at":   h.clock.Now(),
	}})
}

// HandleGetStatus handles GET /v1/sources/{id}/status: a reachability probe
// plus, for finance sources with a warehouse attached, the last ingestion
// timestamp.
func (h *SourcesHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg, ok := h.catalog.Get(id)
	if !ok {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundSource,
			"no such source: "+id,
			nil,
		))
		return
	}

	table := h.adapter.Fetch(r.Context(), cfg)

	status := SourceStatus{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Sector:      cfg.Sector,
		Reachable:   !table.Empty(),
		RecordCount: len(table),
		CheckedAt:   h.clock.Now(),
	}

	if h.tracker != nil {
		if symbol, ok := strings.CutPrefix(id, "alphavantage-"); ok {
			ingested, found, err := h.tracker.LatestFetch(r.Context(), symbol)
			if err != nil {
				h.logger.WarnContext(r.Context(), "latest fetch lookup failed",
					"source_id", id, "error", err)
			} else if found {
				status.LastIngestedAt = &ingested
			}
		}
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: status})
}
