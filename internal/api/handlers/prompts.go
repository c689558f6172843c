package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/analysis"
	"pulseboard/internal/core"
	"pulseboard/internal/types"
)

// AnalyzerInterface defines the service contract for the prompt handler.
type AnalyzerInterface interface {
	AnalyzePrompt(ctx context.Context, prompt string, sector types.Sector) (any, error)
}

// PromptHandler maps HTTP requests to the prompt analysis service.
type PromptHandler struct {
	service   AnalyzerInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewPromptHandler creates a PromptHandler with the provided dependencies.
func NewPromptHandler(svc AnalyzerInterface, val *core.Validator, logger *slog.Logger) *PromptHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptHandler{service: svc, validator: val, logger: logger}
}

// RegisterRoutes mounts the prompt endpoints onto the mux.
func (h *PromptHandler) RegisterRoutes(r chi.Router) {
	r.Route("/prompts", func(r chi.Router) {
		r.Post("/analyze", h.HandleAnalyze)
		r.Get("/suggestions", h.HandleSuggestions)
	})
}

// analyzeRequest is the request body for POST /v1/prompts/analyze. Sector is
// optional; when empty the service detects it from the prompt text.
type analyzeRequest struct {
	Prompt string `json:"prompt" validate:"required,max=1000"`
	Sector string `json:"sector" validate:"sector"`
}

// HandleAnalyze handles POST /v1/prompts/analyze.
func (h *PromptHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationPromptEmpty,
			"prompt must not be empty",
			nil,
		))
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.AnalyzePrompt(r.Context(), req.Prompt, types.Sector(req.Sector))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleSuggestions handles GET /v1/prompts/suggestions. With a sector query
// parameter it returns that sector's questions; otherwise all sectors.
func (h *PromptHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := analysis.SuggestedQuestions()

	if raw := r.URL.Query().Get("sector"); raw != "" {
		sector := types.Sector(raw)
		if !types.ValidSector(sector) {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationInvalidSector,
				"unknown sector: "+raw,
				nil,
			))
			return
		}
		core.JSON(w, r, http.StatusOK, core.APIResponse{Data: map[string]any{
			"sector":      sector,
			"suggestions": suggestions[sector],
		}})
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: map[string]any{
		"suggestions": suggestions,
	}})
}
