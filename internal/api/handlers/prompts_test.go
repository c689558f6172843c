package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"pulseboard/internal/analysis"
	"pulseboard/internal/core"
	"pulseboard/internal/types"
)

type stubAnalyzer struct {
	gotPrompt string
	gotSector types.Sector
	result    any
	err       error
}

func (s *stubAnalyzer) AnalyzePrompt(_ context.Context, prompt string, sector types.Sector) (any, error) {
	s.gotPrompt = prompt
	s.gotSector = sector
	return s.result, s.err
}

func promptRouter(svc AnalyzerInterface) http.Handler {
	r := chi.NewRouter()
	NewPromptHandler(svc, core.NewValidator(nil), nil).RegisterRoutes(r)
	return r
}

func postAnalyze(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/prompts/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	svc := &stubAnalyzer{result: &analysis.Analysis{Sector: types.SectorTransportation}}

	rec := postAnalyze(t, promptRouter(svc), `{"prompt":"Any tube delays?","sector":"transportation"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Any tube delays?", svc.gotPrompt)
	assert.Equal(t, types.SectorTransportation, svc.gotSector)
}

func TestHandleAnalyzeEmptyPrompt(t *testing.T) {
	svc := &stubAnalyzer{}

	rec := postAnalyze(t, promptRouter(svc), `{"prompt":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_prompt_empty")
}

func TestHandleAnalyzeMalformedBody(t *testing.T) {
	svc := &stubAnalyzer{}

	rec := postAnalyze(t, promptRouter(svc), `{"prompt":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_invalid_body")
}

func TestHandleAnalyzeInvalidSector(t *testing.T) {
	svc := &stubAnalyzer{}

	rec := postAnalyze(t, promptRouter(svc), `{"prompt":"energy prices","sector":"energy"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeServiceError(t *testing.T) {
	svc := &stubAnalyzer{err: types.NewAppError(
		types.ErrCodeValidationInvalidSector, "unable to identify relevant sector(s)", nil)}

	rec := postAnalyze(t, promptRouter(svc), `{"prompt":"tell me a joke"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to identify")
}

func TestHandleSuggestionsAllSectors(t *testing.T) {
	rec := httptest.NewRecorder()
	promptRouter(&stubAnalyzer{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/prompts/suggestions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "transportation")
	assert.Contains(t, rec.Body.String(), "finance")
	assert.Contains(t, rec.Body.String(), "weather")
}

func TestHandleSuggestionsSingleSector(t *testing.T) {
	rec := httptest.NewRecorder()
	promptRouter(&stubAnalyzer{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/prompts/suggestions?sector=finance", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FTSE 100")
}

func TestHandleSuggestionsUnknownSector(t *testing.T) {
	rec := httptest.NewRecorder()
	promptRouter(&stubAnalyzer{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/prompts/suggestions?sector=energy", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
