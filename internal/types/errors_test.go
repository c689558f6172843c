package types

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"validation maps to 400", ErrCodeValidationMissingField, http.StatusBadRequest},
		{"invalid sector maps to 400", ErrCodeValidationInvalidSector, http.StatusBadRequest},
		{"not found maps to 404", ErrCodeNotFoundSource, http.StatusNotFound},
		{"upstream transport maps to 502", ErrCodeUpstreamTransport, http.StatusBadGateway},
		{"upstream timeout maps to 504", ErrCodeUpstreamTimeout, http.StatusGatewayTimeout},
		{"vendor reported maps to 502", ErrCodeVendorReported, http.StatusBadGateway},
		{"vendor rate limited maps to 429", ErrCodeVendorRateLimited, http.StatusTooManyRequests},
		{"shape maps to 502", ErrCodeShapeUnrecognized, http.StatusBadGateway},
		{"persistence maps to 500", ErrCodePersistenceWrite, http.StatusInternalServerError},
		{"internal maps to 500", ErrCodeInternalUnexpected, http.StatusInternalServerError},
		{"unknown code defaults to 500", ErrorCode("totally_unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestAppErrorErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	appErr := NewAppError(ErrCodeUpstreamTransport, "fetch failed", underlying)

	assert.Equal(t, "upstream_transport_failed: fetch failed", appErr.Error())
	assert.ErrorIs(t, appErr, underlying)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus())
}

func TestAppErrorAs(t *testing.T) {
	var target *AppError
	wrapped := NewAppError(ErrCodeVendorRateLimited, "throttled", nil)

	require.True(t, errors.As(error(wrapped), &target))
	assert.Equal(t, ErrCodeVendorRateLimited, target.Code)
}

func TestAppErrorWithDetails(t *testing.T) {
	base := NewAppErrorWithDetails(ErrCodeShapeUnrecognized, "bad payload", nil, map[string]any{
		"source": "alpha_vantage",
	})

	enriched := base.WithDetails(map[string]any{"status": 200})

	// Original must not be mutated.
	assert.Len(t, base.Details, 1)
	assert.Equal(t, "alpha_vantage", enriched.Details["source"])
	assert.Equal(t, 200, enriched.Details["status"])
}
