package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All handlers MUST use these constants instead of hardcoded strings.
const (
	// Validation (400)
	ErrCodeValidationMissingField  ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidSector ErrorCode = "validation_invalid_sector"
	ErrCodeValidationInvalidBody   ErrorCode = "validation_invalid_body"
	ErrCodeValidationPromptEmpty   ErrorCode = "validation_prompt_empty"
	ErrCodeValidationInvalidParam  ErrorCode = "validation_invalid_parameter"

	// Not Found (404)
	ErrCodeNotFoundSource ErrorCode = "not_found_data_source"
	ErrCodeNotFoundSector ErrorCode = "not_found_sector"

	// Upstream transport (502/504)
	ErrCodeUpstreamTransport   ErrorCode = "upstream_transport_failed"
	ErrCodeUpstreamTimeout     ErrorCode = "upstream_timeout"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"

	// Vendor-reported (502/429): the HTTP exchange succeeded but the
	// payload carried an in-band failure or throttle notice.
	ErrCodeVendorReported    ErrorCode = "vendor_reported_error"
	ErrCodeVendorRateLimited ErrorCode = "vendor_rate_limited"

	// Payload shape (502)
	ErrCodeShapeUnrecognized ErrorCode = "shape_unrecognized_payload"

	// Persistence (500). Warehouse failures are logged and folded into a
	// stored=false flag before they reach a handler, so the status mapping
	// here is a backstop, not a normal path.
	ErrCodePersistenceWrite ErrorCode = "persistence_write_failed"
	ErrCodePersistenceRead  ErrorCode = "persistence_read_failed"
	ErrCodePersistenceConn  ErrorCode = "persistence_connection_failed"

	// Internal (500)
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
	ErrCodeInternalAnalysis   ErrorCode = "internal_analysis_failed"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Used by the API layer to translate AppErrors into HTTP responses.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound // 404
	case s == string(ErrCodeUpstreamTimeout):
		return http.StatusGatewayTimeout // 504
	case s == string(ErrCodeVendorRateLimited):
		return http.StatusTooManyRequests // 429
	case strings.HasPrefix(s, "upstream_"),
		strings.HasPrefix(s, "vendor_"),
		strings.HasPrefix(s, "shape_"):
		return http.StatusBadGateway // 502
	case strings.HasPrefix(s, "persistence_"):
		return http.StatusInternalServerError // 500
	case strings.HasPrefix(s, "internal_"):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the service.
// All domain and handler errors should be expressed as AppError to enable
// consistent error formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
