package core

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"pulseboard/internal/types"
)

// Validator wraps go-playground/validator with domain-specific rules.
// Handlers validate decoded request structs through ValidateStruct and
// surface violations as structured 400 responses.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	// "sector" accepts a known sector name or an empty value (handlers treat
	// empty as auto-detect).
	_ = v.RegisterValidation("sector", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || types.ValidSector(types.Sector(value))
	})

	return &Validator{validate: v, logger: logger}
}

// ValidateStruct validates a decoded request struct, returning a
// *types.AppError with per-field details on violation.
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation misconfigured", err)
	}

	violations := map[string]any{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			violations[strings.ToLower(fe.Field())] = violationMessage(fe)
		}
	}

	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationMissingField,
		"request validation failed",
		err,
		map[string]any{"violations": violations},
	)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "sector":
		return fmt.Sprintf("must be one of %v", types.Sectors())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
