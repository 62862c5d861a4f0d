package handler

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator wires go-playground/validator as the Echo validator.
// Schema validation runs before handler logic; failures produce a 400 with
// per-field detail strings. Business rules stay in the handlers.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the shared validator instance.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "validation failed",
		})
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fieldError.Field(), fieldError.Tag()))
	}

	return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"success": false,
		"message": "validation failed",
		"details": details,
	})
}
