package handler

import (
	"errors"
	"net/http"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://ebudgetmo.app/errors/validation"
	ErrorTypeNotFound   = "https://ebudgetmo.app/errors/not-found"
	ErrorTypeForbidden  = "https://ebudgetmo.app/errors/forbidden"
	ErrorTypeConflict   = "https://ebudgetmo.app/errors/conflict"
	ErrorTypeInternal   = "https://ebudgetmo.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// invalidBody is the response for a request body that does not decode,
// including amounts that are not numbers
func invalidBody(c echo.Context) error {
	return NewValidationError(c, "Invalid request body", []ValidationError{
		{Field: "body", Message: "Body must be JSON and amounts must be numeric"},
	})
}

var validationFields = []struct {
	err   error
	field string
}{
	{domain.ErrInvalidMonthKey, "month"},
	{domain.ErrInvalidBudget, "budget"},
	{domain.ErrCategoryBudgetsExceedBudget, "categoryBudgets"},
	{domain.ErrInvalidCategoryBudgets, "categoryBudgets"},
	{domain.ErrInvalidSavingsGoal, "savingsGoal"},
	{domain.ErrInvalidMonthData, "month"},
	{domain.ErrInvalidExpense, "expense"},
	{domain.ErrInvalidBill, "bill"},
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameTooLong, "name"},
	{service.ErrImageTooLarge, "file"},
	{service.ErrInvalidFormat, "file"},
	{service.ErrImageTooSmall, "file"},
	{service.ErrInvalidImageData, "file"},
	{domain.ErrInvalidInput, ""},
}

// serviceError maps a service error onto its RFC 7807 response. Unknown
// errors are logged and reported as internal errors.
func serviceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrHistoricalMonth):
		return NewForbiddenError(c, err.Error())
	case errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrBillNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrBillAlreadyExists), errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, err.Error())
	}

	for _, v := range validationFields {
		if errors.Is(err, v.err) {
			var fields []ValidationError
			if v.field != "" {
				fields = []ValidationError{{Field: v.field, Message: err.Error()}}
			}
			return NewValidationError(c, err.Error(), fields)
		}
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}
