package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason classifies an AppError independently of its HTTP status.
type Reason string

const (
	ReasonValidation        Reason = "validation_error"
	ReasonNotFound          Reason = "not_found"
	ReasonInsufficientStock Reason = "insufficient_stock"
	ReasonDuplicateKey      Reason = "duplicate_key"
	ReasonAllocationRace    Reason = "allocation_race"
	ReasonConflict          Reason = "conflict"
	ReasonInternal          Reason = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Reason  Reason       `json:"reason,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrInternalServer replaces errors that must not reach the client.
var ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error", Reason: ReasonInternal}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Reason:  ReasonValidation,
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
		Reason:  ReasonNotFound,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Reason:  ReasonValidation,
	}
}

// NewDuplicateKeyError reports a unique-key collision the caller has to resolve.
func NewDuplicateKeyError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Reason:  ReasonDuplicateKey,
	}
}

// NewInsufficientStockError names the product that could not cover the requested quantity.
func NewInsufficientStockError(productID, productName string, requested, available int) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", productName, available, requested),
		Reason:  ReasonInsufficientStock,
		Errors: []FieldError{
			{Field: "productId", Message: productID},
		},
	}
}

// NewAllocationRaceError is returned once bill number retries are exhausted.
func NewAllocationRaceError(attempts int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Could not allocate a bill number after %d attempts, please retry", attempts),
		Reason:  ReasonAllocationRace,
	}
}

// NewInternalError hides err from the caller; log it before returning.
func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Reason:  ReasonInternal,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasReason reports whether err is an AppError with the given reason.
func HasReason(err error, reason Reason) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Reason == reason
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
		Reason:  ReasonInternal,
	}
}
