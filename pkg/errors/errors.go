package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"contract-analyzer/internal/domain"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewExtractionError creates an error for a failed document extraction
func NewExtractionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewStorageError creates an error for a failed object-storage operation
func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewUpstreamError creates an error for a failed language-model call
func NewUpstreamError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FromDomain maps domain sentinel errors onto typed application errors so
// handlers get the right status code without inspecting sentinels themselves.
func FromDomain(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, domain.ErrDocumentOpen):
		return NewExtractionError("document cannot be opened", err)
	case stderrors.Is(err, domain.ErrEmptyFile):
		return NewValidationError("empty file")
	case stderrors.Is(err, domain.ErrInvalidFileType):
		return NewValidationError("file must be a PDF")
	case stderrors.Is(err, domain.ErrMissingFile):
		return &AppError{
			Type:       ErrorTypeValidation,
			Message:    "form-data must include a file field",
			StatusCode: http.StatusUnprocessableEntity,
		}
	case stderrors.Is(err, domain.ErrContractNotFound):
		return NewNotFoundError("contract not found")
	default:
		var validation *domain.ValidationError
		if stderrors.As(err, &validation) {
			return NewValidationError(validation.Message, validation.Field)
		}
		var app *AppError
		if stderrors.As(err, &app) {
			return app
		}
		return NewInternalError("unexpected error", err)
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var app *AppError
	if stderrors.As(err, &app) {
		return app.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var app *AppError
	if stderrors.As(err, &app) {
		return app.StatusCode
	}
	return http.StatusInternalServerError
}
