package domain

import "errors"

// Domain errors
var (
	// ErrDocumentOpen means the byte stream is not a parseable document at
	// all during the OCR phase. This is fatal for the call: it indicates
	// caller-side input corruption, not "this page has no text".
	ErrDocumentOpen = errors.New("document cannot be opened")

	ErrEmptyFile        = errors.New("empty file")
	ErrInvalidFileType  = errors.New("file must be a PDF")
	ErrMissingFile      = errors.New("form-data must include a file field")
	ErrContractNotFound = errors.New("contract not found")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
