package services

import "fmt"

// ValidationError marks request input rejected before any completion call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// LLMRequestError is returned once the retry budget for a completion call
// is exhausted. Err carries the last underlying cause.
type LLMRequestError struct {
	Attempts int
	Err      error
}

func (e *LLMRequestError) Error() string {
	return fmt.Sprintf("completion failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *LLMRequestError) Unwrap() error {
	return e.Err
}

// LLMResponseError marks a backend response with no extractable completion
// text. It is retried the same way as a request failure.
type LLMResponseError struct {
	Reason string
}

func (e *LLMResponseError) Error() string {
	return fmt.Sprintf("unexpected completion response: %s", e.Reason)
}

// ExtractionError is raised by the document and web-content extractors and
// propagated unchanged to the caller.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
