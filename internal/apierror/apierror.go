// Package apierror provides the standardized error envelope for the API.
// All 4xx/5xx responses go through this package so that clients always see
// the same shape and internals (stack traces, SQL errors) never leak by
// accident — anything surfaced in Details is an explicit choice.
package apierror

// APIError is the canonical error body for all failure responses.
type APIError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Message: msg}
}

// Wrap attaches the underlying error text as Details.
func Wrap(msg string, err error) *APIError {
	e := &APIError{Message: msg}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// ValidationError carries per-field failures from request validation.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "Validation failed", Fields: fields}
}
