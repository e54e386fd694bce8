package recognition

import (
	"errors"
	"fmt"
)

// ErrUnparseableOutput marks a model answer that held no JSON object.
var ErrUnparseableOutput = errors.New("model output contains no JSON object")

// ProviderError describes a failed call to a model endpoint.
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a ProviderError.
func NewProviderError(provider string, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: status, Err: err}
}

// Truncate shortens s to maxLen bytes for log and error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
