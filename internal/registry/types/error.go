package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidBaseURL = errors.New("invalid registry base URL")
	ErrInvalidTimeout = errors.New("invalid registry timeout")
	ErrInvalidLimit   = errors.New("invalid registry limit")
	ErrMissingAPIKey  = errors.New("missing registry API key")

	// Response errors
	ErrInvalidResponse = errors.New("invalid response from registry")
)

const (
	MessageKeyNotConfigured = "Hugging Face API Key not configured on the server."
	MessageUpstreamFailed   = "Error fetching models from Hugging Face API via backend proxy."
	MessageMethodNotAllowed = "Method Not Allowed"
)

// UpstreamError is a failed registry call. StatusCode is 0 when no response arrived.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("registry responded with HTTP %d: %s", e.StatusCode, truncate(string(e.Body), 200))
	}
	if e.Err != nil {
		return fmt.Sprintf("registry request failed: %v", e.Err)
	}
	return "registry request failed"
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
