package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

const (
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrNotFound        = 1002
	ErrTooManyRequests = 1006

	// Registry errors (2000-2999)
	ErrRegistryNotConfigured = 2000
	ErrRegistryUpstream      = 2001
	ErrRegistryTimeout       = 2002
	ErrRegistryBadResponse   = 2003

	// Search errors (3000-3999)
	ErrSearchInvalidFilter = 3000
	ErrSearchFetchFailed   = 3001

	// Assistant errors (4000-4999)
	ErrAssistantInvalidInput = 4000
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},

	ErrRegistryNotConfigured: {ErrRegistryNotConfigured, http.StatusInternalServerError, "Hugging Face API Key not configured on the server."},
	ErrRegistryUpstream:      {ErrRegistryUpstream, http.StatusBadGateway, "Error fetching models from Hugging Face API via backend proxy."},
	ErrRegistryTimeout:       {ErrRegistryTimeout, http.StatusGatewayTimeout, "Hugging Face API request timed out"},
	ErrRegistryBadResponse:   {ErrRegistryBadResponse, http.StatusBadGateway, "Invalid response from Hugging Face API"},

	ErrSearchInvalidFilter: {ErrSearchInvalidFilter, http.StatusBadRequest, "Invalid search filter"},
	ErrSearchFetchFailed:   {ErrSearchFetchFailed, http.StatusBadGateway, "Could not fetch models. Please try again later."},

	ErrAssistantInvalidInput: {ErrAssistantInvalidInput, http.StatusBadRequest, "Invalid assistant input"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError checks if the code maps to a 4xx status
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code maps to a 5xx status
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with optional details
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
