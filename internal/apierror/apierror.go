// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// Generic messages for failures whose details stay in the logs.
const (
	MsgDatabase    = "Database error occurred"
	MsgUnexpected  = "An unexpected error occurred"
	MsgInvalidJSON = "Invalid JSON format"
	MsgContentType = "Content-Type must be application/json"
	MsgConflict    = "The record was updated by another process."
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New builds the envelope for status, using its reason phrase as error.
func New(status int, msg string) *APIError {
	return &APIError{Status: status, Error: http.StatusText(status), Message: msg}
}
