// Package api provides the JSON response helpers and the error envelope
// shared by all HTTP handlers.
package api

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the envelope.
const (
	CodeMissingUserID   = "MISSING_USER_ID"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeMissingBody     = "MISSING_BODY"
	CodeMissingFields   = "MISSING_REQUIRED_FIELDS"
	CodeSessionExpired  = "SESSION_EXPIRED"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeContextNotFound = "CONTEXT_NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorBody is the inner error object of the envelope.
type ErrorBody struct {
	Code            string `json:"code"`
	Message         string `json:"message"`
	UserMessage     string `json:"userMessage"`
	Retryable       bool   `json:"retryable"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// envelope wraps every error response: {"error": {...}}.
type envelope struct {
	Error ErrorBody `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, body ErrorBody) {
	WriteJSON(w, status, envelope{Error: body})
}

// MissingUserID is the 400 response for requests without a user ID.
func MissingUserID(w http.ResponseWriter) {
	WriteError(w, http.StatusBadRequest, ErrorBody{
		Code:            CodeMissingUserID,
		Message:         "userId is required",
		UserMessage:     "We couldn't identify your account.",
		Retryable:       false,
		SuggestedAction: "Please sign in and try again.",
	})
}

// UserNotFound is the 404 response for unknown users.
func UserNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, ErrorBody{
		Code:        CodeUserNotFound,
		Message:     "no profile exists for the given userId",
		UserMessage: "We couldn't find your supporter record.",
		Retryable:   false,
	})
}

// Internal is the 500 response for unexpected failures. The underlying
// error is logged by the caller, never sent to the client.
func Internal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, ErrorBody{
		Code:            CodeInternalError,
		Message:         "an internal error occurred",
		UserMessage:     "Something went wrong on our side.",
		Retryable:       true,
		SuggestedAction: "Please try again in a moment.",
	})
}
