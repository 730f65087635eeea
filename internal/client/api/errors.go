package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ServerError is a non-2xx response from the API, carrying the message
// extracted from the JSON body when one was present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// serverError shapes a non-2xx response body into a ServerError. Bodies are
// expected to carry {"error": "..."} when possible; anything else falls back
// to a status-based message.
func serverError(status int, body []byte) *ServerError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &ServerError{Status: status, Message: payload.Error}
	}
	return &ServerError{Status: status}
}

// TranscriptionFailureKind distinguishes server-side transcription failures
// the UI recovers from differently (switch to text entry, use a placeholder,
// or cancel).
type TranscriptionFailureKind string

const (
	TranscriptionEmptyAudio         TranscriptionFailureKind = "empty-audio"
	TranscriptionUnsupportedFormat  TranscriptionFailureKind = "unsupported-format"
	TranscriptionServiceUnavailable TranscriptionFailureKind = "service-unavailable"
	TranscriptionFailed             TranscriptionFailureKind = "failed"
)

// TranscriptionError is a transcription failure with a user-actionable kind.
type TranscriptionError struct {
	Kind    TranscriptionFailureKind
	Status  int
	Message string
}

func (e *TranscriptionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// classifyTranscription maps a transcription failure response to a kind.
func classifyTranscription(status int, message string) *TranscriptionError {
	kind := TranscriptionFailed
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "no speech") || strings.Contains(lower, "empty"):
		kind = TranscriptionEmptyAudio
	case strings.Contains(lower, "unsupported") || strings.Contains(lower, "format"):
		kind = TranscriptionUnsupportedFormat
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway ||
		strings.Contains(lower, "unavailable"):
		kind = TranscriptionServiceUnavailable
	}
	return &TranscriptionError{Kind: kind, Status: status, Message: message}
}
