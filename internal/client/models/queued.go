package models

import (
	"encoding/json"
	"time"
)

// QueuedRequest is a write operation captured while the device was offline
// (or after a transient server failure), awaiting replay.
type QueuedRequest struct {
	// Method is the HTTP verb of the deferred call.
	Method string `json:"method"`

	// Endpoint is the API path, e.g. "/dreams/abc123/favorite".
	Endpoint string `json:"endpoint"`

	// Payload is the request body, stored verbatim.
	Payload json.RawMessage `json:"payload,omitempty"`

	// EnqueuedAt orders replay: the queue drains in enqueue order.
	EnqueuedAt time.Time `json:"enqueuedAt"`

	// Attempts counts failed replays. The baseline never drops a request
	// by attempt count; the field exists so a backoff policy can be
	// layered on without a format change.
	Attempts int `json:"attempts,omitempty"`
}
