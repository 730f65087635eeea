// Package common defines shared constants and sentinel errors used across the
// dream journal client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned by lookups for ids absent from the current
	// collection or cache snapshot.
	ErrNotFound = errors.New("not found")

	// ErrOffline marks a call that could not be dispatched because no
	// network path was available.
	ErrOffline = errors.New("no connection")

	// ErrQueued marks a write that was captured by the request queue
	// instead of being sent. It is informational, not a failure.
	ErrQueued = errors.New("queued for replay")

	// ErrUnauthorized is returned when the server rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCacheUnavailable is returned when local persistence cannot be
	// read. The store degrades to an empty fallback rather than failing.
	ErrCacheUnavailable = errors.New("local data unavailable")
)
