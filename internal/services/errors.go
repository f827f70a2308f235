package services

import "errors"

// Failure kinds raised by the generation pipeline and the roadmap store. Handlers
// map these to HTTP statuses with errors.Is and never expose upstream detail.
var (
	// ErrMissingAPIKey means the user has no generation key on file.
	ErrMissingAPIKey = errors.New("no generation API key configured")

	// ErrUpstream covers every failure of the external generation service:
	// network, quota, invalid key. Callers cannot tell these apart.
	ErrUpstream = errors.New("generation service request failed")

	// ErrMalformedResponse means the completion could not be decoded into steps.
	ErrMalformedResponse = errors.New("generated response is not a valid step list")

	// ErrNotFound covers both absent records and records owned by another user,
	// so responses never leak whether a foreign record exists.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means the goal already has a roadmap.
	ErrConflict = errors.New("roadmap already exists for this goal")
)
