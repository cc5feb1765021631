package app

import "errors"

var (
	// ErrInvalidQuantity is a local validation failure; it never reaches the
	// network.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrMutationInProgress rejects a second mutation for a line that already
	// has one in flight. Requests are rejected, never queued.
	ErrMutationInProgress = errors.New("mutation already in progress")

	// ErrAuthRequired rejects mutations without a session before any network
	// call is attempted.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRemoteFailure wraps network/server errors; the snapshot is left
	// unchanged when it occurs.
	ErrRemoteFailure = errors.New("cart store unavailable")
)
