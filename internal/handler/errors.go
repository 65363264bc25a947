package handler

import "errors"

var (
	// ErrSessionNotFound is returned when the supplied session id does
	// not exist in the table.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when the session existed but sat
	// idle past the configured timeout.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionRequired is returned when an operation needs a session
	// id and the request carries none.
	ErrSessionRequired = errors.New("session id required")

	// ErrNotAuthenticated is returned when an operation needs an
	// unlocked archive and the session never unlocked one.
	ErrNotAuthenticated = errors.New("session is not authenticated")

	// ErrUnknownOp is returned for operation names outside the
	// protocol.
	ErrUnknownOp = errors.New("unknown operation")
)
