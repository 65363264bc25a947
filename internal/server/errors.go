package server

import "errors"

var (
	// ErrSocketInUse is returned when another process already listens
	// on the configured socket path.
	ErrSocketInUse = errors.New("socket path is already in use by a live listener")
)
