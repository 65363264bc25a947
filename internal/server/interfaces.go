package server

// Server runs the daemon transport until a shutdown signal arrives.
type Server interface {
	// RunServer starts the listener and background workers and blocks
	// until the process receives a termination signal.
	RunServer()
	// Shutdown stops accepting connections, drains active ones and
	// stops background workers.
	Shutdown()
}
