// Package server wires and runs the local socket transport.
//
// It provides orchestration for the Unix domain socket listener,
// including startup, signal handling, and graceful shutdown.
package server
