// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client provides transport-layer access to the vault daemon.
//
// The primary abstraction is [VaultClient], which decouples callers from
// the line-delimited JSON protocol spoken over the daemon's Unix socket.
//
// Error values defined in errors.go are mapped from wire error types by
// mapWireError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrWrongPassword] for a failed unlock,
// [ErrNotFound] for a missing credential).
package client
