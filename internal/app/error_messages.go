// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across
// the daemon's request handling and logging.
//
// All Msg* constants are human-readable message strings that are written
// into wire responses or log entries to describe the outcome of an
// operation. Keeping them in one place ensures consistent wording
// throughout the protocol.
package app

const (
	// MsgSessionNotFound is returned when the supplied session ID does
	// not match any live session.
	MsgSessionNotFound = "session does not exist"

	// MsgSessionExpired is returned when the session existed but its
	// inactivity timeout has passed.
	MsgSessionExpired = "session has expired, create a new one"

	// MsgSessionRequired is returned when an operation that needs a
	// session arrives without a session ID.
	MsgSessionRequired = "operation requires a session id"

	// MsgNotAuthenticated is returned when a session exists but has not
	// unlocked an archive yet.
	MsgNotAuthenticated = "unlock the archive first"

	// MsgNotFound is returned when the addressed archive or credential
	// does not exist.
	MsgNotFound = "requested item was not found"

	// MsgCryptoError is returned when decryption fails, which almost
	// always means a wrong master password.
	MsgCryptoError = "decryption failed, check the master password"

	// MsgCorruptedArchive is returned when the archive decrypts but its
	// contents cannot be parsed or repaired.
	MsgCorruptedArchive = "archive contents are corrupted"

	// MsgValidationFailed is returned when a request payload fails
	// field-level validation or violates a uniqueness constraint.
	MsgValidationFailed = "request was rejected by validation"

	// MsgLockFailed is returned when the archive file lock cannot be
	// acquired within the configured timeout.
	MsgLockFailed = "could not acquire the archive lock"

	// MsgArchiveNotOpen is returned when a credential operation arrives
	// while no archive is unlocked.
	MsgArchiveNotOpen = "no archive is currently open"

	// MsgProcessingError is returned when the request line or payload
	// cannot be parsed, or the operation name is unknown.
	MsgProcessingError = "request could not be processed"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"
)
