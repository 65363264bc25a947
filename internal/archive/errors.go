package archive

import "errors"

var (
	// ErrWrongPassword means the authenticated decryption failed. With
	// AES-GCM there is no way to distinguish a wrong master password
	// from a tampered payload, so both map here.
	ErrWrongPassword = errors.New("wrong master password or corrupted payload")

	// ErrInvalidFormat means the file is not a vault archive at all:
	// bad magic, unsupported version, or a header too short to parse.
	ErrInvalidFormat = errors.New("not a valid vault archive")

	// ErrLockTimeout means another process held the archive lock for
	// longer than the configured timeout.
	ErrLockTimeout = errors.New("timed out waiting for archive lock")
)
