package store

import "errors"

// Sentinel errors returned by storage methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordDecode is returned when a record file exists but cannot
	// be parsed as a credential record.
	ErrRecordDecode = errors.New("credential record cannot be decoded")

	// ErrMetadataDecode is returned when metadata.yml exists but cannot
	// be parsed.
	ErrMetadataDecode = errors.New("repository metadata cannot be decoded")

	// ErrRecordIDMismatch is returned when a record directory name and
	// the id stored inside its record.yml disagree.
	ErrRecordIDMismatch = errors.New("record id does not match its directory")
)
