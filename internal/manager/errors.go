package manager

import "errors"

// Sentinel errors returned by archive operations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrArchiveNotFound is returned when the archive file does not
	// exist at the given path.
	ErrArchiveNotFound = errors.New("archive file not found")

	// ErrArchiveExists is returned by Create when a file already
	// occupies the target path.
	ErrArchiveExists = errors.New("archive file already exists")

	// ErrWeakPassword is returned by Create when the master password is
	// shorter than the configured minimum.
	ErrWeakPassword = errors.New("master password is too short")

	// ErrArchiveNotOpen is returned by operations that require an open
	// archive when none is open.
	ErrArchiveNotOpen = errors.New("no archive is open")

	// ErrRecordNotFound is returned when the addressed credential does
	// not exist in the open archive.
	ErrRecordNotFound = errors.New("credential record not found")

	// ErrDuplicateID is returned by Add when a record with the same id
	// already exists.
	ErrDuplicateID = errors.New("credential record id already exists")

	// ErrCorruptedArchive is returned when the repository tree inside
	// the archive is invalid and auto-repair could not fix it.
	ErrCorruptedArchive = errors.New("archive repository is corrupted beyond repair")
)
