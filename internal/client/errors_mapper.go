package client

import (
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// mapWireError converts an error result into a sentinel error that
// callers can test with errors.Is.
func mapWireError(result models.Result) error {
	detail := result.Details
	if detail == "" {
		detail = result.Message
	}

	switch result.ErrorType {
	case models.ErrTypeSessionNotFound:
		return fmt.Errorf("%w: %s", ErrSessionNotFound, detail)
	case models.ErrTypeSessionExpired:
		return fmt.Errorf("%w: %s", ErrSessionExpired, detail)
	case models.ErrTypeSessionRequired:
		return fmt.Errorf("%w: %s", ErrSessionRequired, detail)
	case models.ErrTypeNotAuthenticated:
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, detail)
	case models.ErrTypeNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case models.ErrTypeCryptoError:
		return fmt.Errorf("%w: %s", ErrWrongPassword, detail)
	case models.ErrTypeCorruptedArchive:
		return fmt.Errorf("%w: %s", ErrCorruptedArchive, detail)
	case models.ErrTypeValidationFailed:
		return fmt.Errorf("%w: %s", ErrValidationFailed, detail)
	case models.ErrTypeLockFailed:
		return fmt.Errorf("%w: %s", ErrLockFailed, detail)
	case models.ErrTypeArchiveNotOpen:
		return fmt.Errorf("%w: %s", ErrArchiveNotOpen, detail)
	case models.ErrTypeProcessing:
		return fmt.Errorf("%w: %s", ErrProcessing, detail)
	default:
		return fmt.Errorf("%w: %s", ErrServer, detail)
	}
}
