package handler

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/app"
	"github.com/MKhiriev/go-vault-keeper/internal/archive"
	"github.com/MKhiriev/go-vault-keeper/internal/manager"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/models"
)

var (
	errPayloadRequired  = errors.New("operation payload is required")
	errMalformedPayload = errors.New("malformed operation payload")
)

func malformedPayload(cause error) error {
	return fmt.Errorf("%w: %v", errMalformedPayload, cause)
}

// errorResult translates a domain error into the wire error taxonomy.
// The message stays stable per kind; the concrete error goes into
// details so clients can log it without parsing it.
func errorResult(err error) models.Result {
	errorType := mapErrorType(err)
	return models.NewError(errorType, messageFor(errorType), err.Error())
}

// mapErrorType is the single place where domain errors meet the wire
// protocol's error_type values.
func mapErrorType(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return models.ErrTypeSessionNotFound
	case errors.Is(err, ErrSessionExpired):
		return models.ErrTypeSessionExpired
	case errors.Is(err, ErrSessionRequired):
		return models.ErrTypeSessionRequired
	case errors.Is(err, ErrNotAuthenticated):
		return models.ErrTypeNotAuthenticated

	case errors.Is(err, manager.ErrArchiveNotFound),
		errors.Is(err, manager.ErrRecordNotFound):
		return models.ErrTypeNotFound

	case errors.Is(err, archive.ErrWrongPassword):
		return models.ErrTypeCryptoError

	case errors.Is(err, manager.ErrCorruptedArchive),
		errors.Is(err, archive.ErrInvalidFormat),
		errors.Is(err, store.ErrRecordDecode),
		errors.Is(err, store.ErrMetadataDecode),
		errors.Is(err, store.ErrRecordIDMismatch):
		return models.ErrTypeCorruptedArchive

	case errors.Is(err, archive.ErrLockTimeout):
		return models.ErrTypeLockFailed

	case errors.Is(err, manager.ErrArchiveNotOpen):
		return models.ErrTypeArchiveNotOpen

	case errors.Is(err, manager.ErrArchiveExists),
		errors.Is(err, manager.ErrWeakPassword),
		errors.Is(err, manager.ErrDuplicateID),
		isValidationError(err):
		return models.ErrTypeValidationFailed

	case errors.Is(err, errPayloadRequired),
		errors.Is(err, errMalformedPayload),
		errors.Is(err, ErrUnknownOp):
		return models.ErrTypeProcessing

	default:
		return models.ErrTypeInternal
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		validators.ErrEmptyTitle,
		validators.ErrTitleTooLong,
		validators.ErrTooManyFields,
		validators.ErrFieldValueTooBig,
		validators.ErrEmptyFieldName,
		validators.ErrTooManyTags,
		validators.ErrEmptyTag,
		validators.ErrTagTooLong,
		validators.ErrNotesTooLong,
		validators.ErrEmptySearchQuery,
		validators.ErrUnsupportedType,
		validators.ErrUnknownField,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// messageFor keeps human-readable summaries consistent across
// operations for the same error kind.
func messageFor(errorType string) string {
	switch errorType {
	case models.ErrTypeSessionNotFound:
		return app.MsgSessionNotFound
	case models.ErrTypeSessionExpired:
		return app.MsgSessionExpired
	case models.ErrTypeSessionRequired:
		return app.MsgSessionRequired
	case models.ErrTypeNotAuthenticated:
		return app.MsgNotAuthenticated
	case models.ErrTypeNotFound:
		return app.MsgNotFound
	case models.ErrTypeCryptoError:
		return app.MsgCryptoError
	case models.ErrTypeCorruptedArchive:
		return app.MsgCorruptedArchive
	case models.ErrTypeValidationFailed:
		return app.MsgValidationFailed
	case models.ErrTypeLockFailed:
		return app.MsgLockFailed
	case models.ErrTypeArchiveNotOpen:
		return app.MsgArchiveNotOpen
	case models.ErrTypeProcessing:
		return app.MsgProcessingError
	default:
		return app.MsgInternalServerError
	}
}
