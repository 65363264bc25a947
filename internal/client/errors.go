package client

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionRequired  = errors.New("session required")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrWrongPassword    = errors.New("wrong master password")
	ErrCorruptedArchive = errors.New("archive is corrupted")
	ErrValidationFailed = errors.New("validation failed")
	ErrLockFailed       = errors.New("archive lock failed")
	ErrArchiveNotOpen   = errors.New("archive is not open")
	ErrProcessing       = errors.New("request processing failed")
	ErrServer           = errors.New("internal server error")
)
