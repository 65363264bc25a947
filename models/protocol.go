// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Wire protocol types for the local socket transport.
//
// Requests and responses travel over a Unix domain socket as
// line-delimited JSON: one request object per line, one response
// object per line, correlated by RequestID.

package models

import (
	"encoding/json"
	"time"
)

// Operation names accepted in Request.Op.
const (
	OpPing               = "ping"
	OpCreateSession      = "create_session"
	OpUnlockArchive      = "unlock_archive"
	OpLockArchive        = "lock_archive"
	OpGetStatus          = "get_status"
	OpCreateArchive      = "create_archive"
	OpValidateRepository = "validate_repository"
	OpListCredentials    = "list_credentials"
	OpGetCredential      = "get_credential"
	OpCreateCredential   = "create_credential"
	OpUpdateCredential   = "update_credential"
	OpDeleteCredential   = "delete_credential"
	OpSearchCredentials  = "search_credentials"
	OpSaveArchive        = "save_archive"
	OpGetArchiveInfo     = "get_archive_info"
)

// Wire error_type values returned in Result.ErrorType.
const (
	ErrTypeProcessing       = "ProcessingError"
	ErrTypeSessionNotFound  = "SessionNotFound"
	ErrTypeSessionExpired   = "SessionExpired"
	ErrTypeSessionRequired  = "SessionRequired"
	ErrTypeNotAuthenticated = "NotAuthenticated"
	ErrTypeNotFound         = "NotFound"
	ErrTypeCryptoError      = "CryptoError"
	ErrTypeCorruptedArchive = "CorruptedArchive"
	ErrTypeValidationFailed = "ValidationFailed"
	ErrTypeLockFailed       = "LockFailed"
	ErrTypeArchiveNotOpen   = "ArchiveNotOpen"
	ErrTypeInternal         = "InternalError"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is the envelope of one client request.
type Request struct {
	// RequestID correlates the response with this request.
	RequestID string `json:"request_id"`

	// SessionID identifies the client session; empty for ping and
	// create_session.
	SessionID string `json:"session_id,omitempty"`

	// Op names the requested operation.
	Op string `json:"op"`

	// Payload carries the op-specific parameters, if any.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the envelope of one server response.
type Response struct {
	// RequestID echoes the request's correlation ID, or "unknown" when
	// the request line could not be parsed.
	RequestID string `json:"request_id"`

	// Result holds the outcome.
	Result Result `json:"result"`
}

// Result is the success-or-error outcome of a request.
type Result struct {
	Status string `json:"status"`

	// Data carries the op-specific response payload on success.
	Data json.RawMessage `json:"data,omitempty"`

	// ErrorType is a stable machine-readable error kind on failure.
	ErrorType string `json:"error_type,omitempty"`

	// Message is a human-readable error summary on failure.
	Message string `json:"message,omitempty"`

	// Details carries optional diagnostic text on failure.
	Details string `json:"details,omitempty"`
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// PingPayload is the payload of an OpPing request.
type PingPayload struct {
	ClientInfo string `json:"client_info,omitempty"`
}

// UnlockPayload is the payload of an OpUnlockArchive request.
type UnlockPayload struct {
	ArchivePath    string `json:"archive_path"`
	MasterPassword string `json:"master_password"`
}

// CreateArchivePayload is the payload of an OpCreateArchive request.
type CreateArchivePayload struct {
	ArchivePath    string `json:"archive_path"`
	MasterPassword string `json:"master_password"`
}

// ValidateRepositoryPayload is the payload of an OpValidateRepository
// request.
type ValidateRepositoryPayload struct {
	ArchivePath string `json:"archive_path"`
}

// ListCredentialsPayload is the payload of an OpListCredentials request.
type ListCredentialsPayload struct {
	// IncludeSensitive requests unmasked field values. When false,
	// sensitive values are masked in the response.
	IncludeSensitive bool `json:"include_sensitive,omitempty"`
}

// CredentialIDPayload addresses a single credential by ID. Used by
// OpGetCredential and OpDeleteCredential.
type CredentialIDPayload struct {
	CredentialID string `json:"credential_id"`
}

// CreateCredentialPayload is the payload of an OpCreateCredential
// request.
type CreateCredentialPayload struct {
	Credential CredentialRecord `json:"credential"`
}

// UpdateCredentialPayload is the payload of an OpUpdateCredential
// request.
type UpdateCredentialPayload struct {
	CredentialID string           `json:"credential_id"`
	Credential   CredentialRecord `json:"credential"`
}

// SearchPayload is the payload of an OpSearchCredentials request.
type SearchPayload struct {
	Query string `json:"query"`
}

// PongData is the response payload of OpPing.
type PongData struct {
	ServerVersion string `json:"server_version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// SessionCreatedData is the response payload of OpCreateSession.
type SessionCreatedData struct {
	SessionID string `json:"session_id"`
}

// UnlockedData is the response payload of OpUnlockArchive.
type UnlockedData struct {
	CredentialCount int `json:"credential_count"`
}

// StatusData is the response payload of OpGetStatus.
type StatusData struct {
	IsLocked        bool   `json:"is_locked"`
	ArchivePath     string `json:"archive_path,omitempty"`
	CredentialCount int    `json:"credential_count,omitempty"`
}

// CredentialListData is the response payload of OpListCredentials and
// OpSearchCredentials.
type CredentialListData struct {
	Credentials  []CredentialRecord `json:"credentials"`
	TotalMatches int                `json:"total_matches"`
}

// CredentialData is the response payload of OpGetCredential.
type CredentialData struct {
	Credential CredentialRecord `json:"credential"`
}

// CredentialCreatedData is the response payload of OpCreateCredential.
type CredentialCreatedData struct {
	CredentialID string `json:"credential_id"`
}

// ArchiveInfoData is the response payload of OpGetArchiveInfo.
type ArchiveInfoData struct {
	Path            string    `json:"path"`
	CredentialCount int       `json:"credential_count"`
	CreatedAt       time.Time `json:"created_at"`
	LastModified    time.Time `json:"last_modified"`
}

// RepositoryValidatedData is the response payload of
// OpValidateRepository.
type RepositoryValidatedData struct {
	Path          string    `json:"path"`
	SizeBytes     int64     `json:"size_bytes"`
	LastModified  time.Time `json:"last_modified"`
	IsValidFormat bool      `json:"is_valid_format"`
	DisplayName   string    `json:"display_name"`
}

// NewSuccess builds a success Result carrying the JSON encoding of
// data; a nil data produces an empty payload.
func NewSuccess(data any) Result {
	result := Result{Status: StatusSuccess}
	if data == nil {
		return result
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return NewError(ErrTypeInternal, "failed to encode response payload", err.Error())
	}
	result.Data = encoded
	return result
}

// NewError builds an error Result.
func NewError(errorType, message, details string) Result {
	return Result{
		Status:    StatusError,
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	}
}
