// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// VaultClient defines transport-agnostic communication with the vault
// daemon. Implementations are responsible for serialisation, session
// management, and mapping wire-level error types to the sentinel values
// defined in this package.
type VaultClient interface {
	// SetSession stores the session ID attached to all subsequent
	// requests. It should be called immediately after a successful
	// CreateSession.
	SetSession(sessionID string)

	// Session returns the session ID currently stored in the client, or
	// an empty string if no session has been created yet.
	Session() string

	// Ping checks daemon liveness and returns its version and uptime.
	Ping(ctx context.Context) (models.PongData, error)

	// CreateSession opens a new daemon session and stores its ID via
	// SetSession.
	CreateSession(ctx context.Context) (string, error)

	// Unlock opens the archive at archivePath with the master password
	// and marks the session authenticated. Returns the number of
	// credentials loaded.
	Unlock(ctx context.Context, archivePath, masterPassword string) (int, error)

	// Lock saves pending changes, closes the open archive and clears
	// the session's authentication.
	Lock(ctx context.Context) error

	// Status reports whether an archive is currently unlocked.
	Status(ctx context.Context) (models.StatusData, error)

	// CreateArchive creates a new encrypted archive at archivePath.
	CreateArchive(ctx context.Context, archivePath, masterPassword string) error

	// ValidateRepository probes the file at archivePath without
	// decrypting it and reports whether it looks like a valid archive.
	ValidateRepository(ctx context.Context, archivePath string) (models.RepositoryValidatedData, error)

	// List returns all credentials in the open archive. Sensitive field
	// values are masked unless includeSensitive is set.
	List(ctx context.Context, includeSensitive bool) (models.CredentialListData, error)

	// Get returns one credential by ID with sensitive values unmasked.
	Get(ctx context.Context, credentialID string) (models.CredentialRecord, error)

	// Create adds a new credential and returns its assigned ID.
	Create(ctx context.Context, credential models.CredentialRecord) (string, error)

	// Update replaces the credential identified by credentialID.
	Update(ctx context.Context, credentialID string, credential models.CredentialRecord) error

	// Delete removes the credential identified by credentialID.
	Delete(ctx context.Context, credentialID string) error

	// Search returns credentials matching the query, with sensitive
	// values masked.
	Search(ctx context.Context, query string) (models.CredentialListData, error)

	// Save persists in-memory changes back to the archive file.
	Save(ctx context.Context) error

	// ArchiveInfo returns metadata about the open archive.
	ArchiveInfo(ctx context.Context) (models.ArchiveInfoData, error)

	// Close terminates the daemon connection.
	Close() error
}
