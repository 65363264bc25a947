// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package manager holds the single open archive and every operation on
// it. One archive at a time: opening a second archive closes the first
// (saving it when dirty). All mutations happen in memory and reach the
// encrypted file only on Save or Close.
package manager

import (
	"context"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// ArchiveManager is the service layer for archive and credential
// operations. Implementations must be safe for concurrent use.
type ArchiveManager interface {
	// Create builds a new empty archive at path. The archive is not
	// opened. Fails with ErrArchiveExists when path already exists and
	// ErrWeakPassword when the master password is too short.
	Create(ctx context.Context, path, password string) error

	// Open unlocks the archive at path: acquires the file lock,
	// decrypts into a scratch directory, validates and auto-repairs
	// the repository tree, and loads every credential record. Returns
	// the number of records loaded. A previously open archive is
	// closed first.
	Open(ctx context.Context, path, password string) (int, error)

	// Close saves the open archive when dirty, releases the file lock
	// and removes the scratch directory. Idempotent.
	Close(ctx context.Context) error

	// Save writes in-memory state back to the encrypted file: backup,
	// credential tree rewrite, metadata regeneration, repack. A clean
	// archive is a no-op.
	Save(ctx context.Context) error

	// Status reports whether an archive is open, and which.
	Status(ctx context.Context) models.StatusData

	// ArchiveInfo describes the open archive. Fails with
	// ErrArchiveNotOpen when nothing is open.
	ArchiveInfo(ctx context.Context) (models.ArchiveInfoData, error)

	// Inspect probes the file at path without decrypting it: existence,
	// size, modification time, and whether it carries the archive
	// container format.
	Inspect(ctx context.Context, path string) (models.RepositoryValidatedData, error)

	// List returns every record sorted by title. Sensitive field
	// values are masked unless includeSensitive is set.
	List(ctx context.Context, includeSensitive bool) ([]models.CredentialRecord, error)

	// Get returns one record with unmasked values.
	Get(ctx context.Context, id string) (models.CredentialRecord, error)

	// Add validates and inserts a record, assigning an ID when the
	// record carries none. Returns the stored record.
	Add(ctx context.Context, record models.CredentialRecord) (models.CredentialRecord, error)

	// Update validates and replaces the record stored under id,
	// preserving its ID and creation time. UpdatedAt is stamped
	// strictly after the previous value.
	Update(ctx context.Context, id string, record models.CredentialRecord) (models.CredentialRecord, error)

	// Delete removes the record stored under id.
	Delete(ctx context.Context, id string) error

	// Search returns records whose title, type, tags, notes or
	// non-sensitive field values contain the query, case-insensitively.
	// Sensitive values are never inspected and come back masked.
	Search(ctx context.Context, query string) ([]models.CredentialRecord, error)
}
