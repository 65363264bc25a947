// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists credential records as a YAML file tree inside
// an unpacked repository directory. It knows nothing about encryption,
// sessions, or the wire protocol; the archive manager hands it a
// scratch directory and a record set.
package store

import (
	"context"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// RecordStorage reads and writes the credential tree of repository
// format v1 (credentials/<id>/record.yml) plus the legacy flat layout
// (credentials/<id>.yml) on the read path.
type RecordStorage interface {
	// LoadRecords reads every credential record under dir. Legacy flat
	// files are loaded too; when both layouts hold the same id the
	// record directory wins. record.legacy.yml files are skipped.
	LoadRecords(ctx context.Context, dir string) (map[string]models.CredentialRecord, error)

	// WriteRecords replaces the credential tree under dir with exactly
	// the given records, removing entries for ids no longer present.
	// The .gitkeep placeholder is kept so empty repositories survive
	// archive round-trips.
	WriteRecords(ctx context.Context, dir string, records map[string]models.CredentialRecord) error

	// ReadMetadata parses metadata.yml at the root of dir.
	ReadMetadata(ctx context.Context, dir string) (models.ArchiveMetadata, error)

	// WriteMetadata rewrites metadata.yml at the root of dir.
	WriteMetadata(ctx context.Context, dir string, meta models.ArchiveMetadata) error
}
