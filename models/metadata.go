// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ArchiveMetadata is the content of metadata.yml at the root of an
// unpacked repository. It is regenerated from live state on every save
// and never hand-edited.
type ArchiveMetadata struct {
	// Version is the semantic repository format version, e.g. "1.0.0".
	Version string `json:"version" yaml:"version"`

	// CreatedAt is the creation time of the repository. Preserved from
	// the previous metadata across saves when available.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// LastModified is the time of the most recent save.
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`

	// CredentialCount is the number of credential records stored at
	// the time of the last save.
	CredentialCount int `json:"credential_count" yaml:"credential_count"`
}
