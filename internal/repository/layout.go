package repository

// File and directory names that make up repository format v1.
const (
	// MetadataFile sits at the repository root and records the format
	// version and credential count.
	MetadataFile = "metadata.yml"

	// CredentialsDir holds one subdirectory per credential record.
	CredentialsDir = "credentials"

	// TypesDir holds custom credential type definitions.
	TypesDir = "types"

	// RecordFile is the per-credential YAML document inside its
	// directory: credentials/<id>/record.yml.
	RecordFile = "record.yml"

	// LegacyRecordFile preserves a flat-layout file that collided with
	// an existing record directory during migration. Loaders skip it.
	LegacyRecordFile = "record.legacy.yml"

	// GitKeepFile keeps otherwise-empty directories present in the
	// archive stream.
	GitKeepFile = ".gitkeep"
)
