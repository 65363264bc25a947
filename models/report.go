package models

import "time"

// IssueKind classifies a problem found during repository validation.
type IssueKind string

const (
	// IssueMissingRequired means a required file or directory is absent.
	IssueMissingRequired IssueKind = "missing_required"

	// IssueInvalidFormat means a file exists but cannot be parsed.
	IssueInvalidFormat IssueKind = "invalid_format"

	// IssueVersion means the repository format version is incompatible
	// with the running software.
	IssueVersion IssueKind = "version_issue"

	// IssueCorruptedCredential means a credential record failed to
	// parse or violates record invariants.
	IssueCorruptedCredential IssueKind = "corrupted_credential"

	// IssueLegacyFormat means an older repository layout was detected.
	IssueLegacyFormat IssueKind = "legacy_format"

	// IssueStructural means the directory tree is inconsistent in a
	// way that does not affect credential content.
	IssueStructural IssueKind = "structural_issue"
)

// Severity grades a validation issue.
type Severity string

const (
	// SeverityCritical prevents the repository from being used.
	SeverityCritical Severity = "critical"

	// SeverityWarning should be addressed but does not block usage.
	SeverityWarning Severity = "warning"

	// SeverityInfo is informational only.
	SeverityInfo Severity = "info"
)

// ValidationIssue is one problem found in a repository directory.
type ValidationIssue struct {
	// Kind classifies the issue.
	Kind IssueKind `json:"kind"`

	// Path is the repository-relative path the issue refers to, when
	// it concerns a specific file or directory.
	Path string `json:"path,omitempty"`

	// Description explains the issue in human-readable form.
	Description string `json:"description"`

	// Severity applies to version issues; zero for other kinds.
	Severity Severity `json:"severity,omitempty"`

	// CredentialID identifies the affected record for corrupted
	// credential issues.
	CredentialID string `json:"credential_id,omitempty"`

	// MigrationNeeded is set on legacy format issues that auto-repair
	// can migrate.
	MigrationNeeded bool `json:"migration_needed,omitempty"`

	// AutoFixable is set on structural issues that auto-repair can fix.
	AutoFixable bool `json:"auto_fixable,omitempty"`
}

// Repairable reports whether auto-repair can address this issue.
func (i ValidationIssue) Repairable() bool {
	switch i.Kind {
	case IssueMissingRequired:
		return true
	case IssueStructural:
		return i.AutoFixable
	case IssueLegacyFormat:
		return i.MigrationNeeded
	default:
		return false
	}
}

// Blocking reports whether this issue makes the repository unusable.
func (i ValidationIssue) Blocking() bool {
	switch i.Kind {
	case IssueMissingRequired, IssueInvalidFormat, IssueCorruptedCredential:
		return true
	case IssueVersion:
		return i.Severity == SeverityCritical
	default:
		return false
	}
}

// RepositoryStats summarizes the contents of a repository directory.
type RepositoryStats struct {
	// CredentialCount is the number of credential records found.
	CredentialCount int `json:"credential_count"`

	// CustomTypeCount is the number of custom type definitions found.
	CustomTypeCount int `json:"custom_type_count"`

	// TotalSizeBytes is the recursive size of the repository tree.
	TotalSizeBytes int64 `json:"total_size_bytes"`

	// CreatedAt is the creation time recorded in metadata.yml, if any.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// LastModified is the modification time of the repository tree.
	LastModified time.Time `json:"last_modified,omitempty"`
}

// ValidationReport is the result of validating a repository directory.
type ValidationReport struct {
	// Version is the repository format version found in metadata.yml,
	// empty when the version could not be determined.
	Version string `json:"version,omitempty"`

	// Issues lists every problem found, in detection order.
	Issues []ValidationIssue `json:"issues"`

	// IsValid reports whether the repository can be used as-is.
	IsValid bool `json:"is_valid"`

	// CanAutoRepair reports whether at least one issue is repairable.
	CanAutoRepair bool `json:"can_auto_repair"`

	// Stats summarizes the repository contents.
	Stats RepositoryStats `json:"stats"`
}
