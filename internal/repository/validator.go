// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// repositoryValidator is the production [Validator].
type repositoryValidator struct {
	logs *logger.Logger
}

// NewValidator constructs the format v1 [Validator].
func NewValidator(logs *logger.Logger) Validator {
	return &repositoryValidator{logs: logs}
}

// Validate implements [Validator].
func (v *repositoryValidator) Validate(dir string) (*models.ValidationReport, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("stat repository: %w", err)
	}

	report := &models.ValidationReport{Issues: []models.ValidationIssue{}}

	v.checkMetadata(dir, report)
	v.checkTopLevelDir(dir, CredentialsDir, report)
	v.checkTopLevelDir(dir, TypesDir, report)
	v.checkCredentials(dir, report)
	v.checkTypes(dir, report)
	v.checkCredentialCount(dir, report)

	v.fillStats(dir, report)
	finalize(report)

	v.logs.Debug().
		Str("dir", dir).
		Bool("is_valid", report.IsValid).
		Int("issues", len(report.Issues)).
		Msg("repository validated")

	return report, nil
}

// checkMetadata verifies metadata.yml exists, parses, and carries a
// compatible format version.
func (v *repositoryValidator) checkMetadata(dir string, report *models.ValidationReport) {
	path := filepath.Join(dir, MetadataFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueMissingRequired,
			Path:        MetadataFile,
			Description: "metadata.yml is missing",
		})
		return
	}
	if err != nil {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueInvalidFormat,
			Path:        MetadataFile,
			Description: fmt.Sprintf("metadata.yml is unreadable: %v", err),
		})
		return
	}

	var meta models.ArchiveMetadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueInvalidFormat,
			Path:        MetadataFile,
			Description: fmt.Sprintf("metadata.yml is not valid YAML: %v", err),
		})
		return
	}
	if meta.Version == "" {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueInvalidFormat,
			Path:        MetadataFile,
			Description: "metadata.yml has no version field",
		})
		return
	}

	ver, err := ParseVersion(meta.Version)
	if err != nil {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueInvalidFormat,
			Path:        MetadataFile,
			Description: fmt.Sprintf("metadata.yml has malformed version %q", meta.Version),
		})
		return
	}

	report.Version = meta.Version
	report.Stats.CreatedAt = meta.CreatedAt

	switch {
	case ver.NewerThan(CurrentVersion):
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueVersion,
			Path:        MetadataFile,
			Severity:    models.SeverityCritical,
			Description: fmt.Sprintf("repository format %s is newer than supported %s", ver, CurrentVersion),
		})
	case !ver.CompatibleWith(CurrentVersion), ver.Compare(CurrentVersion) < 0:
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:            models.IssueLegacyFormat,
			Path:            MetadataFile,
			MigrationNeeded: true,
			Description:     fmt.Sprintf("repository format %s predates %s and needs migration", ver, CurrentVersion),
		})
	}
}

// checkTopLevelDir verifies that dir/name exists and is a directory.
func (v *repositoryValidator) checkTopLevelDir(dir, name string, report *models.ValidationReport) {
	info, err := os.Stat(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueMissingRequired,
			Path:        name,
			Description: fmt.Sprintf("%s/ directory is missing", name),
		})
		return
	}
	if err != nil {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueInvalidFormat,
			Path:        name,
			Description: fmt.Sprintf("%s is unreadable: %v", name, err),
		})
		return
	}
	if !info.IsDir() {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueInvalidFormat,
			Path:        name,
			Description: fmt.Sprintf("%s exists but is not a directory", name),
		})
	}
}

// checkCredentials walks credentials/ and validates each entry: format
// v1 record directories, legacy flat files, and strays.
func (v *repositoryValidator) checkCredentials(dir string, report *models.ValidationReport) {
	entries, err := os.ReadDir(filepath.Join(dir, CredentialsDir))
	if err != nil {
		// Absence was already reported by checkTopLevelDir.
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == GitKeepFile {
			continue
		}

		relPath := filepath.ToSlash(filepath.Join(CredentialsDir, name))

		if !entry.IsDir() {
			if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
				report.Issues = append(report.Issues, models.ValidationIssue{
					Kind:            models.IssueLegacyFormat,
					Path:            relPath,
					CredentialID:    strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml"),
					MigrationNeeded: true,
					Description:     fmt.Sprintf("credential %s uses the legacy flat layout", name),
				})
				report.Stats.CredentialCount++
			} else {
				report.Issues = append(report.Issues, models.ValidationIssue{
					Kind:        models.IssueStructural,
					Path:        relPath,
					Description: fmt.Sprintf("unexpected file %s in credentials directory", name),
				})
			}
			continue
		}

		v.checkRecordDir(dir, name, report)
	}
}

// checkRecordDir validates one credentials/<id>/ directory.
func (v *repositoryValidator) checkRecordDir(dir, id string, report *models.ValidationReport) {
	relPath := filepath.ToSlash(filepath.Join(CredentialsDir, id, RecordFile))
	raw, err := os.ReadFile(filepath.Join(dir, CredentialsDir, id, RecordFile))
	if errors.Is(err, fs.ErrNotExist) {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:         models.IssueCorruptedCredential,
			Path:         relPath,
			CredentialID: id,
			Description:  fmt.Sprintf("credential %s has no record.yml", id),
		})
		return
	}
	if err != nil {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:         models.IssueCorruptedCredential,
			Path:         relPath,
			CredentialID: id,
			Description:  fmt.Sprintf("credential %s is unreadable: %v", id, err),
		})
		return
	}

	var record models.CredentialRecord
	if err := yaml.Unmarshal(raw, &record); err != nil {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:         models.IssueCorruptedCredential,
			Path:         relPath,
			CredentialID: id,
			Description:  fmt.Sprintf("credential %s is not valid YAML: %v", id, err),
		})
		return
	}
	if record.ID != "" && record.ID != id {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:         models.IssueCorruptedCredential,
			Path:         relPath,
			CredentialID: id,
			Description:  fmt.Sprintf("credential directory %s contains record with id %s", id, record.ID),
		})
		return
	}

	report.Stats.CredentialCount++
}

// checkTypes verifies every custom type definition parses as YAML.
func (v *repositoryValidator) checkTypes(dir string, report *models.ValidationReport) {
	entries, err := os.ReadDir(filepath.Join(dir, TypesDir))
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == GitKeepFile {
			continue
		}
		if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
			continue
		}

		relPath := filepath.ToSlash(filepath.Join(TypesDir, name))
		raw, err := os.ReadFile(filepath.Join(dir, TypesDir, name))
		if err != nil {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Kind:        models.IssueInvalidFormat,
				Path:        relPath,
				Description: fmt.Sprintf("type definition %s is unreadable: %v", name, err),
			})
			continue
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Kind:        models.IssueInvalidFormat,
				Path:        relPath,
				Description: fmt.Sprintf("type definition %s is not valid YAML: %v", name, err),
			})
			continue
		}
		report.Stats.CustomTypeCount++
	}
}

// checkCredentialCount compares the count recorded in metadata.yml with
// the records actually present. Runs after checkCredentials so the
// stats counter is final.
func (v *repositoryValidator) checkCredentialCount(dir string, report *models.ValidationReport) {
	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return
	}
	var meta models.ArchiveMetadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return
	}

	if meta.CredentialCount != report.Stats.CredentialCount {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Kind:        models.IssueStructural,
			Path:        MetadataFile,
			AutoFixable: true,
			Description: fmt.Sprintf("metadata records %d credentials but %d were found", meta.CredentialCount, report.Stats.CredentialCount),
		})
	}
}

// fillStats computes the size and modification time of the tree.
func (v *repositoryValidator) fillStats(dir string, report *models.ValidationReport) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		report.Stats.TotalSizeBytes += info.Size()
		if info.ModTime().After(report.Stats.LastModified) {
			report.Stats.LastModified = info.ModTime()
		}
		return nil
	})
}

// finalize derives the report verdicts from the collected issues.
func finalize(report *models.ValidationReport) {
	report.IsValid = true
	report.CanAutoRepair = false
	for _, issue := range report.Issues {
		if issue.Blocking() {
			report.IsValid = false
		}
		if issue.Repairable() {
			report.CanAutoRepair = true
		}
	}
}
