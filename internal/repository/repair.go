package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// AutoRepair implements [Validator].
func (v *repositoryValidator) AutoRepair(dir string) (*models.ValidationReport, error) {
	report, err := v.Validate(dir)
	if err != nil {
		return nil, err
	}
	if !report.CanAutoRepair {
		return report, nil
	}

	for _, issue := range report.Issues {
		if !issue.Repairable() {
			continue
		}

		switch issue.Kind {
		case models.IssueMissingRequired:
			err = v.repairMissing(dir, issue)
		case models.IssueLegacyFormat:
			if issue.Path != MetadataFile {
				err = v.migrateFlatRecord(dir, issue)
			}
			// The metadata version itself is rewritten below.
		case models.IssueStructural:
			// Count mismatch; fixed by the metadata rewrite below.
		}
		if err != nil {
			return nil, fmt.Errorf("repair %s: %w", issue.Path, err)
		}

		v.logs.Info().
			Str("kind", string(issue.Kind)).
			Str("path", issue.Path).
			Msg("repaired repository issue")
	}

	if err := v.rewriteMetadata(dir); err != nil {
		return nil, fmt.Errorf("rewrite metadata: %w", err)
	}

	return v.Validate(dir)
}

// repairMissing creates an absent required file or directory.
func (v *repositoryValidator) repairMissing(dir string, issue models.ValidationIssue) error {
	switch issue.Path {
	case MetadataFile:
		// Created by rewriteMetadata after all structural fixes.
		return nil
	case CredentialsDir, TypesDir:
		target := filepath.Join(dir, issue.Path)
		if err := os.MkdirAll(target, 0o700); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(target, GitKeepFile), nil, 0o600)
	default:
		return fmt.Errorf("do not know how to create %s", issue.Path)
	}
}

// migrateFlatRecord moves a legacy credentials/<id>.yml file into the
// v1 layout credentials/<id>/record.yml. When a record directory for
// the same id already exists, the directory wins and the flat file is
// kept alongside as record.legacy.yml so no content is lost.
func (v *repositoryValidator) migrateFlatRecord(dir string, issue models.ValidationIssue) error {
	src := filepath.Join(dir, filepath.FromSlash(issue.Path))
	recordDir := filepath.Join(dir, CredentialsDir, issue.CredentialID)

	target := filepath.Join(recordDir, RecordFile)
	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(recordDir, LegacyRecordFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(recordDir, 0o700); err != nil {
		return err
	}
	return os.Rename(src, target)
}

// rewriteMetadata regenerates metadata.yml with the current format
// version and a recomputed credential count. CreatedAt survives from
// the old metadata when it is readable.
func (v *repositoryValidator) rewriteMetadata(dir string) error {
	meta := models.ArchiveMetadata{
		Version:      CurrentVersion.String(),
		CreatedAt:    time.Now().UTC(),
		LastModified: time.Now().UTC(),
	}

	if raw, err := os.ReadFile(filepath.Join(dir, MetadataFile)); err == nil {
		var old models.ArchiveMetadata
		if yaml.Unmarshal(raw, &old) == nil && !old.CreatedAt.IsZero() {
			meta.CreatedAt = old.CreatedAt
		}
	}

	count, err := countRecords(dir)
	if err != nil {
		return err
	}
	meta.CredentialCount = count

	out, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetadataFile), out, 0o600)
}

// countRecords counts v1 record directories plus any not-yet-migrated
// flat files under credentials/.
func countRecords(dir string) (int, error) {
	entries, err := os.ReadDir(filepath.Join(dir, CredentialsDir))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			if _, err := os.Stat(filepath.Join(dir, CredentialsDir, name, RecordFile)); err == nil {
				count++
			}
		case strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml"):
			count++
		}
	}
	return count, nil
}
