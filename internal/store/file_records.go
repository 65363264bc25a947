package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/repository"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// fileRecordStorage is the default implementation of [RecordStorage].
// One YAML document per record, laid out per repository format v1.
type fileRecordStorage struct {
	logs *logger.Logger
}

// NewFileRecordStorage constructs a [RecordStorage] over the local
// filesystem.
func NewFileRecordStorage(logs *logger.Logger) RecordStorage {
	return &fileRecordStorage{logs: logs}
}

// LoadRecords implements [RecordStorage].
func (s *fileRecordStorage) LoadRecords(ctx context.Context, dir string) (map[string]models.CredentialRecord, error) {
	credDir := filepath.Join(dir, repository.CredentialsDir)
	entries, err := os.ReadDir(credDir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]models.CredentialRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials directory: %w", err)
	}

	records := make(map[string]models.CredentialRecord, len(entries))

	// Legacy flat files first so record directories win on collision.
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !isYAMLFile(name) {
			continue
		}

		id := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		record, err := s.readRecordFile(filepath.Join(credDir, name), id)
		if err != nil {
			return nil, err
		}
		records[record.ID] = record
		s.logs.Debug().Str("id", record.ID).Msg("loaded legacy flat credential file")
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		record, err := s.readRecordFile(filepath.Join(credDir, id, repository.RecordFile), id)
		if err != nil {
			return nil, err
		}
		if record.ID != id {
			return nil, fmt.Errorf("%w: directory %s holds record %s", ErrRecordIDMismatch, id, record.ID)
		}
		records[record.ID] = record
	}

	return records, nil
}

// readRecordFile parses one record document. fallbackID fills the ID
// field for legacy files that omit it.
func (s *fileRecordStorage) readRecordFile(path, fallbackID string) (models.CredentialRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.CredentialRecord{}, fmt.Errorf("read record %s: %w", path, err)
	}

	var record models.CredentialRecord
	if err := yaml.Unmarshal(raw, &record); err != nil {
		return models.CredentialRecord{}, fmt.Errorf("%w: %s: %v", ErrRecordDecode, path, err)
	}
	if record.ID == "" {
		record.ID = fallbackID
	}
	return record, nil
}

// WriteRecords implements [RecordStorage].
func (s *fileRecordStorage) WriteRecords(ctx context.Context, dir string, records map[string]models.CredentialRecord) error {
	credDir := filepath.Join(dir, repository.CredentialsDir)
	if err := os.MkdirAll(credDir, 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	// Drop entries whose id is no longer in the record set. Placeholder
	// files stay so the directory survives empty.
	entries, err := os.ReadDir(credDir)
	if err != nil {
		return fmt.Errorf("read credentials directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == repository.GitKeepFile {
			continue
		}

		stale := false
		switch {
		case entry.IsDir():
			_, stale = records[name]
			stale = !stale
		case isYAMLFile(name):
			// Flat files are always rewritten into the v1 layout.
			stale = true
		}
		if stale {
			if err := os.RemoveAll(filepath.Join(credDir, name)); err != nil {
				return fmt.Errorf("remove stale entry %s: %w", name, err)
			}
		}
	}

	for id, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		recordDir := filepath.Join(credDir, id)
		if err := os.MkdirAll(recordDir, 0o700); err != nil {
			return fmt.Errorf("create record directory %s: %w", id, err)
		}

		out, err := yaml.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", id, err)
		}
		if err := os.WriteFile(filepath.Join(recordDir, repository.RecordFile), out, 0o600); err != nil {
			return fmt.Errorf("write record %s: %w", id, err)
		}
	}

	if err := os.WriteFile(filepath.Join(credDir, repository.GitKeepFile), nil, 0o600); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}

	typesDir := filepath.Join(dir, repository.TypesDir)
	if err := os.MkdirAll(typesDir, 0o700); err != nil {
		return fmt.Errorf("create types directory: %w", err)
	}
	return ensurePlaceholder(typesDir)
}

// ReadMetadata implements [RecordStorage].
func (s *fileRecordStorage) ReadMetadata(_ context.Context, dir string) (models.ArchiveMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(dir, repository.MetadataFile))
	if err != nil {
		return models.ArchiveMetadata{}, fmt.Errorf("read metadata: %w", err)
	}

	var meta models.ArchiveMetadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return models.ArchiveMetadata{}, fmt.Errorf("%w: %v", ErrMetadataDecode, err)
	}
	return meta, nil
}

// WriteMetadata implements [RecordStorage].
func (s *fileRecordStorage) WriteMetadata(_ context.Context, dir string, meta models.ArchiveMetadata) error {
	out, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, repository.MetadataFile), out, 0o600); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// ensurePlaceholder creates .gitkeep in dir only when the directory is
// otherwise empty.
func ensurePlaceholder(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() != repository.GitKeepFile {
			return nil
		}
	}
	return os.WriteFile(filepath.Join(dir, repository.GitKeepFile), nil, 0o600)
}

func isYAMLFile(name string) bool {
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}
