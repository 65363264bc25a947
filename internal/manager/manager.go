// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package manager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/archive"
	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/repository"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// openArchive is the in-memory state of the currently unlocked archive.
type openArchive struct {
	path     string
	password string
	scratch  string
	lock     *archive.FileLock
	records  map[string]models.CredentialRecord
	meta     models.ArchiveMetadata
	dirty    bool
}

// archiveManager is the production [ArchiveManager]. The RWMutex
// serializes mutations while reads proceed concurrently.
type archiveManager struct {
	mu   sync.RWMutex
	open *openArchive

	codec           archive.Codec
	repoValidator   repository.Validator
	recordValidator validators.Validator
	records         store.RecordStorage
	uuid            *utils.UUIDGenerator

	appCfg     config.App
	storageCfg config.Storage

	logs *logger.Logger
}

// NewArchiveManager wires the archive service layer.
func NewArchiveManager(
	codec archive.Codec,
	repoValidator repository.Validator,
	recordValidator validators.Validator,
	records store.RecordStorage,
	cfg config.StructuredConfig,
	logs *logger.Logger,
) ArchiveManager {
	return &archiveManager{
		codec:           codec,
		repoValidator:   repoValidator,
		recordValidator: recordValidator,
		records:         records,
		uuid:            utils.NewUUIDGenerator(),
		appCfg:          cfg.App,
		storageCfg:      cfg.Storage,
		logs:            logs,
	}
}

// Create implements [ArchiveManager].
func (m *archiveManager) Create(ctx context.Context, path, password string) error {
	if len(password) < m.appCfg.MinPasswordLength {
		return fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, m.appCfg.MinPasswordLength)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrArchiveExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat archive path: %w", err)
	}

	scratch, err := os.MkdirTemp("", "vault-create-*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := m.records.WriteRecords(ctx, scratch, nil); err != nil {
		return err
	}
	now := time.Now().UTC()
	meta := models.ArchiveMetadata{
		Version:      repository.CurrentVersion.String(),
		CreatedAt:    now,
		LastModified: now,
	}
	if err := m.records.WriteMetadata(ctx, scratch, meta); err != nil {
		return err
	}

	if err := m.codec.Pack(ctx, scratch, path, password); err != nil {
		return err
	}

	m.logs.Info().Str("path", path).Msg("archive created")
	return nil
}

// Open implements [ArchiveManager].
func (m *archiveManager) Open(ctx context.Context, path, password string) (int, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrArchiveNotFound, path)
	} else if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}

	// Reopening the archive that is already open would contend with
	// our own file lock until the timeout. Close it first, the way a
	// replace-open is meant to behave.
	m.mu.Lock()
	if m.open != nil && m.open.path == path {
		if err := m.closeLocked(ctx); err != nil {
			m.mu.Unlock()
			return 0, fmt.Errorf("close previous archive: %w", err)
		}
	}
	m.mu.Unlock()

	lock := archive.NewFileLock(path, m.storageCfg.FileLockTimeout)
	if err := lock.Acquire(ctx); err != nil {
		return 0, err
	}

	opened, err := m.unlock(ctx, path, password, lock)
	if err != nil {
		lock.Release()
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open != nil {
		if err := m.closeLocked(ctx); err != nil {
			lock.Release()
			os.RemoveAll(opened.scratch)
			return 0, fmt.Errorf("close previous archive: %w", err)
		}
	}
	m.open = opened

	m.logs.Info().
		Str("path", path).
		Int("credentials", len(opened.records)).
		Msg("archive opened")

	return len(opened.records), nil
}

// unlock decrypts, validates, repairs and loads the archive at path
// into a fresh openArchive. The caller owns the file lock.
func (m *archiveManager) unlock(ctx context.Context, path, password string, lock *archive.FileLock) (*openArchive, error) {
	scratch, err := os.MkdirTemp("", "vault-open-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	fail := func(err error) (*openArchive, error) {
		os.RemoveAll(scratch)
		return nil, err
	}

	if err := m.codec.Unpack(ctx, path, scratch, password); err != nil {
		return fail(err)
	}

	report, err := m.repoValidator.Validate(scratch)
	if err != nil {
		return fail(err)
	}
	repaired := false
	if !report.IsValid || report.CanAutoRepair {
		if !report.CanAutoRepair && !report.IsValid {
			return fail(fmt.Errorf("%w: %d issues", ErrCorruptedArchive, len(report.Issues)))
		}
		report, err = m.repoValidator.AutoRepair(scratch)
		if err != nil {
			return fail(err)
		}
		if !report.IsValid {
			return fail(fmt.Errorf("%w: %d issues remain after repair", ErrCorruptedArchive, len(report.Issues)))
		}
		repaired = true
		m.logs.Warn().Str("path", path).Msg("repository repaired on open")
	}

	// Persist repairs immediately so a crash before the first save
	// does not resurrect the broken layout.
	if repaired {
		if err := m.codec.Pack(ctx, scratch, path, password); err != nil {
			return fail(fmt.Errorf("repack after repair: %w", err))
		}
	}

	records, err := m.records.LoadRecords(ctx, scratch)
	if err != nil {
		return fail(err)
	}
	meta, err := m.records.ReadMetadata(ctx, scratch)
	if err != nil {
		return fail(err)
	}

	return &openArchive{
		path:     path,
		password: password,
		scratch:  scratch,
		lock:     lock,
		records:  records,
		meta:     meta,
	}, nil
}

// Close implements [ArchiveManager].
func (m *archiveManager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(ctx)
}

// closeLocked saves when dirty, releases the lock and removes the
// scratch directory. Caller holds the write lock.
func (m *archiveManager) closeLocked(ctx context.Context) error {
	if m.open == nil {
		return nil
	}

	if m.open.dirty {
		if err := m.saveLocked(ctx); err != nil {
			return err
		}
	}

	if err := m.open.lock.Release(); err != nil {
		m.logs.Warn().Err(err).Msg("failed to release archive lock")
	}
	if err := os.RemoveAll(m.open.scratch); err != nil {
		m.logs.Warn().Err(err).Str("dir", m.open.scratch).Msg("failed to remove scratch directory")
	}

	m.logs.Info().Str("path", m.open.path).Msg("archive closed")
	m.open = nil
	return nil
}

// Save implements [ArchiveManager].
func (m *archiveManager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open == nil {
		return ErrArchiveNotOpen
	}
	if !m.open.dirty {
		return nil
	}
	return m.saveLocked(ctx)
}

// saveLocked persists in-memory state to the archive file. Caller
// holds the write lock and guarantees an open archive.
func (m *archiveManager) saveLocked(ctx context.Context) error {
	arch := m.open

	// Backup failures never block the save itself.
	if err := m.backupArchive(arch.path); err != nil {
		m.logs.Warn().Err(err).Str("path", arch.path).Msg("archive backup failed")
	}

	if err := m.records.WriteRecords(ctx, arch.scratch, arch.records); err != nil {
		return err
	}

	arch.meta.Version = repository.CurrentVersion.String()
	arch.meta.LastModified = time.Now().UTC()
	arch.meta.CredentialCount = len(arch.records)
	if arch.meta.CreatedAt.IsZero() {
		arch.meta.CreatedAt = arch.meta.LastModified
	}
	if err := m.records.WriteMetadata(ctx, arch.scratch, arch.meta); err != nil {
		return err
	}

	if err := m.codec.Pack(ctx, arch.scratch, arch.path, arch.password); err != nil {
		return err
	}

	arch.dirty = false
	m.logs.Info().
		Str("path", arch.path).
		Int("credentials", len(arch.records)).
		Msg("archive saved")
	return nil
}

// Status implements [ArchiveManager].
func (m *archiveManager) Status(_ context.Context) models.StatusData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.open == nil {
		return models.StatusData{IsLocked: true}
	}
	return models.StatusData{
		IsLocked:        false,
		ArchivePath:     m.open.path,
		CredentialCount: len(m.open.records),
	}
}

// ArchiveInfo implements [ArchiveManager].
func (m *archiveManager) ArchiveInfo(_ context.Context) (models.ArchiveInfoData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.open == nil {
		return models.ArchiveInfoData{}, ErrArchiveNotOpen
	}
	return models.ArchiveInfoData{
		Path:            m.open.path,
		CredentialCount: len(m.open.records),
		CreatedAt:       m.open.meta.CreatedAt,
		LastModified:    m.open.meta.LastModified,
	}, nil
}

// Inspect implements [ArchiveManager].
func (m *archiveManager) Inspect(_ context.Context, path string) (models.RepositoryValidatedData, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.RepositoryValidatedData{}, fmt.Errorf("%w: %s", ErrArchiveNotFound, path)
	}
	if err != nil {
		return models.RepositoryValidatedData{}, fmt.Errorf("stat archive: %w", err)
	}

	data := models.RepositoryValidatedData{
		Path:         path,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime().UTC(),
		DisplayName:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	switch err := m.codec.Sniff(path); {
	case err == nil:
		data.IsValidFormat = true
	case errors.Is(err, archive.ErrInvalidFormat):
		data.IsValidFormat = false
	default:
		return models.RepositoryValidatedData{}, err
	}
	return data, nil
}

// List implements [ArchiveManager].
func (m *archiveManager) List(_ context.Context, includeSensitive bool) ([]models.CredentialRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.open == nil {
		return nil, ErrArchiveNotOpen
	}

	out := make([]models.CredentialRecord, 0, len(m.open.records))
	for _, record := range m.open.records {
		if includeSensitive {
			out = append(out, record)
		} else {
			out = append(out, record.Sanitized())
		}
	}
	sortRecords(out)
	return out, nil
}

// Get implements [ArchiveManager].
func (m *archiveManager) Get(_ context.Context, id string) (models.CredentialRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.open == nil {
		return models.CredentialRecord{}, ErrArchiveNotOpen
	}
	record, ok := m.open.records[id]
	if !ok {
		return models.CredentialRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return record, nil
}

// Add implements [ArchiveManager].
func (m *archiveManager) Add(ctx context.Context, record models.CredentialRecord) (models.CredentialRecord, error) {
	if err := m.recordValidator.Validate(ctx, record); err != nil {
		return models.CredentialRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open == nil {
		return models.CredentialRecord{}, ErrArchiveNotOpen
	}

	if record.ID == "" {
		record.ID = m.uuid.Generate()
	} else if _, exists := m.open.records[record.ID]; exists {
		return models.CredentialRecord{}, fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	m.open.records[record.ID] = record
	m.open.dirty = true

	m.logs.Debug().Str("id", record.ID).Msg("credential added")
	return record, nil
}

// Update implements [ArchiveManager].
func (m *archiveManager) Update(ctx context.Context, id string, record models.CredentialRecord) (models.CredentialRecord, error) {
	if err := m.recordValidator.Validate(ctx, record); err != nil {
		return models.CredentialRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open == nil {
		return models.CredentialRecord{}, ErrArchiveNotOpen
	}
	existing, ok := m.open.records[id]
	if !ok {
		return models.CredentialRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	record.ID = id
	record.CreatedAt = existing.CreatedAt

	// UpdatedAt must grow strictly even when the clock did not move
	// between two mutations.
	now := time.Now().UTC()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Nanosecond)
	}
	record.UpdatedAt = now

	m.open.records[id] = record
	m.open.dirty = true

	m.logs.Debug().Str("id", id).Msg("credential updated")
	return record, nil
}

// Delete implements [ArchiveManager].
func (m *archiveManager) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open == nil {
		return ErrArchiveNotOpen
	}
	if _, ok := m.open.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	delete(m.open.records, id)
	m.open.dirty = true

	m.logs.Debug().Str("id", id).Msg("credential deleted")
	return nil
}

// Search implements [ArchiveManager].
func (m *archiveManager) Search(ctx context.Context, query string) ([]models.CredentialRecord, error) {
	if err := m.recordValidator.Validate(ctx, models.SearchPayload{Query: query}); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.open == nil {
		return nil, ErrArchiveNotOpen
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.CredentialRecord, 0)
	for _, record := range m.open.records {
		if matchesQuery(record, needle) {
			out = append(out, record.Sanitized())
		}
	}
	sortRecords(out)
	return out, nil
}

// matchesQuery checks the record's searchable surface. Sensitive field
// values are deliberately never inspected.
func matchesQuery(record models.CredentialRecord, needle string) bool {
	if strings.Contains(strings.ToLower(record.Title), needle) ||
		strings.Contains(strings.ToLower(record.CredentialType), needle) ||
		strings.Contains(strings.ToLower(record.Notes), needle) {
		return true
	}
	for _, tag := range record.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, field := range record.Fields {
		if field.Sensitive {
			continue
		}
		if strings.Contains(strings.ToLower(field.Value), needle) {
			return true
		}
	}
	return false
}

// sortRecords orders by title, then id for identical titles.
func sortRecords(records []models.CredentialRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Title != records[j].Title {
			return records[i].Title < records[j].Title
		}
		return records[i].ID < records[j].ID
	})
}
