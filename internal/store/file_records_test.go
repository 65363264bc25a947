package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/repository"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func newTestStorage() RecordStorage {
	return NewFileRecordStorage(logger.Nop())
}

func newRecord(id, title string) models.CredentialRecord {
	record := models.NewCredentialRecord(title, "login")
	record.ID = id
	return record
}

func TestFileRecordStorage_WriteLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage()
	dir := t.TempDir()

	record := newRecord("id-1", "GitHub")
	record.SetField("username", models.UsernameField("octocat"))
	record.SetField("password", models.PasswordField("hunter2"))
	record.Tags = []string{"work"}
	record.Notes = "main account"

	require.NoError(t, s.WriteRecords(ctx, dir, map[string]models.CredentialRecord{"id-1": record}))

	loaded, err := s.LoadRecords(ctx, dir)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded["id-1"]
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.Tags, got.Tags)
	assert.Equal(t, record.Notes, got.Notes)
	assert.Equal(t, "hunter2", got.Fields["password"].Value)
	assert.True(t, got.Fields["password"].Sensitive)
}

func TestFileRecordStorage_LoadRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage()

	t.Run("empty repository", func(t *testing.T) {
		loaded, err := s.LoadRecords(ctx, t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("legacy flat file", func(t *testing.T) {
		dir := t.TempDir()
		credDir := filepath.Join(dir, repository.CredentialsDir)
		require.NoError(t, os.MkdirAll(credDir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(credDir, "old-id.yml"),
			[]byte("title: Old Entry\ntype: login\n"), 0o600))

		loaded, err := s.LoadRecords(ctx, dir)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "old-id", loaded["old-id"].ID, "id falls back to the file name")
		assert.Equal(t, "Old Entry", loaded["old-id"].Title)
	})

	t.Run("directory wins over flat file with same id", func(t *testing.T) {
		dir := t.TempDir()
		credDir := filepath.Join(dir, repository.CredentialsDir)
		require.NoError(t, os.MkdirAll(filepath.Join(credDir, "dup"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(credDir, "dup.yml"),
			[]byte("id: dup\ntitle: Flat Copy\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(credDir, "dup", repository.RecordFile),
			[]byte("id: dup\ntitle: Directory Copy\n"), 0o600))

		loaded, err := s.LoadRecords(ctx, dir)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "Directory Copy", loaded["dup"].Title)
	})

	t.Run("preserved legacy copy is ignored", func(t *testing.T) {
		dir := t.TempDir()
		recordDir := filepath.Join(dir, repository.CredentialsDir, "kept")
		require.NoError(t, os.MkdirAll(recordDir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(recordDir, repository.RecordFile),
			[]byte("id: kept\ntitle: Current\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(recordDir, repository.LegacyRecordFile),
			[]byte("id: kept\ntitle: Ancient\n"), 0o600))

		loaded, err := s.LoadRecords(ctx, dir)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "Current", loaded["kept"].Title)
	})

	t.Run("id mismatch", func(t *testing.T) {
		dir := t.TempDir()
		recordDir := filepath.Join(dir, repository.CredentialsDir, "dir-id")
		require.NoError(t, os.MkdirAll(recordDir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(recordDir, repository.RecordFile),
			[]byte("id: other-id\ntitle: X\n"), 0o600))

		_, err := s.LoadRecords(ctx, dir)
		assert.ErrorIs(t, err, ErrRecordIDMismatch)
	})

	t.Run("broken record yaml", func(t *testing.T) {
		dir := t.TempDir()
		recordDir := filepath.Join(dir, repository.CredentialsDir, "broken")
		require.NoError(t, os.MkdirAll(recordDir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(recordDir, repository.RecordFile),
			[]byte("][ nope"), 0o600))

		_, err := s.LoadRecords(ctx, dir)
		assert.ErrorIs(t, err, ErrRecordDecode)
	})
}

func TestFileRecordStorage_WriteRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage()

	t.Run("removes stale entries", func(t *testing.T) {
		dir := t.TempDir()
		first := map[string]models.CredentialRecord{
			"a": newRecord("a", "A"),
			"b": newRecord("b", "B"),
		}
		require.NoError(t, s.WriteRecords(ctx, dir, first))

		second := map[string]models.CredentialRecord{
			"a": newRecord("a", "A2"),
		}
		require.NoError(t, s.WriteRecords(ctx, dir, second))

		loaded, err := s.LoadRecords(ctx, dir)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "A2", loaded["a"].Title)

		_, err = os.Stat(filepath.Join(dir, repository.CredentialsDir, "b"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rewrites legacy flat files into v1 layout", func(t *testing.T) {
		dir := t.TempDir()
		credDir := filepath.Join(dir, repository.CredentialsDir)
		require.NoError(t, os.MkdirAll(credDir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(credDir, "old.yml"),
			[]byte("id: old\ntitle: Old\n"), 0o600))

		records, err := s.LoadRecords(ctx, dir)
		require.NoError(t, err)
		require.NoError(t, s.WriteRecords(ctx, dir, records))

		_, err = os.Stat(filepath.Join(credDir, "old.yml"))
		assert.True(t, os.IsNotExist(err), "flat file replaced by record directory")
		_, err = os.Stat(filepath.Join(credDir, "old", repository.RecordFile))
		assert.NoError(t, err)
	})

	t.Run("empty set keeps placeholders", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, s.WriteRecords(ctx, dir, nil))

		_, err := os.Stat(filepath.Join(dir, repository.CredentialsDir, repository.GitKeepFile))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, repository.TypesDir, repository.GitKeepFile))
		assert.NoError(t, err)
	})
}

func TestFileRecordStorage_Metadata(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage()
	dir := t.TempDir()

	meta := models.ArchiveMetadata{
		Version:         "1.0.0",
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		LastModified:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		CredentialCount: 7,
	}
	require.NoError(t, s.WriteMetadata(ctx, dir, meta))

	got, err := s.ReadMetadata(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	t.Run("broken metadata", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, repository.MetadataFile), []byte("{{"), 0o600))
		_, err := s.ReadMetadata(ctx, dir)
		assert.ErrorIs(t, err, ErrMetadataDecode)
	})
}
