package manager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// backupTimestampLayout names backups down to the second:
// vault_20260830121500.gvk.
const backupTimestampLayout = "20060102150405"

// backupArchive copies the current archive file into the backup
// directory under a timestamped name, then prunes old backups down to
// the configured retention count. A retention count of zero disables
// backups entirely.
func (m *archiveManager) backupArchive(path string) error {
	if m.storageCfg.BackupCount <= 0 {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		// Nothing to back up before the first save.
		return nil
	}

	dir := m.storageCfg.BackupDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	stem, ext := splitArchiveName(path)
	name := fmt.Sprintf("%s_%s%s", stem, time.Now().UTC().Format(backupTimestampLayout), ext)
	// Two saves inside the same second must not clobber each other.
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, name)); errors.Is(err, fs.ErrNotExist) {
			break
		}
		name = fmt.Sprintf("%s_%s_%d%s", stem, time.Now().UTC().Format(backupTimestampLayout), i, ext)
	}
	if err := copyFile(path, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("copy backup: %w", err)
	}

	m.logs.Debug().Str("backup", name).Msg("archive backup written")
	return m.pruneBackups(dir, stem, ext)
}

// pruneBackups keeps the newest BackupCount backups of the archive,
// ordered by modification time, and removes the rest.
func (m *archiveManager) pruneBackups(dir, stem, ext string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type backup struct {
		name    string
		modTime time.Time
	}
	var backups []backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, stem+"_") || !strings.HasSuffix(name, ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{name: name, modTime: info.ModTime()})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	for _, old := range backups[min(len(backups), m.storageCfg.BackupCount):] {
		if err := os.Remove(filepath.Join(dir, old.name)); err != nil {
			m.logs.Warn().Err(err).Str("backup", old.name).Msg("failed to prune old backup")
		} else {
			m.logs.Debug().Str("backup", old.name).Msg("old backup pruned")
		}
	}
	return nil
}

// splitArchiveName separates "vault.gvk" into "vault" and ".gvk".
func splitArchiveName(path string) (stem, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
