package config

import (
	"os"
	"path/filepath"
)

// defaultSocketPath resolves the default Unix socket location: the user
// runtime directory when available, the system temp directory otherwise.
func defaultSocketPath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "go-vault-keeper", "vault.sock")
	}
	return filepath.Join(os.TempDir(), "go-vault-keeper", "vault.sock")
}
