package main

import (
	"os"
	"path/filepath"
	"strings"
)

// sessionFilePath resolves where the CLI persists the daemon session ID
// between invocations.
func sessionFilePath() string {
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, "go-vault-keeper", "session")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "go-vault-keeper", "session")
	}
	return filepath.Join(home, ".local", "state", "go-vault-keeper", "session")
}

func loadSessionID() string {
	raw, err := os.ReadFile(sessionFilePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func saveSessionID(sessionID string) error {
	path := sessionFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sessionID+"\n"), 0o600)
}
