// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-vault-keeper daemon. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the software version
	// and master password policy.
	App App `envPrefix:"APP_"`

	// Storage holds archive, backup, and file-locking settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the local socket transport settings.
	Server Server `envPrefix:"SERVER_"`

	// Session holds the client session lifecycle settings.
	Session Session `envPrefix:"SESSION_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Reported in ping responses.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// MinPasswordLength is the minimum accepted length for a master
	// password when creating an archive.
	// Env: APP_MIN_PASSWORD_LENGTH
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH"`
}

// Storage holds archive persistence and safety settings.
type Storage struct {
	// BackupDir is the directory where timestamped archive backups are
	// written before each save. When empty, backups are written next to
	// the archive file.
	// Env: STORAGE_BACKUP_DIR
	BackupDir string `env:"BACKUP_DIR"`

	// BackupCount is the number of most-recent backups retained per
	// archive. Zero disables backups entirely.
	// Env: STORAGE_BACKUP_COUNT
	BackupCount int `env:"BACKUP_COUNT"`

	// FileLockTimeout bounds how long opening an archive may wait to
	// acquire the advisory file lock before failing with a lock error.
	// Env: STORAGE_FILE_LOCK_TIMEOUT
	FileLockTimeout time.Duration `env:"FILE_LOCK_TIMEOUT"`
}

// Server holds the inbound transport settings.
type Server struct {
	// SocketPath is the filesystem path of the Unix domain socket the
	// daemon listens on. The socket file is created with 0600
	// permissions so only the owning user can connect.
	// Env: SERVER_SOCKET_PATH
	SocketPath string `env:"SOCKET_PATH"`

	// MaxConnections caps the number of concurrently served client
	// connections; connections beyond the cap are rejected, not queued.
	// Env: SERVER_MAX_CONNECTIONS
	MaxConnections int `env:"MAX_CONNECTIONS"`
}

// Session holds client session lifecycle settings.
type Session struct {
	// Timeout is the inactivity window after which a session expires.
	// Env: SESSION_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// SweepInterval is how often the background sweeper scans the
	// session table for expired entries.
	// Env: SESSION_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`
}

// Defaults returns the built-in fallback configuration. It is merged in
// last, so it only fills fields no other source has set.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version:           "1.0.0",
			MinPasswordLength: 8,
		},
		Storage: Storage{
			BackupCount:     3,
			FileLockTimeout: 30 * time.Second,
		},
		Server: Server{
			SocketPath:     defaultSocketPath(),
			MaxConnections: 100,
		},
		Session: Session{
			Timeout:       time.Hour,
			SweepInterval: 5 * time.Minute,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
