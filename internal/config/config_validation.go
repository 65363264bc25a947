// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.SocketPath == "" || cfg.Server.MaxConnections < 1 {
		return ErrInvalidServerConfigs
	}

	if cfg.Storage.BackupCount < 0 || cfg.Storage.FileLockTimeout <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.Session.Timeout <= 0 || cfg.Session.SweepInterval <= 0 {
		return ErrInvalidSessionConfigs
	}

	if cfg.App.MinPasswordLength < 1 {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.SocketPath == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
