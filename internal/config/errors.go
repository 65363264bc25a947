package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates invalid transport settings
	// (for example, an empty socket path or non-positive connection cap).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidStorageConfigs indicates invalid archive storage settings
	// (for example, a negative backup count or zero lock timeout).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSessionConfigs indicates invalid session lifecycle settings
	// (for example, a zero inactivity timeout).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a non-positive minimum password length).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
