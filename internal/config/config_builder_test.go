package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_DefaultsOnly verifies that defaults alone produce a valid config.
func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Server.SocketPath)
	assert.Equal(t, 100, cfg.Server.MaxConnections)
	assert.Equal(t, 8, cfg.App.MinPasswordLength)
	assert.Equal(t, time.Hour, cfg.Session.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, 3, cfg.Storage.BackupCount)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result, earlier sources winning.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Server: Server{SocketPath: "/run/vault.sock"}},
		&StructuredConfig{Server: Server{SocketPath: "/ignored.sock", MaxConnections: 50}},
	)
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "/run/vault.sock", cfg.Server.SocketPath)
	assert.Equal(t, 50, cfg.Server.MaxConnections)
}

// TestBuild_ValidationFailure verifies that an invalid merged config is
// rejected.
func TestBuild_ValidationFailure(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Server:  Server{SocketPath: "", MaxConnections: 10},
		Storage: Storage{FileLockTimeout: time.Second},
		Session: Session{Timeout: time.Hour, SweepInterval: time.Minute},
		App:     App{MinPasswordLength: 8},
	})

	_, err := b.build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidServerConfigs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_MergesFileValues verifies that a JSON file referenced by an
// earlier source is loaded and merged.
func TestWithJSON_MergesFileValues(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"server": map[string]any{
			"socket_path":     "/run/from-json.sock",
			"max_connections": 7,
		},
		"session": map[string]any{
			"timeout":        "2h",
			"sweep_interval": "1m",
		},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	cfg, err := b.withJSON().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "/run/from-json.sock", cfg.Server.SocketPath)
	assert.Equal(t, 7, cfg.Server.MaxConnections)
	assert.Equal(t, 2*time.Hour, cfg.Session.Timeout)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
}

// TestWithJSON_MissingFile verifies that a nonexistent JSON path surfaces
// as a builder error.
func TestWithJSON_MissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/no/such/config.json"})

	_, err := b.withJSON().withDefaults().build()
	require.Error(t, err)
}

// TestWithJSON_NotSpecified verifies that no JSON source is added when no
// earlier source names a file.
func TestWithJSON_NotSpecified(t *testing.T) {
	cfg, err := newConfigBuilder().withJSON().withDefaults().build()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Server.SocketPath)
}
