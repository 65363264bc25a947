package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	App struct {
		Version           string `json:"version"`
		MinPasswordLength int    `json:"min_password_length"`
	} `json:"app,omitempty"`

	Storage struct {
		BackupDir       string   `json:"backup_dir"`
		BackupCount     int      `json:"backup_count"`
		FileLockTimeout Duration `json:"file_lock_timeout"`
	} `json:"storage,omitempty"`

	Server struct {
		SocketPath     string `json:"socket_path"`
		MaxConnections int    `json:"max_connections"`
	} `json:"server,omitempty"`

	Session struct {
		Timeout       Duration `json:"timeout"`
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"session,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:           jsonCfg.App.Version,
			MinPasswordLength: jsonCfg.App.MinPasswordLength,
		},
		Storage: Storage{
			BackupDir:       jsonCfg.Storage.BackupDir,
			BackupCount:     jsonCfg.Storage.BackupCount,
			FileLockTimeout: time.Duration(jsonCfg.Storage.FileLockTimeout),
		},
		Server: Server{
			SocketPath:     jsonCfg.Server.SocketPath,
			MaxConnections: jsonCfg.Server.MaxConnections,
		},
		Session: Session{
			Timeout:       time.Duration(jsonCfg.Session.Timeout),
			SweepInterval: time.Duration(jsonCfg.Session.SweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
