package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-s/-socket socket path the daemon listens on
//	-c/-config json file path with configs
//	-backup-dir directory for timestamped archive backups
//	-backup-count number of retained backups per archive
//	-lock-timeout file lock acquisition timeout (e.g., "30s")
//	-session-timeout session inactivity timeout (e.g., "1h")
//	-sweep-interval session sweep interval (e.g., "5m")
//	-max-connections concurrent client connection ceiling
//	-min-password-length minimum master password length
func ParseFlags() *StructuredConfig {
	var socketPath string
	var jsonConfigPath string
	var backupDir string
	var backupCount int
	var lockTimeout time.Duration
	var sessionTimeout time.Duration
	var sweepInterval time.Duration
	var maxConnections int
	var minPasswordLength int

	flag.StringVar(&socketPath, "s", "", "Unix socket path")
	flag.StringVar(&socketPath, "socket", "", "Unix socket path (alias)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&backupDir, "backup-dir", "", "Backup directory")
	flag.IntVar(&backupCount, "backup-count", 0, "Number of retained backups per archive")
	flag.DurationVar(&lockTimeout, "lock-timeout", 0, "File lock timeout (e.g., 30s)")
	flag.DurationVar(&sessionTimeout, "session-timeout", 0, "Session inactivity timeout (e.g., 1h)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Session sweep interval (e.g., 5m)")
	flag.IntVar(&maxConnections, "max-connections", 0, "Maximum concurrent client connections")
	flag.IntVar(&minPasswordLength, "min-password-length", 0, "Minimum master password length")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			MinPasswordLength: minPasswordLength,
		},
		Storage: Storage{
			BackupDir:       backupDir,
			BackupCount:     backupCount,
			FileLockTimeout: lockTimeout,
		},
		Server: Server{
			SocketPath:     socketPath,
			MaxConnections: maxConnections,
		},
		Session: Session{
			Timeout:       sessionTimeout,
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
