package config

import "time"

// ClientConfig is the minimal configuration needed by the CLI client:
// where the daemon listens and how long to wait for a response.
type ClientConfig struct {
	// SocketPath is the Unix socket path of the daemon.
	// Env: CLIENT_SOCKET_PATH
	SocketPath string `env:"CLIENT_SOCKET_PATH"`

	// RequestTimeout bounds a single request/response exchange.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"CLIENT_REQUEST_TIMEOUT"`
}

// GetClientConfig loads the client configuration from environment
// variables, falling back to the same socket default the server uses and
// a 30 second request timeout.
func GetClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.SocketPath == "" {
		cfg.SocketPath = defaultSocketPath()
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	return cfg, cfg.validate()
}
