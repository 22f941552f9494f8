package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Client defaults.
const (
	DefaultServerURL     = "http://localhost:8009"
	DefaultClientTimeout = 30 * time.Second
	sessionFileName      = "session"
)

// ClientConfig is the configuration of the command-line client. Values come
// from KEYMINDER_* environment variables and may be overridden by the
// command's persistent flags.
type ClientConfig struct {
	// ServerURL is the base URL of the KeyMinder API.
	// Env: KEYMINDER_SERVER
	ServerURL string `env:"SERVER"`

	// RequestTimeout is the timeout for outbound requests.
	// Env: KEYMINDER_TIMEOUT
	RequestTimeout time.Duration `env:"TIMEOUT"`

	// SessionFile is where the access token of the current login is kept.
	// Env: KEYMINDER_SESSION_FILE
	SessionFile string `env:"SESSION_FILE"`

	// HashKey signs request bodies with the HashSHA256 header when set.
	// Env: KEYMINDER_HASH_KEY
	HashKey string `env:"HASH_KEY"`
}

// clientEnv wraps ClientConfig so caarlos0/env applies the KEYMINDER_ prefix.
type clientEnv struct {
	Client ClientConfig `envPrefix:"KEYMINDER_"`
}

// GetClientConfig loads the client configuration from the environment and
// fills defaults. The result is validated by [ClientConfig.Validate] once
// flag overrides are applied.
func GetClientConfig() (*ClientConfig, error) {
	var envCfg clientEnv
	if err := parseEnv(&envCfg); err != nil {
		return nil, fmt.Errorf("error get client config: %w", err)
	}

	cfg := envCfg.Client
	setDefault(&cfg.ServerURL, DefaultServerURL)
	setDefault(&cfg.RequestTimeout, DefaultClientTimeout)
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	return &cfg, nil
}

// Validate checks the client configuration after all overrides.
func (cfg *ClientConfig) Validate() error {
	return cfg.validate()
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "keyminder", sessionFileName)
}
