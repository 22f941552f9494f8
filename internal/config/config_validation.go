// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// minKDFIterations is the lowest PBKDF2 work factor a deployment may choose.
const minKDFIterations = 1000

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.MinPasswordScore < 0 || cfg.App.MinPasswordScore > 4 {
		return fmt.Errorf("%w: min password score must be within 0..4", ErrInvalidAppConfigs)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.App.LogLevel)); err != nil {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidAppConfigs, cfg.App.LogLevel)
	}

	switch cfg.Crypto.KeyMode {
	case "direct", "master":
	default:
		return fmt.Errorf("%w: unknown key mode %q", ErrInvalidCryptoConfigs, cfg.Crypto.KeyMode)
	}
	switch strings.ToLower(cfg.Crypto.Cipher) {
	case "gcm", "cbc", "legacy":
	default:
		return fmt.Errorf("%w: unknown cipher %q", ErrInvalidCryptoConfigs, cfg.Crypto.Cipher)
	}
	if cfg.Crypto.KDFIterations < minKDFIterations || cfg.Crypto.LegacyKDFIterations < 1 {
		return fmt.Errorf("%w: kdf iterations must be at least %d", ErrInvalidCryptoConfigs, minKDFIterations)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}

	if cfg.Workers.SessionSweepInterval <= 0 || cfg.Workers.HealthProbeInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("%w: server url is required", ErrInvalidAdapterConfigs)
	}
	if u, err := url.Parse(cfg.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server url must be absolute", ErrInvalidAdapterConfigs)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs)
	}
	if cfg.SessionFile == "" {
		return fmt.Errorf("%w: session file is required", ErrInvalidStorageConfigs)
	}

	return nil
}
