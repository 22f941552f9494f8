package config

import "time"

// Defaults applied to fields left empty by every source.
const (
	DefaultHTTPAddress          = "0.0.0.0:8009"
	DefaultTokenIssuer          = "keyminder"
	DefaultTokenDuration        = 24 * time.Hour
	DefaultVersion              = "dev"
	DefaultLogLevel             = "info"
	DefaultKeyMode              = "master"
	DefaultKDFIterations        = 600000
	DefaultLegacyKDFIterations  = 10000
	DefaultCipher               = "gcm"
	DefaultRequestTimeout       = 30 * time.Second
	DefaultSessionSweepInterval = time.Minute
	DefaultHealthProbeInterval  = 15 * time.Second
)

// applyDefaults fills zero-valued fields of cfg.
// MinPasswordScore is left alone: zero is a valid policy.
func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.Server.HTTPAddress, DefaultHTTPAddress)
	setDefault(&cfg.Server.RequestTimeout, DefaultRequestTimeout)

	setDefault(&cfg.App.TokenIssuer, DefaultTokenIssuer)
	setDefault(&cfg.App.TokenDuration, DefaultTokenDuration)
	setDefault(&cfg.App.Version, DefaultVersion)
	setDefault(&cfg.App.LogLevel, DefaultLogLevel)

	setDefault(&cfg.Crypto.KeyMode, DefaultKeyMode)
	setDefault(&cfg.Crypto.KDFIterations, DefaultKDFIterations)
	setDefault(&cfg.Crypto.LegacyKDFIterations, DefaultLegacyKDFIterations)
	setDefault(&cfg.Crypto.Cipher, DefaultCipher)

	setDefault(&cfg.Workers.SessionSweepInterval, DefaultSessionSweepInterval)
	setDefault(&cfg.Workers.HealthProbeInterval, DefaultHealthProbeInterval)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
