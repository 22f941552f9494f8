package service

import (
	"fmt"

	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/crypto"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/internal/validators"
)

type Services struct {
	AuthService      AuthService
	EntryService     EntryService
	GeneratorService GeneratorService
	AppInfoService   AppInfoService
	HealthService    HealthService
}

// NewServices builds every service over storages and the session store.
// The cipher and password hasher are configured from cfg.Crypto.
func NewServices(storages *store.Storages, sessions SessionStore, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	format, err := crypto.ParseFormat(cfg.Crypto.Cipher)
	if err != nil {
		return nil, fmt.Errorf("error configuring cipher: %w", err)
	}

	cipher := crypto.NewCipher(
		crypto.WithFormat(format),
		crypto.WithIterations(cfg.Crypto.KDFIterations),
		crypto.WithLegacyIterations(cfg.Crypto.LegacyKDFIterations),
	)
	hasher := crypto.NewPasswordHasher(
		crypto.WithHashIterations(cfg.Crypto.KDFIterations),
		crypto.WithLegacyHashIterations(cfg.Crypto.LegacyKDFIterations),
	)
	validator := validators.NewRequestValidator(cfg.App.MinPasswordScore)

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	entryService := NewEntryValidationService(validator).
		Wrap(NewEntryService(storages.EntryRepository, sessions, cipher, logger))

	return &Services{
		AuthService:      NewAuthService(storages, sessions, cipher, hasher, validator, cfg, logger),
		EntryService:     entryService,
		GeneratorService: NewGeneratorService(validator, logger),
		AppInfoService:   appInfoService,
		HealthService:    NewHealthService(storages.DB, logger),
	}, nil
}
