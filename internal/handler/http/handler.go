package http

import (
	"time"

	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/service"
	"github.com/lightningsoon/KeyMinder/internal/utils"
)

type Handler struct {
	services *service.Services

	// hasher signs response bodies and checks request bodies. Nil when no
	// hash key is configured.
	hasher         *utils.Hasher
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	h := &Handler{
		services:       services,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
	if cfg.App.HashKey != "" {
		h.hasher = utils.NewHasher(cfg.App.HashKey)
	}
	return h
}
