package main

import (
	"context"
	"fmt"

	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/handler"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/server"
	"github.com/lightningsoon/KeyMinder/internal/service"
	"github.com/lightningsoon/KeyMinder/internal/session"
	"github.com/lightningsoon/KeyMinder/internal/store"
	"github.com/lightningsoon/KeyMinder/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("keyminder-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = log.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}
	if cfg.App.Version == config.DefaultVersion && buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Str("key_mode", cfg.Crypto.KeyMode).
		Str("cipher", cfg.Crypto.Cipher).
		Msg("received configs")

	db, err := store.NewDB(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)
	vault := session.NewVault()

	services, err := service.NewServices(storages, vault, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	background := []workers.Worker{
		workers.NewSessionSweepWorker(vault, cfg.Workers.SessionSweepInterval, log),
	}
	if handlers.GRPC != nil {
		background = append(background,
			workers.NewHealthProbeWorker(services.HealthService, handlers.GRPC, cfg.Workers.HealthProbeInterval, log))
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(log, background...), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
