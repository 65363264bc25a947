package main

import (
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/archive"
	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/handler"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/manager"
	"github.com/MKhiriev/go-vault-keeper/internal/repository"
	"github.com/MKhiriev/go-vault-keeper/internal/server"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	archiveManager := manager.NewArchiveManager(
		archive.NewAESCodec(crypto.NewKeyChainService()),
		repository.NewValidator(log),
		validators.NewCredentialValidator(),
		store.NewFileRecordStorage(log),
		*cfg,
		log,
	)

	sessions := handler.NewSessionTable(cfg.Session.Timeout, log)
	requestHandler := handler.NewHandler(archiveManager, sessions, cfg.App, log)

	backgroundWorkers := workers.NewWorkers(
		workers.NewSessionSweeper(sessions, cfg.Session.SweepInterval, log),
	)

	srv := server.NewSocketServer(cfg.Server, requestHandler, backgroundWorkers, log)
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
