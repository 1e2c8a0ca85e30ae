package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/internal/crypto"
	"github.com/avykov/go-auth-keeper/internal/handler"
	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/internal/server"
	"github.com/avykov/go-auth-keeper/internal/service"
	"github.com/avykov/go-auth-keeper/internal/store"
	"github.com/avykov/go-auth-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// a missing .env file is fine; real deployments configure through the
	// environment directly
	_ = godotenv.Load()

	log := logger.NewLogger("auth-keeper-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	hashPool := workers.NewHashPool(crypto.NewHasher(cfg.Auth.Pepper), cfg.Workers.HashWorkers, log)
	services := service.NewServices(storages, hashPool, cfg.Auth, log)

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
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
