package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lendingdesk/court-search-service/common/config"
	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/logger"
	"github.com/lendingdesk/court-search-service/common/messaging"
	"github.com/lendingdesk/court-search-service/common/storage"
	"github.com/lendingdesk/court-search-service/jurisdictions"

	"github.com/rs/zerolog/log"

	"github.com/joho/godotenv"

	_ "github.com/lendingdesk/court-search-service/docs"
)

// @title          Court Search Service API
// @version        1.0
// @description    Asynchronous court record search across Florida county and New York state courts.

// @contact.name  API Support

// @host     localhost:8080
// @BasePath /v1
// @schemes  http https

// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       X-API-KEY

func main() {
	// INITIATE CONFIGURATION
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	// Create a base context with cancel for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// INITIATE DATABASES
	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup database")
	}
	defer dbConn.Close()

	// Initialize zerolog database hooks
	logger.InitializeLogging(dbConn)
	log.Info().Msg("Zerolog database hooks initialized")

	// INITIATE NATS CLIENT
	natsClient, err := messaging.SetupNatsBroker(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup NATS client")
	}
	defer natsClient.Close()

	// Evidence storage is optional, snapshots are skipped without it.
	var archiver *storage.EvidenceArchiver
	if cfg.GCS.Bucket != "" {
		gcsStorage, err := storage.NewGCSStorage(ctx, storage.GCSConfig{
			ProjectID:       cfg.GCS.ProjectID,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup GCS storage")
		}
		if err := storage.SetStorageClient(gcsStorage); err != nil {
			log.Fatal().Err(err).Msg("Failed to set storage client")
		}
		archiver = storage.NewEvidenceArchiver(gcsStorage, cfg.GCS.Bucket)
	} else {
		log.Warn().Msg("No evidence bucket configured, snapshots will not be archived")
	}

	// Connect the browser and register every reachable jurisdiction.
	registry, err := jurisdictions.Setup(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup jurisdictions")
	}
	defer func() {
		if err := registry.Browser.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close browser")
		}
	}()

	// Start consuming queued searches.
	consumer, err := jurisdictions.NewSearchConsumer(dbConn, natsClient, registry, archiver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create search consumer")
	}
	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start search consumer")
	}
	defer consumer.Stop()

	// INITIATE SERVER
	server, err := NewAppHttpServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the server")
	}

	// Inject dependencies
	server.SetDB(dbConn)
	server.SetNatsClient(natsClient)

	// Setup routes
	server.setupRoute()

	// Start server in a goroutine
	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")
	log.Info().Str("swagger", fmt.Sprintf("http://%s/swagger/index.html", cfg.Listen.Addr())).Msg("Swagger documentation available at")

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("Shutdown signal received")

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server gracefully stopped")
}
