package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"auctiontracker/internal/analysis"
	"auctiontracker/internal/config"
	"auctiontracker/internal/database"
	"auctiontracker/internal/logger"
	"auctiontracker/internal/repository"
	"auctiontracker/internal/seed"
	"auctiontracker/internal/server"

	_ "auctiontracker/internal/docs" // Import swagger docs
)

// @title           Auction Tracker API
// @version         1.0
// @description     Track real estate bought at auction: costs, projected and actual profit and ROI.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	repo, err := newPropertyRepository(ctx, cfg, dbManager)
	if err != nil {
		return err
	}

	var generator analysis.TextGenerator
	if cfg.GeminiAPIKey != "" {
		httpClient := &http.Client{Timeout: cfg.GeminiTimeout}
		generator = analysis.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, httpClient)
	} else {
		log.Warn("GEMINI_API_KEY not set, AI analysis disabled")
	}

	svcs := server.NewServices(dbManager.DB(), repo, generator, cfg.GeminiTimeout)

	if err := seed.New(svcs.Users, repo).Run(cfg); err != nil {
		return err
	}

	router := server.NewRouter(cfg, svcs)

	log.Infow("Starting Auction Tracker API", "port", cfg.Port, "db_driver", cfg.DBDriver, "store", cfg.StoreBackend)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return server.Run(ctx, ":"+cfg.Port, router)
}

func newPropertyRepository(ctx context.Context, cfg *config.Config, dbManager *database.Manager) (repository.PropertyRepository, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return repository.NewMemoryPropertyRepository(), nil
	case config.StoreDynamoDB:
		client, err := database.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
		}
		if err := repository.EnsureDynamoTable(ctx, client, cfg.DynamoDBPropertiesTable); err != nil {
			return nil, fmt.Errorf("failed to prepare DynamoDB table: %w", err)
		}
		return repository.NewDynamoPropertyRepository(client, cfg.DynamoDBPropertiesTable), nil
	default:
		return repository.NewGormPropertyRepository(dbManager.DB()), nil
	}
}
