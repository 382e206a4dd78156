package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cartwise/backend/config"
	httpDelivery "github.com/cartwise/backend/internal/delivery/http"
	"github.com/cartwise/backend/internal/infrastructure/cache"
	"github.com/cartwise/backend/internal/infrastructure/retailer"
	"github.com/cartwise/backend/internal/usecase"
	"github.com/cartwise/backend/pkg/logging"
)

func main() {
	logging.Setup()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting cartwise backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port)

	// Initialize infrastructure dependencies
	priceCache := cache.NewMemoryCache(cfg.Cache.MaxEntries)
	slog.Info("price cache initialized", "ttl", cfg.Cache.TTL, "maxEntries", cfg.Cache.MaxEntries)

	retailerClient := retailer.NewClient(cfg.Retailer.APIKey, cfg.Retailer.BaseURL)
	if cfg.Server.Environment == "development" {
		retailerClient.SetDebug(true)
	}
	if cfg.Retailer.APIKey == "" {
		slog.Warn("retailer API key not configured, upstream calls will fail",
			"baseURL", cfg.Retailer.BaseURL)
	} else {
		slog.Info("retailer API configured", "baseURL", cfg.Retailer.BaseURL)
	}

	// Initialize the matching engine and cart service
	engine := usecase.NewMatchEngine(usecase.DefaultTables(), usecase.EngineConfig{
		FuzzyThreshold:           cfg.Matching.FuzzyThreshold,
		BrandSimilarityThreshold: cfg.Matching.BrandSimilarityThreshold,
		DealSimilarityThreshold:  cfg.Matching.DealSimilarityThreshold,
		EnableDebugLogging:       cfg.Matching.EnableDebugLogging,
	})
	cartService := usecase.NewCartService(engine, usecase.CartConfig{
		LineConfidenceThreshold: cfg.Matching.LineConfidenceThreshold,
		EnableDebugLogging:      cfg.Matching.EnableDebugLogging,
	})

	slog.Info("matching engine ready",
		"fuzzyThreshold", cfg.Matching.FuzzyThreshold,
		"lineConfidenceThreshold", cfg.Matching.LineConfidenceThreshold,
		"debug", cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		cartService,
		retailerClient,
		retailerClient,
		retailerClient,
		priceCache,
		cfg.Cache.TTL,
	)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	slog.Info("server listening", "addr", addr)

	if err := router.Run(addr); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
