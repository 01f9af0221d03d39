package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/platewise/backend/config"
	httpDelivery "github.com/platewise/backend/internal/delivery/http"
	"github.com/platewise/backend/internal/domain"
	"github.com/platewise/backend/internal/infrastructure/cache"
	"github.com/platewise/backend/internal/infrastructure/densitydb"
	"github.com/platewise/backend/internal/infrastructure/fdc"
	"github.com/platewise/backend/internal/pkg/logger"
	"github.com/platewise/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level := "info"
	if cfg.Matching.EnableDebugLogging {
		level = "debug"
	}
	zapLogger, err := logger.New(level, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("starting platewise backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type))

	table, err := densitydb.Load()
	if err != nil {
		zapLogger.Fatal("failed to load density table", zap.Error(err))
	}
	zapLogger.Info("density table loaded", zap.Int("entries", table.Len()))

	var densityCache domain.DensityCache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		densityCache = redisCache
	default:
		densityCache = cache.NewMemoryCache()
	}

	var fdcClient domain.FDCClient
	if cfg.FDC.APIKey != "" {
		fdcClient = fdc.NewClient(fdc.ClientConfig{
			APIKey:     cfg.FDC.APIKey,
			BaseURL:    cfg.FDC.BaseURL,
			Timeout:    cfg.FDC.Timeout,
			RetryCount: cfg.FDC.RetryCount,
		}, zapLogger)
		zapLogger.Info("FoodData Central fallback enabled", zap.String("base_url", cfg.FDC.BaseURL))
	} else {
		zapLogger.Warn("no FDC API key configured, external density lookups disabled")
	}

	densityService := usecase.NewDensityService(table, fdcClient, densityCache, usecase.DensityServiceConfig{
		MinSimilarity:      cfg.Matching.MinSimilarity,
		ExternalConfidence: cfg.Matching.ExternalConfidence,
		CacheTTL:           cfg.Cache.TTL,
		SearchLimit:        cfg.Matching.SearchLimit,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, zapLogger)

	unitConverter := usecase.NewUnitConverter(densityService, zapLogger)
	recipeConverter := usecase.NewRecipeConverter(unitConverter, domain.TargetSystem(cfg.Units.PreferredSystem), zapLogger)
	if cfg.Processing.EnableEnrichment {
		zapLogger.Warn("enrichment enabled in config but no enricher is wired, skipping")
	}
	normalizer := usecase.NewNormalizer(unitConverter, nil, zapLogger)

	handler := httpDelivery.NewHandler(normalizer, recipeConverter, densityService, zapLogger)
	router := httpDelivery.SetupRouter(cfg, handler, zapLogger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}
