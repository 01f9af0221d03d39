package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/normalize", handler.NormalizeRecipe)
			recipes.POST("/convert", handler.ConvertRecipe)
		}

		density := v1.Group("/density")
		{
			density.POST("/search", handler.SearchDensity)
			density.GET("/suggestions", handler.DensitySuggestions)
		}

		v1.POST("/ingredients/suggestions", handler.IngredientSuggestions)
	}

	return router
}
