package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/backend/internal/domain"
	"github.com/platewise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	normalizer *usecase.Normalizer
	converter  *usecase.RecipeConverter
	densities  *usecase.DensityService
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(normalizer *usecase.Normalizer, converter *usecase.RecipeConverter, densities *usecase.DensityService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		normalizer: normalizer,
		converter:  converter,
		densities:  densities,
		logger:     logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "platewise-backend",
		"version": "1.0.0",
	})
}

// NormalizeRecipe cleans a recipe and populates parallel unit systems
func (h *Handler) NormalizeRecipe(c *gin.Context) {
	var recipe domain.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe payload: " + err.Error()})
		return
	}

	if err := h.normalizer.Normalize(c.Request.Context(), &recipe); err != nil {
		h.logger.Error("recipe normalization failed",
			zap.String("title", recipe.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "normalization failed"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

type convertRequest struct {
	Recipe       domain.Recipe       `json:"recipe" binding:"required"`
	TargetSystem domain.TargetSystem `json:"target_system"`
}

// ConvertRecipe converts a recipe's units to the requested system
func (h *Handler) ConvertRecipe(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}
	if req.TargetSystem == "" {
		req.TargetSystem = domain.SystemPreferred
	}

	report, err := h.converter.Convert(c.Request.Context(), &req.Recipe, req.TargetSystem)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("recipe conversion failed",
			zap.String("title", req.Recipe.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": req.Recipe,
		"report": report,
	})
}

type densitySearchRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// SearchDensity resolves an ingredient name to a density estimate
func (h *Handler) SearchDensity(c *gin.Context) {
	var req densitySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient is required"})
		return
	}

	record, err := h.densities.FindDensity(c.Request.Context(), req.Ingredient)
	if err != nil {
		if errors.Is(err, domain.ErrDensityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no density found for ingredient"})
			return
		}
		h.logger.Error("density search failed",
			zap.String("ingredient", req.Ingredient), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "density search failed"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// DensitySuggestions lists local table entries matching a partial name
func (h *Handler) DensitySuggestions(c *gin.Context) {
	partial := c.Query("q")
	if partial == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       partial,
		"suggestions": h.densities.Suggestions(partial, limit),
	})
}

// IngredientSuggestions renders one ingredient quantity in every target system
func (h *Handler) IngredientSuggestions(c *gin.Context) {
	var ing domain.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient payload: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredient":  ing.Name,
		"suggestions": h.converter.Suggestions(c.Request.Context(), ing),
	})
}
