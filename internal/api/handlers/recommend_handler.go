package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	cache "github.com/agroandes/backend/internal/cache/redis"
	"github.com/agroandes/backend/internal/metrics"
	"github.com/agroandes/backend/internal/recommend"
	"github.com/agroandes/backend/pkg/logger"
	"github.com/agroandes/backend/pkg/utils"
)

type RecommendHandler struct {
	engine *recommend.Engine
	cache  *cache.Client
}

// NewRecommendHandler wires the engine and an optional response cache;
// cacheClient may be nil when redis is disabled or unreachable.
func NewRecommendHandler(engine *recommend.Engine, cacheClient *cache.Client) *RecommendHandler {
	return &RecommendHandler{
		engine: engine,
		cache:  cacheClient,
	}
}

func (h *RecommendHandler) HandleRecommendations(c *fiber.Ctx) error {
	start := time.Now()

	var query recommend.Query
	if err := c.BodyParser(&query); err != nil {
		logger.Error("Failed to parse recommendation request", zap.Error(err))
		metrics.RecommendationTotal.WithLabelValues("bad_request").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	queryHash, err := utils.HashJSON(query)
	if err == nil && h.cache != nil {
		var cached []recommend.Recommendation
		hit, cacheErr := h.cache.GetRecommendation(c.Context(), queryHash, &cached)
		if cacheErr != nil {
			logger.Warn("Recommendation cache read failed", zap.Error(cacheErr))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("recommendation").Inc()
			return c.JSON(fiber.Map{"recomendaciones": cached})
		}
		metrics.CacheMisses.WithLabelValues("recommendation").Inc()
	}

	results, err := h.engine.Recommend(query)
	if err != nil {
		metrics.RecommendationTotal.WithLabelValues("error").Inc()
		return respondEngineError(c, err)
	}

	metrics.RecommendationTotal.WithLabelValues("ok").Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	metrics.RecommendationResults.Observe(float64(len(results)))
	if len(results) > 0 {
		metrics.TopScore.Observe(results[0].Score)
	}

	if h.cache != nil && queryHash != "" {
		if cacheErr := h.cache.SetRecommendation(c.Context(), queryHash, results); cacheErr != nil {
			logger.Warn("Recommendation cache write failed", zap.Error(cacheErr))
		}
	}

	return c.JSON(fiber.Map{"recomendaciones": results})
}

// respondEngineError maps the engine error taxonomy onto HTTP statuses.
func respondEngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, recommend.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, recommend.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		logger.Error("Engine request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
