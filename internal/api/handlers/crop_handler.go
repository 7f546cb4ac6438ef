package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	cache "github.com/agroandes/backend/internal/cache/redis"
	"github.com/agroandes/backend/internal/metrics"
	"github.com/agroandes/backend/internal/recommend"
	"github.com/agroandes/backend/pkg/logger"
)

type CropHandler struct {
	engine *recommend.Engine
	cache  *cache.Client
}

func NewCropHandler(engine *recommend.Engine, cacheClient *cache.Client) *CropHandler {
	return &CropHandler{
		engine: engine,
		cache:  cacheClient,
	}
}

func (h *CropHandler) ListCrops(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cultivos": h.engine.ListCrops()})
}

func (h *CropHandler) GetCropDetail(c *fiber.Ctx) error {
	cropID, err := parseCropID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid crop id",
		})
	}

	if h.cache != nil {
		var cached recommend.Recommendation
		hit, cacheErr := h.cache.GetCropDetail(c.Context(), cropID, &cached)
		if cacheErr != nil {
			logger.Warn("Crop detail cache read failed", zap.Error(cacheErr))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("crop_detail").Inc()
			return c.JSON(cached)
		}
		metrics.CacheMisses.WithLabelValues("crop_detail").Inc()
	}

	detail, err := h.engine.CropDetail(cropID)
	if err != nil {
		metrics.CropDetailTotal.WithLabelValues("error").Inc()
		return respondEngineError(c, err)
	}
	metrics.CropDetailTotal.WithLabelValues("ok").Inc()

	if h.cache != nil {
		if cacheErr := h.cache.SetCropDetail(c.Context(), cropID, detail); cacheErr != nil {
			logger.Warn("Crop detail cache write failed", zap.Error(cacheErr))
		}
	}

	return c.JSON(detail)
}

func (h *CropHandler) EstimateCosts(c *fiber.Ctx) error {
	cropID, err := parseCropID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid crop id",
		})
	}

	area := 1.0
	if raw := c.Query("area"); raw != "" {
		area, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid area parameter",
			})
		}
	}

	breakdown, err := h.engine.EstimateCosts(cropID, area)
	if err != nil {
		metrics.CostEstimateTotal.WithLabelValues("error").Inc()
		return respondEngineError(c, err)
	}
	metrics.CostEstimateTotal.WithLabelValues("ok").Inc()

	return c.JSON(breakdown)
}

func (h *CropHandler) ListSuppliers(c *fiber.Ctx) error {
	cropID, err := parseCropID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid crop id",
		})
	}

	suppliers, err := h.engine.ListSuppliers(cropID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.JSON(fiber.Map{"proveedores": suppliers})
}

func parseCropID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
