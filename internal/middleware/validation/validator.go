package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// requiredFields are the query parameters the recommendation engine cannot
// work without; rejecting them here keeps malformed bodies out of the
// engine entirely.
var requiredFields = []string{"temperatura", "precipitacion", "altitud"}

func Middleware(cfg Config) fiber.Handler {
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		if strings.Contains(c.Path(), "/recommendations") && c.Method() == fiber.MethodPost {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			for _, field := range requiredFields {
				value, present := req[field]
				if !present || value == nil {
					cfg.Logger.Debug("Rejected recommendation request",
						zap.String("missing_field", field),
						zap.String("ip", c.IP()),
					)
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Field " + field + " is required",
					})
				}
				if _, ok := value.(float64); !ok {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Field " + field + " must be a number",
					})
				}
			}
		}

		return c.Next()
	}
}
