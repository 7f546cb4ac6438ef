package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/agroandes/backend/internal/api/handlers"
	cache "github.com/agroandes/backend/internal/cache/redis"
	"github.com/agroandes/backend/internal/metrics"
	"github.com/agroandes/backend/internal/middleware/ratelimit"
	"github.com/agroandes/backend/internal/middleware/security"
	"github.com/agroandes/backend/internal/middleware/validation"
	"github.com/agroandes/backend/internal/recommend"
	"github.com/agroandes/backend/internal/storage/sqlite"
	"github.com/agroandes/backend/pkg/config"
	appLogger "github.com/agroandes/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting crop recommendation API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	dataset, err := sqliteClient.LoadDataset()
	if err != nil {
		appLogger.Fatal("Failed to load reference dataset", zap.Error(err))
	}

	// The engine works on the in-memory snapshot only; the connection is
	// not needed after startup.
	if err := sqliteClient.Close(); err != nil {
		appLogger.Warn("Failed to close SQLite client", zap.Error(err))
	}

	metrics.DatasetCrops.Set(float64(len(dataset.Crops)))

	engine, err := recommend.NewEngine(dataset, cfg.Recommend.TopN)
	if err != nil {
		appLogger.Fatal("Reference dataset failed integrity checks", zap.Error(err))
	}

	var cacheClient *cache.Client
	if cfg.Redis.Enabled {
		cacheClient, err = cache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without response cache", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{Logger: appLogger.Log})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{Logger: appLogger.Log}))

	recommendHandler := handlers.NewRecommendHandler(engine, cacheClient)
	cropHandler := handlers.NewCropHandler(engine, cacheClient)

	api := app.Group("/api/v1")

	api.Post("/recommendations", recommendHandler.HandleRecommendations)
	api.Get("/crops", cropHandler.ListCrops)
	api.Get("/crops/:id", cropHandler.GetCropDetail)
	api.Get("/crops/:id/costs", cropHandler.EstimateCosts)
	api.Get("/crops/:id/suppliers", cropHandler.ListSuppliers)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
			"crops":  len(dataset.Crops),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
