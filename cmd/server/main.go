// Package main is the entry point for the fee engine server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feeengine/internal/config"
	"feeengine/internal/events"
	"feeengine/internal/handlers"
	applogger "feeengine/internal/logger"
	"feeengine/internal/metrics"
	"feeengine/internal/middleware"
	"feeengine/internal/repositories"
	"feeengine/internal/repositories/cache"
	"feeengine/internal/services/fee"
	"feeengine/internal/services/feestructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Connects to PostgreSQL and Redis
// - Wires the calculator and the structure manager
// - Configures routes and middleware
// - Serves until interrupted
func main() {
	config.LoadEnv()
	cfg := config.Load()

	zl, err := applogger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := repositories.InitDB(cfg.DB, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("failed to get database instance", zap.Error(err))
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			zl.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	rdb := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			zl.Warn("failed to close redis connection", zap.Error(err))
		}
	}()
	cacheService := cache.NewCacheService(rdb, cfg.CacheTTL)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheService.HealthCheck(pingCtx); err != nil {
		zl.Warn("redis unavailable, rule sets will be read from the database", zap.Error(err))
	}
	cancel()

	publisher, err := events.New(cfg.Events, rdb, zl)
	if err != nil {
		zl.Fatal("failed to create event publisher", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zl.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector()
	structures := repositories.NewFeeStructureRepository(db)

	calculator := fee.NewCalculator(
		structures,
		repositories.NewTransactionRepository(db),
		cacheService,
		fee.CalculatorConfig{TieBreak: fee.ParseTieBreakPolicy(cfg.TieBreak)},
		collector,
		zl,
	)
	manager := feestructure.NewManager(structures, cacheService, publisher, collector, zl)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error(), "code": "HTTP_ERROR"})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE",
	}))
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${respHeader:X-Request-ID}\n",
	}))
	app.Use(middleware.Observe(collector, zl))

	app.Use("/api/fees/calculate", limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	}))

	handlers.SetupRoutes(app, handlers.Router{
		Fees:          handlers.NewFeeHandler(calculator, zl),
		FeeStructures: handlers.NewFeeStructureHandler(manager),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": sqlDB.PingContext,
			"redis":    cacheService.HealthCheck,
		}),
		Auth:    middleware.NewAuthMiddleware(cfg.JWTSecret, zl),
		Metrics: adaptor.HTTPHandler(collector.Handler()),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	zl.Info("fee engine listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}
}
