package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/smartcity/insight/internal/config"
	"github.com/smartcity/insight/internal/delivery/http"
	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/internal/repository/memory"
	"github.com/smartcity/insight/internal/repository/postgres"
	"github.com/smartcity/insight/internal/repository/sqlite"
	"github.com/smartcity/insight/internal/service"
	"github.com/smartcity/insight/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	zlog := buildLogger(cfg.Env)
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: storage backend
	storage, cleanup := openStorage(ctx, cfg, zlog)
	defer cleanup()

	// Dependency Injection: record stores
	airStore := store.NewAirStore(storage, zlog)
	trafficStore := store.NewTrafficStore(storage, zlog)
	weatherStore := store.NewWeatherStore(storage, zlog)
	chatStore := store.NewChatStore(storage, zlog)
	queryStore := store.NewQueryStore(storage, zlog)

	// Dependency Injection: services
	ingestSvc := service.NewIngestService(airStore, trafficStore, weatherStore, zlog)
	historySvc := service.NewHistoryService(airStore, trafficStore, weatherStore)
	aiBridge := service.NewAIBridge(cfg.AIBackendURL)
	chatSvc := service.NewChatService(aiBridge, historySvc, chatStore, queryStore, zlog)

	if cfg.SeedDemoData {
		ingestSvc.SeedDemoData(ctx)
	}

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "City Insight API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	handler := http.NewHandler(ingestSvc, chatSvc, historySvc, storage, airStore, trafficStore, weatherStore)
	http.SetupRoutes(app, handler)

	// Graceful shutdown
	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zlog.Warn("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited gracefully")
}

func buildLogger(env string) *zap.Logger {
	if env == "development" {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Logger error: %v", err)
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	return l
}

// openStorage picks the configured bucket storage backend, falling back
// to in-memory storage when no database can be reached.
func openStorage(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (domain.BucketStorage, func()) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			zlog.Warn("could not connect to PostgreSQL, trying next backend", zap.Error(err))
		} else {
			pg := postgres.NewPostgresStorage(pool)
			if err := pg.EnsureSchema(ctx); err != nil {
				zlog.Warn("could not prepare PostgreSQL schema, trying next backend", zap.Error(err))
				pool.Close()
			} else {
				zlog.Info("connected to PostgreSQL")
				return pg, pool.Close
			}
		}
	}

	if cfg.SQLitePath != "" {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err == nil {
			zlog.Info("using SQLite storage", zap.String("path", cfg.SQLitePath))
			return db, func() { db.Close() }
		}
		zlog.Warn("could not open SQLite, falling back to memory", zap.Error(err))
	}

	zlog.Info("running with in-memory storage, data is not durable")
	return memory.NewMemoryStorage(), func() {}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
