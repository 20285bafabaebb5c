package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/storefront/data"
	"github.com/localnerve/storefront/internal/config"
	"github.com/localnerve/storefront/internal/database"
	"github.com/localnerve/storefront/internal/handlers"
	applog "github.com/localnerve/storefront/internal/logger"
	"github.com/localnerve/storefront/internal/middleware"
	"github.com/localnerve/storefront/internal/presence"
	"github.com/localnerve/storefront/internal/services"
	"github.com/localnerve/storefront/internal/utils"
	"go.uber.org/zap"

	_ "github.com/localnerve/storefront/docs/api" // Swagger docs
)

// @title Storefront API
// @version 1.0.0
// @description Go Fiber catalog service with accounts, product images and realtime presence
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/storefront
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := applog.Must(cfg)
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	// Connect to database, migrations run on connect
	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Optional product cache
	var cache *services.ProductCache
	if cfg.CacheEnabled() {
		client := services.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		cache = services.NewProductCache(client, cfg.CacheTTL)
		if err := cache.Ping(context.Background()); err != nil {
			zlog.Warn("Product cache unreachable, reads fall back to the database",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	}

	var seed *services.SeedData
	if cfg.SeedEnabled {
		seed, err = services.LoadSeedData(data.SeedJSON)
		if err != nil {
			zlog.Fatal("Failed to load seed data", zap.Error(err))
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
		BodyLimit:    services.MaxImageSize + 1<<20,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("storefront")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	routes := &handlers.Routes{
		Cfg:      cfg,
		DB:       db,
		Tokens:   services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn),
		Cache:    cache,
		Files:    services.NewFileStore(cfg.StaticDir, cfg.HostAPI),
		Registry: presence.NewRegistry(&services.UserStore{DB: db}, zlog.Named("presence")),
		Seed:     seed,
		Log:      zlog.Named("ws"),
	}
	routes.Register(api)

	// Public site
	app.Static("/", cfg.PublicDir)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigs
		zlog.Info("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	zlog.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}

	zlog.Info("Server stopped")
}
