package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/config"
	"github.com/localnerve/storefront/internal/middleware"
	"github.com/localnerve/storefront/internal/presence"
	"github.com/localnerve/storefront/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Routes collects what the API handlers need
type Routes struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Tokens   *services.TokenIssuer
	Cache    *services.ProductCache
	Files    *services.FileStore
	Registry *presence.Registry
	// Seed is nil when the seed endpoint is disabled
	Seed *services.SeedData
	Log  *zap.Logger
}

// Register mounts every API route on api
func (r *Routes) Register(api fiber.Router) {
	auth := &middleware.Authenticator{DB: r.DB, Tokens: r.Tokens}

	authHandler := &AuthHandler{DB: r.DB, Tokens: r.Tokens}
	productHandler := &ProductHandler{DB: r.DB, Cache: r.Cache}
	fileHandler := &FileHandler{Store: r.Files}
	healthHandler := &HealthHandler{Cfg: r.Cfg, DB: r.DB, Cache: r.Cache}

	// Accounts
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/check-status", auth.Auth(), authHandler.CheckStatus)
	authGroup.Get("/private", auth.AuthAdmin(), authHandler.Private)

	// Catalog (public reads, authenticated create, admin update and remove)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:term", productHandler.FindOne)
	products.Post("/", auth.Auth(), productHandler.Create)
	products.Patch("/:id", auth.AuthAdmin(), productHandler.Update)
	products.Delete("/:id", auth.AuthAdmin(), productHandler.Remove)

	// Product images
	api.Post("/files/product", fileHandler.UploadProductImage)
	api.Get("/files/product/:imageName", fileHandler.GetProductImage)

	if r.Seed != nil {
		seedHandler := &SeedHandler{DB: r.DB, Seed: r.Seed, Cache: r.Cache}
		api.Get("/seed", seedHandler.ExecuteSeed)
	}

	api.Get("/health", healthHandler.Health)

	if r.Registry != nil {
		log := r.Log
		if log == nil {
			log = zap.NewNop()
		}
		messages := &MessagesHandler{Tokens: r.Tokens, Registry: r.Registry, Log: log}
		api.Get("/ws", messages.Upgrade, messages.Handler())
	}
}
