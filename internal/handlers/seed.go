package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/services"
	"gorm.io/gorm"
)

// SeedHandler reloads the demo catalog
type SeedHandler struct {
	DB    *gorm.DB
	Seed  *services.SeedData
	Cache *services.ProductCache
}

// ExecuteSeed handles GET /api/seed
// @Summary Seed the database
// @Description Replace all users and products with the embedded seed data
// @Tags Seed
// @Produce plain
// @Success 200 {string} string "SEED EXECUTED"
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /seed [get]
func (h *SeedHandler) ExecuteSeed(c *fiber.Ctx) error {
	result, err := services.RunSeed(c.UserContext(), h.DB, h.Seed)
	if err != nil {
		return err
	}

	h.Cache.Clear(c.UserContext())
	return c.SendString(result)
}
