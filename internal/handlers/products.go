package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/middleware"
	"github.com/localnerve/storefront/internal/services"
	"github.com/localnerve/storefront/internal/types"
	"gorm.io/gorm"
)

// ProductHandler handles catalog routes
type ProductHandler struct {
	DB *gorm.DB
	// Cache may be nil
	Cache *services.ProductCache
}

// Create handles POST /api/products
// @Summary Create a product
// @Description Create a product owned by the authenticated user
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product"
// @Success 201 {object} services.ProductResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	product, err := services.CreateProduct(c.UserContext(), h.DB, input, middleware.CurrentUser(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// List handles GET /api/products?limit=&offset=
// @Summary List products
// @Description Page through products with image URLs
// @Tags Products
// @Produce json
// @Param limit query int false "How many rows, default 10"
// @Param offset query int false "How many rows to skip, default 0"
// @Success 200 {array} services.ProductResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	products, err := services.ListProducts(c.UserContext(), h.DB, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(products)
}

// FindOne handles GET /api/products/:term
// @Summary Find a product
// @Description Find a product by id, title or slug
// @Tags Products
// @Produce json
// @Param term path string true "Product id, title or slug"
// @Success 200 {object} services.ProductResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{term} [get]
func (h *ProductHandler) FindOne(c *fiber.Ctx) error {
	term, err := url.PathUnescape(c.Params("term"))
	if err != nil {
		return types.NewValidation("Invalid search term")
	}

	product, err := h.Cache.FindProductPlain(c.UserContext(), h.DB, term)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// Update handles PATCH /api/products/:id
// @Summary Update a product
// @Description Merge fields, replace images when given and take ownership, atomically
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product id"
// @Param body body services.UpdateProductInput true "Fields to change"
// @Success 200 {object} services.ProductResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var input services.UpdateProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	ctx := c.UserContext()
	previous := h.cached(c, id)

	product, err := services.UpdateProduct(ctx, h.DB, id, input, middleware.CurrentUser(c))
	if err != nil {
		return err
	}

	h.Cache.Invalidate(ctx, previous, product)
	return c.JSON(product)
}

// Remove handles DELETE /api/products/:id
// @Summary Remove a product
// @Description Delete a product and its images
// @Tags Products
// @Security BearerAuth
// @Param id path string true "Product id"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *ProductHandler) Remove(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	previous := h.cached(c, id)

	if err := services.RemoveProduct(ctx, h.DB, id); err != nil {
		return err
	}

	h.Cache.Invalidate(ctx, previous)
	return c.SendStatus(fiber.StatusNoContent)
}

// cached loads the current product for cache invalidation, nil when there is no cache
func (h *ProductHandler) cached(c *fiber.Ctx, id string) *services.ProductResponse {
	if h.Cache == nil {
		return nil
	}
	product, err := services.FindProductPlain(c.UserContext(), h.DB, id)
	if err != nil {
		return nil
	}
	return product
}
