package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/services"
	"github.com/localnerve/storefront/internal/types"
	"go.uber.org/zap"
)

// FileHandler handles product image upload and download
type FileHandler struct {
	Store *services.FileStore
}

// UploadProductImage handles POST /api/files/product
// @Summary Upload a product image
// @Description Store a jpg, png or gif and return its public URL
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} map[string]string
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /files/product [post]
func (h *FileHandler) UploadProductImage(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return types.NewValidation(services.MsgNotAnImage)
	}

	file, err := header.Open()
	if err != nil {
		zap.L().Warn("Failed to open upload", zap.String("file", header.Filename), zap.Error(err))
		return types.NewValidation(services.MsgNotAnImage)
	}
	defer file.Close()

	_, secureURL, err := h.Store.SaveProductImage(file)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"secureUrl": secureURL})
}

// GetProductImage handles GET /api/files/product/:imageName
// @Summary Download a product image
// @Tags Files
// @Produce image/jpeg,image/png,image/gif
// @Param imageName path string true "Stored image name"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /files/product/{imageName} [get]
func (h *FileHandler) GetProductImage(c *fiber.Ctx) error {
	path, err := h.Store.ProductImagePath(c.Params("imageName"))
	if err != nil {
		return err
	}
	return c.SendFile(path)
}
