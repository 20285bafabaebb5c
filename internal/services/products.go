// products.go
//
// A Go Fiber storefront backend: catalog, accounts, product images and realtime presence
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of storefront.
// storefront is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// storefront is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with storefront.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/database"
	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/types"
	"github.com/localnerve/storefront/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// Pagination defaults for product listings
const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// CreateProductInput represents input for product creation
type CreateProductInput struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes" validate:"required"`
	Gender      string   `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// UpdateProductInput represents input for a partial product update.
// A nil field is left unchanged. A non-nil Images replaces the whole image set, even when empty.
type UpdateProductInput struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string   `json:"description,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Gender      *string   `json:"gender,omitempty" validate:"omitempty,oneof=men women kid unisex"`
	Tags        *[]string `json:"tags,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

// ProductResponse is a product with its images flattened to URLs
type ProductResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Price       float64           `json:"price"`
	Description *string           `json:"description"`
	Slug        string            `json:"slug"`
	Stock       int               `json:"stock"`
	Sizes       models.StringList `json:"sizes"`
	Gender      string            `json:"gender"`
	Tags        models.StringList `json:"tags"`
	Images      models.StringList `json:"images"`
	User        *models.User      `json:"user,omitempty"`
}

// NormalizeSlug derives the slug from the title when empty, then lowercases it,
// turns spaces into underscores and strips apostrophes
func NormalizeSlug(slug, title string) string {
	if slug == "" {
		slug = title
	}
	slug = strings.ToLower(slug)
	slug = strings.ReplaceAll(slug, " ", "_")
	return strings.ReplaceAll(slug, "'", "")
}

// CreateProduct persists a product and its images owned by owner
func CreateProduct(ctx context.Context, db *gorm.DB, input CreateProductInput, owner *models.User) (*ProductResponse, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Sizes:       models.StringList(input.Sizes),
		Gender:      input.Gender,
		Tags:        models.StringList(input.Tags),
		UserID:      owner.ID,
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	var slug string
	if input.Slug != nil {
		slug = *input.Slug
	}
	product.Slug = NormalizeSlug(slug, input.Title)
	product.Images = newImages(input.Images)

	// Product and images are inserted in gorm's default transaction
	if err := db.WithContext(ctx).Omit("User").Create(&product).Error; err != nil {
		return nil, handleDBError("create product", err)
	}

	product.User = owner
	response := toProductResponse(&product)
	return &response, nil
}

// UpdateProduct merges input into the product id, replaces its images when supplied and
// reassigns it to owner, all in one transaction
func UpdateProduct(ctx context.Context, db *gorm.DB, id string, input UpdateProductInput, owner *models.User) (*ProductResponse, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Clauses(hints.CommentBefore("select", "storefront:update_product"), clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("Product with %s not found", id)
			}
			return err
		}

		input.apply(&product)
		product.Slug = NormalizeSlug(product.Slug, product.Title)

		if input.Images != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			product.Images = newImages(*input.Images)
		}

		product.UserID = owner.ID

		return tx.Omit("User").Save(&product).Error
	})
	if err != nil {
		return nil, handleDBError("update product", err)
	}

	return FindProductPlain(ctx, db, id)
}

// RemoveProduct deletes the product id together with its images
func RemoveProduct(ctx context.Context, db *gorm.DB, id string) error {
	var product models.Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFound("Product with %s not found", id)
		}
		return handleDBError("find product", err)
	}

	if err := db.WithContext(ctx).Select("Images").Delete(&product).Error; err != nil {
		return handleDBError("remove product", err)
	}
	return nil
}

// FindProduct looks a product up by id when term is a UUID, otherwise by
// case-insensitive title or lowercased slug
func FindProduct(ctx context.Context, db *gorm.DB, term string) (*models.Product, error) {
	query := db.WithContext(ctx).
		Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Images", orderImages).
		Preload("User")

	if id, err := uuid.Parse(term); err == nil {
		query = query.Where("id = ?", id.String())
	} else {
		query = query.Where("UPPER(title) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term))
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("Product with %s not found", term)
		}
		return nil, handleDBError("find product", err)
	}
	return &product, nil
}

// FindProductPlain is FindProduct with the images flattened to URLs
func FindProductPlain(ctx context.Context, db *gorm.DB, term string) (*ProductResponse, error) {
	product, err := FindProduct(ctx, db, term)
	if err != nil {
		return nil, err
	}
	response := toProductResponse(product)
	return &response, nil
}

// ListProducts returns a page of products with flattened images
func ListProducts(ctx context.Context, db *gorm.DB, limit, offset int) ([]ProductResponse, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = DefaultOffset
	}

	var products []models.Product
	if err := db.WithContext(ctx).
		Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Clauses(hints.CommentBefore("select", "storefront:list_products")).
		Preload("Images", orderImages).
		Order("created_at").Order("id").
		Limit(limit).Offset(offset).
		Find(&products).Error; err != nil {
		return nil, handleDBError("list products", err)
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	return responses, nil
}

// DeleteAllProducts removes every product and image
func DeleteAllProducts(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return global.Delete(&models.Product{}).Error
	})
	if err != nil {
		return handleDBError("delete all products", err)
	}
	return nil
}

func (in *UpdateProductInput) apply(product *models.Product) {
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Description != nil {
		product.Description = in.Description
	}
	if in.Slug != nil {
		product.Slug = *in.Slug
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Sizes != nil {
		product.Sizes = models.StringList(*in.Sizes)
	}
	if in.Gender != nil {
		product.Gender = *in.Gender
	}
	if in.Tags != nil {
		product.Tags = models.StringList(*in.Tags)
	}
}

func newImages(urls []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.ProductImage{URL: url})
	}
	return images
}

// orderImages keeps images in insertion order
func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Gender:      p.Gender,
		Tags:        p.Tags,
		Images:      models.StringList(p.ImageURLs()),
		User:        p.User,
	}
}

// handleDBError classifies a persistence failure. Unique violations become Duplicate
// errors carrying the database detail, anything unclassified is logged and hidden.
func handleDBError(action string, err error) error {
	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		return customErr
	}

	if detail, ok := database.UniqueViolation(err); ok {
		zap.L().Warn("Unique constraint violated", zap.String("action", action), zap.String("detail", detail))
		return types.NewDuplicate(detail)
	}

	zap.L().Error("Database operation failed", zap.String("action", action), zap.Error(err))
	return fmt.Errorf("%s: %w", action, types.NewInternal())
}
