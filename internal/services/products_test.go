// products_test.go
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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/testutil"
	"github.com/localnerve/storefront/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func sliceP(s ...string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}

func newShirtInput(title string, images ...string) CreateProductInput {
	price := 25.5
	stock := 3
	return CreateProductInput{
		Title:  title,
		Price:  &price,
		Stock:  &stock,
		Sizes:  []string{"S", "M"},
		Gender: models.GenderMen,
		Tags:   []string{"shirt"},
		Images: images,
	}
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		slug, title, want string
	}{
		{"", "Men's Blue Shirt", "mens_blue_shirt"},
		{"Kids Hoodie", "ignored", "kids_hoodie"},
		{"already_ok", "x", "already_ok"},
		{"", "", ""},
		{"O'Neil  Tee", "", "oneil__tee"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSlug(tt.slug, tt.title))
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	created, err := CreateProduct(ctx, db, newShirtInput("Men's Blue Shirt", "a.jpg", "b.jpg"), owner)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "mens_blue_shirt", created.Slug)
	assert.Equal(t, models.StringList{"a.jpg", "b.jpg"}, created.Images)
	require.NotNil(t, created.User)
	assert.Equal(t, owner.ID, created.User.ID)

	found, err := FindProductPlain(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"a.jpg", "b.jpg"}, found.Images)
	assert.Equal(t, 25.5, found.Price)
	assert.Equal(t, 3, found.Stock)
	assert.Equal(t, owner.ID, found.User.ID)
}

func TestCreateProductDefaults(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	created, err := CreateProduct(ctx, db, CreateProductInput{
		Title:  "Plain Tee",
		Sizes:  []string{},
		Gender: models.GenderUnisex,
	}, owner)
	require.NoError(t, err)

	found, err := FindProductPlain(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Zero(t, found.Price)
	assert.Zero(t, found.Stock)
	assert.Empty(t, found.Images)
	assert.Equal(t, "plain_tee", found.Slug)
}

func TestCreateProductDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	_, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt"), owner)
	require.NoError(t, err)

	input := newShirtInput("Blue Shirt", "x.jpg")
	input.Slug = strPtr("different_slug")
	_, err = CreateProduct(ctx, db, input, owner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicate), "expected duplicate, got %v", err)

	var count int64
	db.Model(&models.ProductImage{}).Count(&count)
	assert.Zero(t, count, "images of a failed create must not persist")
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	input := newShirtInput("Shirt")
	input.Gender = "robot"
	_, err := CreateProduct(ctx, db, input, owner)
	assert.True(t, errors.Is(err, types.ErrValidation))

	negative := -1.0
	input = newShirtInput("Shirt")
	input.Price = &negative
	_, err = CreateProduct(ctx, db, input, owner)
	assert.True(t, errors.Is(err, types.ErrValidation))

	input = newShirtInput("")
	_, err = CreateProduct(ctx, db, input, owner)
	assert.True(t, errors.Is(err, types.ErrValidation))
}

func TestUpdateProductReplacesImagesAndOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")
	admin := testutil.CreateTestUser(t, db, "admin@example.com", "Admin", models.RoleAdmin)

	created, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt", "a.jpg", "b.jpg"), owner)
	require.NoError(t, err)

	updated, err := UpdateProduct(ctx, db, created.ID, UpdateProductInput{
		Title:  strPtr("Blue Shirt V2"),
		Images: sliceP("c.jpg", "d.jpg", "e.jpg"),
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, "Blue Shirt V2", updated.Title)
	assert.Equal(t, "blue_shirt", updated.Slug, "slug is only re-normalized, not re-derived")
	assert.Equal(t, models.StringList{"c.jpg", "d.jpg", "e.jpg"}, updated.Images)
	assert.Equal(t, 25.5, updated.Price, "absent fields are unchanged")
	require.NotNil(t, updated.User)
	assert.Equal(t, admin.ID, updated.User.ID)

	var count int64
	db.Model(&models.ProductImage{}).Where("product_id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(3), count, "old image rows must be gone")
}

func TestUpdateProductEmptyImagesClears(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	created, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt", "a.jpg"), owner)
	require.NoError(t, err)

	updated, err := UpdateProduct(ctx, db, created.ID, UpdateProductInput{Images: sliceP()}, owner)
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
}

func TestUpdateProductWithoutImagesKeepsThem(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")
	other := testutil.CreateTestUser(t, db, "other@example.com", "Other")

	created, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt", "a.jpg", "b.jpg"), owner)
	require.NoError(t, err)

	stock := 0
	updated, err := UpdateProduct(ctx, db, created.ID, UpdateProductInput{
		Slug:  strPtr("New Slug's"),
		Stock: &stock,
	}, other)
	require.NoError(t, err)

	assert.Equal(t, "new_slugs", updated.Slug)
	assert.Zero(t, updated.Stock)
	assert.Equal(t, models.StringList{"a.jpg", "b.jpg"}, updated.Images)
	assert.Equal(t, other.ID, updated.User.ID, "owner is reassigned on every update")
}

func TestUpdateProductNotFound(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	id := uuid.NewString()
	_, err := UpdateProduct(ctx, db, id, UpdateProductInput{Title: strPtr("x")}, owner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.Contains(t, err.Error(), id)
}

func TestUpdateProductRollsBackOnImageFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")
	admin := testutil.CreateTestUser(t, db, "admin@example.com", "Admin", models.RoleAdmin)

	created, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt", "a.jpg", "b.jpg"), owner)
	require.NoError(t, err)

	err = db.Callback().Create().Before("gorm:create").Register("test:fail_images", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "product_images" {
			_ = tx.AddError(errors.New("image insert failed"))
		}
	})
	require.NoError(t, err)

	_, err = UpdateProduct(ctx, db, created.ID, UpdateProductInput{
		Title:  strPtr("Changed Title"),
		Images: sliceP("c.jpg"),
	}, admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInternal), "unclassified failures are internal, got %v", err)

	found, err := FindProductPlain(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Shirt", found.Title)
	assert.Equal(t, models.StringList{"a.jpg", "b.jpg"}, found.Images)
	assert.Equal(t, owner.ID, found.User.ID)
}

func TestUpdateProductDuplicateTitleLeavesProductUnchanged(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")
	admin := testutil.CreateTestUser(t, db, "admin@example.com", "Admin", models.RoleAdmin)

	_, err := CreateProduct(ctx, db, newShirtInput("Red Shirt"), owner)
	require.NoError(t, err)
	blue, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt", "a.jpg"), owner)
	require.NoError(t, err)

	_, err = UpdateProduct(ctx, db, blue.ID, UpdateProductInput{
		Title:  strPtr("Red Shirt"),
		Images: sliceP("z.jpg"),
	}, admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicate), "expected duplicate, got %v", err)

	found, err := FindProductPlain(ctx, db, blue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Shirt", found.Title)
	assert.Equal(t, models.StringList{"a.jpg"}, found.Images)
	assert.Equal(t, owner.ID, found.User.ID)
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	created, err := CreateProduct(ctx, db, newShirtInput("Blue Shirt", "a.jpg", "b.jpg"), owner)
	require.NoError(t, err)

	require.NoError(t, RemoveProduct(ctx, db, created.ID))

	_, err = FindProduct(ctx, db, created.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	var count int64
	db.Model(&models.ProductImage{}).Where("product_id = ?", created.ID).Count(&count)
	assert.Zero(t, count)

	err = RemoveProduct(ctx, db, created.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestFindProductTerms(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	created, err := CreateProduct(ctx, db, newShirtInput("Men's Blue Shirt", "a.jpg"), owner)
	require.NoError(t, err)

	for _, term := range []string{created.ID, "MEN'S BLUE SHIRT", "men's blue shirt", "mens_blue_shirt", "MENS_BLUE_SHIRT"} {
		found, err := FindProduct(ctx, db, term)
		require.NoError(t, err, "term %q", term)
		assert.Equal(t, created.ID, found.ID)
		assert.Len(t, found.Images, 1)
	}

	_, err = FindProduct(ctx, db, "nothing-here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = FindProduct(ctx, db, uuid.NewString())
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestListProductsPaginates(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := CreateProduct(ctx, db, newShirtInput(title, title+".jpg"), owner)
		require.NoError(t, err)
	}

	all, err := ListProducts(ctx, db, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, p := range all {
		assert.Len(t, p.Images, 1)
	}

	page, err := ListProducts(ctx, db, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestDeleteAllProducts(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	_, err := CreateProduct(ctx, db, newShirtInput("One", "1.jpg"), owner)
	require.NoError(t, err)
	_, err = CreateProduct(ctx, db, newShirtInput("Two", "2.jpg"), owner)
	require.NoError(t, err)

	require.NoError(t, DeleteAllProducts(ctx, db))

	var products, images int64
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.ProductImage{}).Count(&images)
	assert.Zero(t, products)
	assert.Zero(t, images)
}

func TestRegisteredOwnerReplacesImagesEndToEnd(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	tokens := NewTokenIssuer("end-to-end-secret", time.Hour)

	account, err := Register(ctx, db, tokens, RegisterInput{Email: "a@b.com", Password: "Abc123", FullName: "A B"})
	require.NoError(t, err)
	owner, err := FindUserByID(ctx, db, account.ID)
	require.NoError(t, err)

	created, err := CreateProduct(ctx, db, CreateProductInput{
		Title:  "T Shirt",
		Gender: models.GenderUnisex,
		Sizes:  []string{"S", "M"},
		Images: []string{"url1", "url2"},
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"url1", "url2"}, created.Images)
	assert.Equal(t, "t_shirt", created.Slug)

	_, err = UpdateProduct(ctx, db, created.ID, UpdateProductInput{Images: sliceP("url3")}, owner)
	require.NoError(t, err)

	found, err := FindProductPlain(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"url3"}, found.Images)
	assert.Equal(t, owner.ID, found.User.ID)
}
