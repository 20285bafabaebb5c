package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/storefront/internal/config"
	"github.com/localnerve/storefront/internal/database"
	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/testutil"
	"github.com/localnerve/storefront/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func floatPtr(f float64) *float64 { return &f }

func TestWithPostgreSQL(t *testing.T) {
	cfg := testutil.StartPostgres(t)
	runCatalogSuite(t, cfg)
}

func TestWithMariaDB(t *testing.T) {
	cfg := testutil.StartMariaDB(t)
	runCatalogSuite(t, cfg)
}

func runCatalogSuite(t *testing.T, cfg *config.Config) {
	db, err := database.Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	t.Run("UpdateIsAtomic", func(t *testing.T) { testUpdateIsAtomic(t, db) })
	t.Run("DuplicateIsClassified", func(t *testing.T) { testDuplicateIsClassified(t, db) })
	t.Run("ConcurrentUpdatesDoNotMergeImages", func(t *testing.T) { testConcurrentUpdates(t, db) })
	t.Run("Seed", func(t *testing.T) { testSeed(t, db) })
}

func testUpdateIsAtomic(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, db, "owner-atomic@example.com", "Owner")
	admin := testutil.CreateTestUser(t, db, "admin-atomic@example.com", "Admin", models.RoleAdmin)

	created, err := CreateProduct(ctx, db, newShirtInput("Atomic Shirt", "a.jpg", "b.jpg"), owner)
	require.NoError(t, err)
	other, err := CreateProduct(ctx, db, newShirtInput("Other Shirt"), owner)
	require.NoError(t, err)

	updated, err := UpdateProduct(ctx, db, created.ID, UpdateProductInput{
		Price:  floatPtr(99),
		Images: sliceP("c.jpg"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Price)
	assert.Equal(t, models.StringList{"c.jpg"}, updated.Images)
	assert.Equal(t, admin.ID, updated.User.ID)

	// Unique violation on title rolls back the image replacement
	_, err = UpdateProduct(ctx, db, created.ID, UpdateProductInput{
		Title:  strPtr(other.Title),
		Images: sliceP("d.jpg"),
	}, owner)
	require.ErrorIs(t, err, types.ErrDuplicate)

	found, err := FindProductPlain(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Atomic Shirt", found.Title)
	assert.Equal(t, models.StringList{"c.jpg"}, found.Images)
	assert.Equal(t, admin.ID, found.User.ID)
}

func testDuplicateIsClassified(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, db, "owner-dup@example.com", "Owner")

	_, err := CreateProduct(ctx, db, newShirtInput("Twin Shirt"), owner)
	require.NoError(t, err)
	_, err = CreateProduct(ctx, db, newShirtInput("Twin Shirt"), owner)
	require.ErrorIs(t, err, types.ErrDuplicate)
	assert.NotEmpty(t, types.AsCustomError(err).Message)
}

func testConcurrentUpdates(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, db, "owner-race@example.com", "Owner")

	created, err := CreateProduct(ctx, db, newShirtInput("Race Shirt", "start.jpg"), owner)
	require.NoError(t, err)

	const writers = 4
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			images := sliceP(fmt.Sprintf("w%d-1.jpg", i), fmt.Sprintf("w%d-2.jpg", i))
			_, err := UpdateProduct(ctx, db, created.ID, UpdateProductInput{Images: images}, owner)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	found, err := FindProductPlain(ctx, db, created.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 2)

	// Both images come from the same writer
	writer, _, _ := strings.Cut(found.Images[0], "-")
	assert.Equal(t, writer+"-2.jpg", found.Images[1])
}

func testSeed(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	seed := &SeedData{
		Users: []SeedUser{{Email: "seed@example.com", Password: "Abc123", FullName: "Seed", Roles: []string{models.RoleAdmin}}},
		Products: []CreateProductInput{
			newShirtInput("Seeded One", "1.jpg"),
			newShirtInput("Seeded Two"),
		},
	}

	result, err := RunSeed(ctx, db, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult, result)

	products, err := ListProducts(ctx, db, 100, 0)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = FindUserByID(ctx, db, "not-there")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestProductCacheWithRedis(t *testing.T) {
	addr := testutil.StartRedis(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner One")

	client := NewRedisClient(addr)
	defer client.Close()
	cache := NewProductCache(client, time.Minute)
	require.NoError(t, cache.Ping(ctx))

	created, err := CreateProduct(ctx, db, newShirtInput("Cached Shirt", "a.jpg"), owner)
	require.NoError(t, err)

	first, err := cache.FindProductPlain(ctx, db, "CACHED SHIRT")
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ID)

	// A write behind the cache's back is not seen until invalidation
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", created.ID).Update("price", 77).Error)
	stale, err := cache.FindProductPlain(ctx, db, "cached shirt")
	require.NoError(t, err)
	assert.Equal(t, first.Price, stale.Price)

	cache.Invalidate(ctx, first)
	fresh, err := cache.FindProductPlain(ctx, db, "cached shirt")
	require.NoError(t, err)
	assert.Equal(t, 77.0, fresh.Price)

	cache.Clear(ctx)
	keys, err := client.Keys(ctx, "product:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
