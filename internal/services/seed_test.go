package services

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/storefront/data"
	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedDataEmbedded(t *testing.T) {
	seed, err := LoadSeedData(data.SeedJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, seed.Users)
	assert.NotEmpty(t, seed.Products)
	assert.Contains(t, seed.Users[0].Roles, models.RoleAdmin)
}

func TestLoadSeedDataRejectsEmpty(t *testing.T) {
	_, err := LoadSeedData([]byte(`{"users":[],"products":[]}`))
	assert.Error(t, err)

	_, err = LoadSeedData([]byte(`not json`))
	assert.Error(t, err)
}

func TestRunSeedReplacesData(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	stale := testutil.CreateTestUser(t, db, "stale@example.com", "Stale")
	testutil.CreateTestProduct(t, db, stale, "Stale Product", "old.jpg")

	seed := &SeedData{
		Users: []SeedUser{
			{Email: "First@Example.com", FullName: "First", Password: "Abc123", Roles: []string{models.RoleAdmin}},
			{Email: "second@example.com", FullName: "Second", Password: "Abc123"},
		},
		Products: []CreateProductInput{
			{Title: "Seed Shirt", Sizes: []string{"M"}, Gender: models.GenderMen, Images: []string{"1.jpg", "2.jpg"}},
			{Title: "Seed Hat", Sizes: []string{"M"}, Gender: models.GenderUnisex},
		},
	}

	result, err := RunSeed(ctx, db, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult, result)

	var users []models.User
	require.NoError(t, db.Order("email").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "first@example.com", users[0].Email)
	assert.Equal(t, models.StringList{models.RoleUser}, users[1].Roles)

	var staleCount int64
	db.Model(&models.Product{}).Where("title = ?", "Stale Product").Count(&staleCount)
	assert.Zero(t, staleCount)

	shirt, err := FindProductPlain(ctx, db, "seed_shirt")
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, shirt.User.ID)
	assert.Equal(t, models.StringList{"1.jpg", "2.jpg"}, shirt.Images)

	login, err := Login(ctx, db, NewTokenIssuer("seed-test-secret", time.Hour), LoginInput{Email: "first@example.com", Password: "Abc123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}
