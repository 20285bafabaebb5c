package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedResult is returned by a completed seed
const SeedResult = "SEED EXECUTED"

// SeedUser is a seed account with its plain password
type SeedUser struct {
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// SeedData is the catalog loaded by RunSeed
type SeedData struct {
	Users    []SeedUser           `json:"users"`
	Products []CreateProductInput `json:"products"`
}

// LoadSeedData parses seed JSON
func LoadSeedData(raw []byte) (*SeedData, error) {
	var seed SeedData
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if len(seed.Users) == 0 {
		return nil, fmt.Errorf("seed data has no users")
	}
	return &seed, nil
}

// RunSeed wipes products and users, then inserts the seed users and the seed
// products owned by the first seed user
func RunSeed(ctx context.Context, db *gorm.DB, seed *SeedData) (string, error) {
	if err := DeleteAllProducts(ctx, db); err != nil {
		return "", err
	}
	if err := DeleteAllUsers(ctx, db); err != nil {
		return "", err
	}

	users := make([]models.User, 0, len(seed.Users))
	for _, su := range seed.Users {
		hash, err := HashPassword(su.Password)
		if err != nil {
			return "", fmt.Errorf("failed to hash password for %s: %w", su.Email, err)
		}
		roles := su.Roles
		if len(roles) == 0 {
			roles = []string{models.RoleUser}
		}
		users = append(users, models.User{
			ID:       uuid.NewString(),
			Email:    NormalizeEmail(su.Email),
			Password: hash,
			FullName: su.FullName,
			IsActive: true,
			Roles:    models.StringList(roles),
		})
	}
	if err := db.WithContext(ctx).Create(&users).Error; err != nil {
		return "", handleDBError("seed users", err)
	}

	owner := &users[0]
	for _, product := range seed.Products {
		if _, err := CreateProduct(ctx, db, product, owner); err != nil {
			return "", err
		}
	}

	zap.L().Info("Seed executed",
		zap.Int("users", len(users)),
		zap.Int("products", len(seed.Products)),
	)

	return SeedResult, nil
}
