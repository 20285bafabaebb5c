package testutil

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword satisfies the registration password rule
const TestPassword = "Abc123"

// CreateTestUser inserts an active user with the given roles and TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, email, fullName string, roles ...string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(email),
		Password: string(hash),
		FullName: fullName,
		IsActive: true,
		Roles:    models.StringList(roles),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// DeactivateUser flips is_active off, the column default prevents creating inactive users directly
func DeactivateUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("Failed to deactivate user %s: %v", user.Email, err)
	}
	user.IsActive = false
}

// CreateTestProduct inserts a product with images owned by owner
func CreateTestProduct(t *testing.T, db *gorm.DB, owner *models.User, title string, images ...string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:     uuid.NewString(),
		Title:  title,
		Price:  10,
		Slug:   strings.ReplaceAll(strings.ToLower(title), " ", "_"),
		Stock:  1,
		Sizes:  models.StringList{"M"},
		Gender: models.GenderUnisex,
		Tags:   models.StringList{},
		UserID: owner.ID,
	}
	for _, url := range images {
		product.Images = append(product.Images, models.ProductImage{URL: url})
	}
	if err := db.Omit("User").Create(product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", title, err)
	}
	return product
}
