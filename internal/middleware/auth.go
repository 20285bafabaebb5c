package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/services"
	"github.com/localnerve/storefront/internal/types"
	"gorm.io/gorm"
)

// UserKey is the fiber Locals key holding the authenticated *models.User
const UserKey = "user"

// Authenticator guards routes with bearer tokens and role checks
type Authenticator struct {
	DB     *gorm.DB
	Tokens *services.TokenIssuer
}

// Auth requires a valid token for an active user holding one of roles.
// No roles means any authenticated user.
func (a *Authenticator) Auth(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return a.authorize(c, roles)
	}
}

// AuthAdmin validates that the request has admin role authorization
func (a *Authenticator) AuthAdmin() fiber.Handler {
	return a.Auth(models.RoleAdmin)
}

// authorize performs the authorization check
func (a *Authenticator) authorize(c *fiber.Ctx, roles []string) error {
	user, err := services.Authenticate(c.UserContext(), a.DB, a.Tokens, BearerToken(c))
	if err != nil {
		return err
	}

	if !user.HasAnyRole(roles...) {
		return types.NewForbidden(fmt.Sprintf("User %s need a valid role: [%s]",
			user.FullName, strings.Join(roles, ", ")))
	}

	// Set user data in context
	c.Locals(UserKey, user)

	return c.Next()
}

// BearerToken reads the token from the Authorization header, the authentication
// header or the token query parameter, in that order
func BearerToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if header := c.Get("authentication"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

// CurrentUser returns the user stored by Auth, nil on unguarded routes
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
