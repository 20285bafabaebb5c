package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/types"
)

// APIVersion is the version served when the client does not ask for one
const APIVersion = "1.0.0"

// VersionKey is the fiber Locals key holding the negotiated API version
const VersionKey = "apiVersion"

// VersionMiddleware parses the X-Api-Version header, rejects unsupported major
// versions and echoes the served version back
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = APIVersion
		}

		if major, _, _ := strings.Cut(version, "."); major != "1" {
			return types.NewValidation("Unsupported API version " + version)
		}

		// Store version in context
		c.Locals(VersionKey, version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
