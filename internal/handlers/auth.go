package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/middleware"
	"github.com/localnerve/storefront/internal/services"
	"gorm.io/gorm"
)

// AuthHandler handles account routes
type AuthHandler struct {
	DB     *gorm.DB
	Tokens *services.TokenIssuer
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Description Create an active account with the user role and return a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	result, err := services.Register(c.UserContext(), h.DB, h.Tokens, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Exchange credentials for a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	result, err := services.Login(c.UserContext(), h.DB, h.Tokens, input)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// CheckStatus handles GET /api/auth/check-status
// @Summary Refresh the token
// @Description Return the authenticated user with a new token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/check-status [get]
func (h *AuthHandler) CheckStatus(c *fiber.Ctx) error {
	result, err := services.CheckStatus(h.Tokens, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Private handles GET /api/auth/private
// @Summary Admin probe
// @Description Succeeds only for admins
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/private [get]
func (h *AuthHandler) Private(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":   true,
		"user": middleware.CurrentUser(c),
	})
}
