package utils_test

import (
	"errors"
	"fmt"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/testutil"
	"github.com/localnerve/storefront/internal/types"
	"github.com/localnerve/storefront/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,password"`
	Age      int    `json:"age" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(account{Email: "a@b.co", Password: "Abc123"}))

	err := utils.ValidateStruct(account{Email: "nope", Password: "abc123", Age: -1})
	require.ErrorIs(t, err, types.ErrValidation)

	ce := types.AsCustomError(err)
	assert.Equal(t, fiber.StatusBadRequest, ce.Code)
	assert.Equal(t,
		"The password must have a Uppercase, lowercase letter and a number; age must be greater than or equal to 0; email must be a valid email",
		ce.Message)
}

func TestValidateStructLength(t *testing.T) {
	err := utils.ValidateStruct(account{Email: "a@b.co", Password: "Ab1"})
	require.Error(t, err)
	assert.Equal(t, "password must be at least 6 characters", types.AsCustomError(err).Message)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{name: "custom", err: types.NewNotFound("Product with %s not found", "x"), wantStatus: 404, wantType: types.TypeNotFound, wantMsg: "Product with x not found"},
		{name: "wrapped custom", err: fmt.Errorf("update: %w", types.NewForbidden("nope")), wantStatus: 403, wantType: types.TypeForbidden, wantMsg: "nope"},
		{name: "fiber", err: fiber.ErrMethodNotAllowed, wantStatus: 405, wantType: "http", wantMsg: "Method Not Allowed"},
		{name: "fiber not found", err: fiber.ErrNotFound, wantStatus: 404, wantType: types.TypeNotFound, wantMsg: "Not Found"},
		{name: "plain", err: errors.New("secret driver detail"), wantStatus: 500, wantType: types.TypeInternal, wantMsg: types.InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
			app.Get("/boom", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/boom?x=1", nil))
			require.NoError(t, err)

			body := testutil.AssertErrorType(t, resp, tt.wantStatus, tt.wantType)
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.Equal(t, "/boom?x=1", body["url"])
			assert.EqualValues(t, tt.wantStatus, body["status"])
		})
	}
}

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.NoError(t, utils.PingAPI("http://"+ln.Addr().String()+"/api"))
	assert.Error(t, utils.PingAPI("http://127.0.0.1:1/api"))
	assert.Error(t, utils.PingAPI("://bad"))
}

func TestPingServiceDefaultPorts(t *testing.T) {
	err := utils.PingService("gopher://example.invalid", 10*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no port for scheme")

	err = utils.PingService("http:///path-only", 10*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing host")
}
