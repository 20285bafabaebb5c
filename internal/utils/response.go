package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/storefront/internal/types"
	"go.uber.org/zap"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, types.TypeNotFound)
}

// ErrorHandler is the global fiber error handler. CustomErrors render with their own
// code and type, fiber errors keep their status, anything else is an opaque internal error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		if customErr.Code >= fiber.StatusInternalServerError {
			zap.L().Error("Request failed", zap.String("url", c.OriginalURL()), zap.Error(err))
		}
		return ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		errorType := "http"
		if fiberErr.Code == fiber.StatusNotFound {
			errorType = types.TypeNotFound
		}
		return ErrorResponse(c, fiberErr.Message, fiberErr.Code, errorType)
	}

	zap.L().Error("Unhandled error", zap.String("url", c.OriginalURL()), zap.Error(err))
	return ErrorResponse(c, types.InternalMessage, fiber.StatusInternalServerError, types.TypeInternal)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// MessageResponseStruct defines the schema for plain message responses
type MessageResponseStruct struct {
	Message string `json:"message"`
}
