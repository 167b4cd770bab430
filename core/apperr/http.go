package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// genericServerError is the only message storage failures expose to clients.
const genericServerError = "a server error occurred"

// StatusCode maps an error onto an HTTP status.
func StatusCode(err error) int {
	var (
		v *ValidationError
		n *NotFoundError
		c *ConflictError
		f *fiber.Error
	)
	switch {
	case errors.As(err, &v):
		return fiber.StatusBadRequest
	case errors.As(err, &n):
		return fiber.StatusNotFound
	case errors.As(err, &c):
		return fiber.StatusConflict
	case errors.As(err, &f):
		return f.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the client-facing reason for err.
func Message(err error) string {
	if StatusCode(err) >= fiber.StatusInternalServerError {
		return genericServerError
	}
	return err.Error()
}

// Write logs err and renders it as a JSON error body.
func Write(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Request failed", zap.Error(err))
	} else {
		l.Info("Request rejected", zap.Int("status", status), zap.String("reason", err.Error()))
	}
	return c.Status(status).JSON(fiber.Map{"error": Message(err)})
}
