package handlers

import (
	"errors"

	"cleanroster/internal/types"

	"github.com/gofiber/fiber/v2"
)

var errorStatuses = []struct {
	kind   error
	status int
}{
	{types.ErrValidation, fiber.StatusBadRequest},
	{types.ErrUnauthorized, fiber.StatusUnauthorized},
	{types.ErrForbidden, fiber.StatusForbidden},
	{types.ErrNotFound, fiber.StatusNotFound},
	{types.ErrInvalidState, fiber.StatusConflict},
	{types.ErrConflict, fiber.StatusConflict},
	{types.ErrNoEligibleGroup, fiber.StatusUnprocessableEntity},
	{types.ErrStoreUnavailable, fiber.StatusServiceUnavailable},
}

func errorStatus(err error) int {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.kind) {
			return entry.status
		}
	}
	return fiber.StatusInternalServerError
}

// respondError maps domain errors to a status code. Unclassified errors are
// logged and replaced with fallback so internals never leak to the client.
func (h *Handler) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := errorStatus(err)

	message := err.Error()
	switch status {
	case fiber.StatusInternalServerError:
		h.log.TraceFromContext(c.UserContext()).Er(fallback, err, "path", c.Path())
		message = fallback
	case fiber.StatusServiceUnavailable:
		message = "Service temporarily unavailable"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Authentication required",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
