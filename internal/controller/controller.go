package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserId resolves the authenticated user from the request context,
// or nil for anonymous riders.
func currentUserId(ctx *fiber.Ctx) *uuid.UUID {
	raw := ctx.Locals("user_id")
	if raw == nil {
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return nil
	}
	return &id
}
