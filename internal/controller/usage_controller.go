package controller

import (
	"github.com/gofiber/fiber/v2"

	"automatehub_backend/internal/usage"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/utils/jwt"
)

type IncrementUsageInput struct {
	Action string `json:"action"`
}

// GetUsage reports the caller's current allowance.
func GetUsage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	status, err := usage.Check(database.GetDB(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check usage",
		})
	}

	return c.JSON(status)
}

// IncrementUsage consumes one unit of the caller's allowance. The limit is
// re-checked atomically inside the gate, not trusted from any prior check.
func IncrementUsage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(IncrementUsageInput)
	if err := c.BodyParser(input); err != nil || input.Action == "" {
		input.Action = "automation_created"
	}

	status, err := usage.Increment(database.GetDB(), claims.UserID, input.Action)
	switch err {
	case nil:
		return c.JSON(status)
	case usage.ErrNoSubscription, usage.ErrLimitReached:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":  status.Reason,
			"status": status,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update usage",
		})
	}
}
