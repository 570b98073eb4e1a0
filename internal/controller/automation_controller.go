package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"automatehub_backend/internal/model"
	"automatehub_backend/internal/usage"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/utils/jwt"
)

type AutomationInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateAutomation is the metered action: the usage gate must admit the
// caller before the row is written.
func CreateAutomation(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(AutomationInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Automation name is required",
		})
	}

	status, err := usage.Increment(database.GetDB(), claims.UserID, "automation_created")
	if err == usage.ErrNoSubscription || err == usage.ErrLimitReached {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":  status.Reason,
			"status": status,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not verify usage allowance",
		})
	}

	automation := model.Automation{
		UserID:      claims.UserID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := database.GetDB().Create(&automation).Error; err != nil {
		// The allowance unit is already spent; surface the failure loudly
		// so support can reconcile instead of silently eating the credit.
		log.Printf("Usage incremented but automation create failed for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create automation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"automation": automation,
		"usage":      status,
	})
}

func ListMyAutomations(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var automations []model.Automation
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Order("created_at desc").Find(&automations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch automations",
		})
	}

	return c.JSON(automations)
}
