package controller

import (
	"github.com/gofiber/fiber/v2"

	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/database"
)

// GetOrder lets a buyer track an order by its opaque id.
func GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("order_id")

	var order model.Order
	if err := database.GetDB().Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	return c.JSON(order)
}
