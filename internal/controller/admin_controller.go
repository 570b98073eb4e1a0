package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"automatehub_backend/internal/model"
	"automatehub_backend/internal/usage"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/email"
	"automatehub_backend/pkg/pricing"
	"automatehub_backend/pkg/utils/storage"
	"automatehub_backend/pkg/utils/validation"
)

type UpdateOrderStatusInput struct {
	Status                  string `json:"status" validate:"required"`
	EstimatedCompletionDate string `json:"estimated_completion_date"` // YYYY-MM-DD, optional
}

// UpdateOrderStatus moves an order through its fulfilment states. Admin
// action is the only thing that mutates an order after checkout wrote it.
func UpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("order_id")

	var order model.Order
	if err := database.GetDB().Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	input := new(UpdateOrderStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	status := model.OrderStatus(input.Status)
	if !model.ValidOrderStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.OrderStatusPending),
				string(model.OrderStatusInProgress),
				string(model.OrderStatusCompleted),
				string(model.OrderStatusCancelled),
			},
		})
	}

	updates := map[string]interface{}{"status": status}
	if input.EstimatedCompletionDate != "" {
		eta, err := time.Parse("2006-01-02", input.EstimatedCompletionDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "estimated_completion_date must be YYYY-MM-DD",
			})
		}
		updates["estimated_completion_date"] = eta
	}

	if err := database.GetDB().Model(&order).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update order",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order updated",
		"order":   order,
	})
}

// ResetUsage is the manual counter reset the data model allows for support
// and admin remediation.
func ResetUsage(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("user_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	if err := usage.Reset(database.GetDB(), uint(userID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reset usage",
		})
	}

	log.Printf("Usage counter reset for user %d by admin", userID)
	return c.JSON(fiber.Map{
		"message": "Usage counter reset",
	})
}

// UploadProductThumbnail stores a processed product image and returns its
// public URL. The catalog data files reference these URLs.
func UploadProductThumbnail(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	if _, ok := productCatalog.Product(productID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	url, err := storage.UploadProductThumbnail(file, productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload thumbnail",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Thumbnail uploaded",
		"url":     url,
	})
}

// ResendOrderConfirmation re-sends the confirmation email for an order.
func ResendOrderConfirmation(c *fiber.Ctx) error {
	orderID := c.Params("order_id")

	var order model.Order
	if err := database.GetDB().Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	if email.GlobalEmailService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Email service is not configured",
		})
	}

	if err := email.GlobalEmailService.SendOrderConfirmationEmail(
		order.Email,
		order.Name,
		order.OrderID,
		order.AutomationCount,
		pricing.FormatUSD(order.OrderTotalCents),
	); err != nil {
		log.Printf("Could not send order confirmation for %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Confirmation email sent",
	})
}
