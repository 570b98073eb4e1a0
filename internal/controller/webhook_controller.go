package controller

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"

	"automatehub_backend/internal/billing"
	"automatehub_backend/pkg/database"
)

// HandleStripeWebhook verifies the payload signature and hands the event to
// the reconciler. Bad signatures are rejected with no side effect; internal
// failures return 500 so Stripe redelivers.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	if err := billing.HandleEvent(database.GetDB(), event); err != nil {
		log.Printf("Error processing Stripe event %s: %v", event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process event",
		})
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}
