package controller

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"automatehub_backend/internal/cart"
	"automatehub_backend/internal/checkout"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/pricing"
	"automatehub_backend/pkg/utils/jwt"
)

type CheckoutInput struct {
	checkout.BuyerInfo
	UpsellIDs []string `json:"upsell_ids"`
}

// CreateCheckoutSession converts the current cart and buyer info into an
// order snapshot plus a hosted Stripe checkout session. The cart itself is
// left untouched; it is cleared only from the post-payment success page.
func CreateCheckoutSession(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Name == "" || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and email are required",
		})
	}

	store := cart.NewStore(cart.UserBackend(database.GetDB(), claims.UserID))
	items, err := store.Load()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Could not load cart. Please retry.",
		})
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cart is empty",
		})
	}

	totals, err := pricing.ComputeTotals(cart.PricingLines(items), productCatalog.ResolveUpsells(input.UpsellIDs))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Pricing configuration error",
		})
	}

	priceID, _, err := checkout.PriceIDForQuantity(totals.TotalQuantity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Pricing configuration error",
		})
	}

	orderID := checkout.NewOrderID()

	// Order snapshot is best-effort: the session metadata carries enough to
	// re-derive it, so a failed write must not block the checkout.
	order := checkout.NewOrderSnapshot(orderID, input.BuyerInfo, items, totals)
	if err := database.GetDB().Create(&order).Error; err != nil {
		log.Printf("Could not persist order snapshot %s: %v", orderID, err)
	}

	manifest, err := checkout.BuildManifest(items)
	if err != nil {
		log.Printf("Could not serialize cart manifest for order %s: %v", orderID, err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	successURL := os.Getenv("CHECKOUT_SUCCESS_URL")
	if successURL == "" {
		successURL = "https://automatehub.io/checkout/success"
	}
	cancelURL := os.Getenv("CHECKOUT_CANCEL_URL")
	if cancelURL == "" {
		cancelURL = "https://automatehub.io/cart"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(int64(totals.TotalQuantity)),
			},
		},
		CustomerEmail: stripe.String(claims.Email),
		SuccessURL:    stripe.String(successURL + "?order_id=" + orderID),
		CancelURL:     stripe.String(cancelURL),
	}
	for k, v := range checkout.SessionMetadata(orderID, input.BuyerInfo, totals, priceID, manifest) {
		params.AddMetadata(k, v)
	}

	checkoutSession, err := session.New(params)
	if err != nil {
		// Not retried here: creating a payment session is a user-initiated
		// money operation and we carry no idempotency key for it.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"url":      checkoutSession.URL,
		"order_id": orderID,
	})
}
