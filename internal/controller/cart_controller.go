package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"automatehub_backend/internal/cart"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/pricing"
	"automatehub_backend/pkg/utils/jwt"
)

type AddCartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

type MergeCartInput struct {
	GuestToken string `json:"guest_token" validate:"required"`
}

// cartStoreFromRequest picks the backing strategy for the caller's identity:
// authenticated users get their user-scoped rows, everyone else needs a
// guest token. The rest of the cart code never knows which one it got.
func cartStoreFromRequest(c *fiber.Ctx) (*cart.Store, error) {
	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		return cart.NewStore(cart.UserBackend(database.GetDB(), claims.UserID)), nil
	}

	token := c.Get("X-Guest-Token")
	if token == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Sign in or supply an X-Guest-Token header")
	}
	return cart.NewStore(cart.GuestBackend(database.GetDB(), token)), nil
}

func GetCart(c *fiber.Ctx) error {
	store, err := cartStoreFromRequest(c)
	if err != nil {
		return err
	}

	items, err := store.Load()
	if err != nil {
		// Retries are exhausted at this point; tell the client explicitly
		// so it can keep showing its last known cart and offer a retry.
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Could not load cart. Please retry.",
		})
	}

	return c.JSON(fiber.Map{
		"items":          items,
		"total_quantity": cart.TotalQuantity(items),
	})
}

func AddCartItem(c *fiber.Ctx) error {
	store, err := cartStoreFromRequest(c)
	if err != nil {
		return err
	}

	input := new(AddCartItemInput)
	if err := c.BodyParser(input); err != nil || input.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	product, ok := productCatalog.Product(input.ProductID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	quantity, err := store.AddItem(product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add item to cart",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Item added to cart",
		"product_id": product.ID,
		"quantity":   quantity,
	})
}

func UpdateCartItemQuantity(c *fiber.Ctx) error {
	store, err := cartStoreFromRequest(c)
	if err != nil {
		return err
	}

	productID := c.Params("product_id")

	input := new(UpdateQuantityInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := store.UpdateQuantity(productID, input.Quantity); err != nil {
		if errors.Is(err, cart.ErrNotInCart) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product is not in the cart",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update quantity",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func RemoveCartItem(c *fiber.Ctx) error {
	store, err := cartStoreFromRequest(c)
	if err != nil {
		return err
	}

	if err := store.RemoveItem(c.Params("product_id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove item",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ClearCart empties the cart. The storefront calls this from the
// post-payment success page, never during checkout itself.
func ClearCart(c *fiber.Ctx) error {
	store, err := cartStoreFromRequest(c)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not clear cart",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetCartTotals runs the pricing engine over the current cart. This is the
// same computation checkout uses to size the Stripe line item.
func GetCartTotals(c *fiber.Ctx) error {
	store, err := cartStoreFromRequest(c)
	if err != nil {
		return err
	}

	items, err := store.Load()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Could not load cart. Please retry.",
		})
	}

	var upsellIDs []string
	if raw := c.Query("upsells"); raw != "" {
		upsellIDs = strings.Split(raw, ",")
	}

	totals, err := pricing.ComputeTotals(cart.PricingLines(items), productCatalog.ResolveUpsells(upsellIDs))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Pricing configuration error",
		})
	}

	return c.JSON(fiber.Map{
		"totals":           totals,
		"tier_label":       totals.Tier.Label,
		"discount_percent": totals.Tier.DiscountPercent(),
		"subtotal":         pricing.FormatUSD(totals.SubtotalCents),
		"discount":         pricing.FormatUSD(totals.DiscountCents),
		"total":            pricing.FormatUSD(totals.TotalCents),
	})
}

// MergeCart folds a guest cart into the authenticated user's cart once,
// right after sign-in. The guest rows are deleted as part of the merge, so
// replaying the call with the same token finds nothing to add.
func MergeCart(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(MergeCartInput)
	if err := c.BodyParser(input); err != nil || input.GuestToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "guest_token is required",
		})
	}

	items, err := cart.MergeGuestIntoUser(database.GetDB(), input.GuestToken, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not merge carts",
		})
	}

	return c.JSON(fiber.Map{
		"message":        "Cart merged",
		"items":          items,
		"total_quantity": cart.TotalQuantity(items),
	})
}
