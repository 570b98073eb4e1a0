// Package checkout turns the current cart plus buyer info into a durable
// order snapshot and a hosted Stripe checkout session sized by the pricing
// engine's tier selection.
package checkout

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/pricing"
)

// BuyerInfo is what the checkout form collects. Name and email are
// validated before any network call; the rest is optional.
type BuyerInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	BrandName string `json:"brand_name"`
	Website   string `json:"website"`
	Message   string `json:"message"`
}

// ManifestEntry is one cart line in the session metadata. The manifest is
// the only linkage the webhook reconciler has back to what was bought.
type ManifestEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// BuildManifest serializes the cart lines for session metadata.
func BuildManifest(items []model.CartItem) (string, error) {
	entries := make([]ManifestEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, ManifestEntry{
			ID:       it.ProductID,
			Name:     it.Name,
			Quantity: it.Quantity,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewOrderID mints the buyer-facing order identifier.
func NewOrderID() string {
	return uuid.NewString()
}

// NewOrderSnapshot builds the append-only order row written before the
// payment redirect. Persisting it is best-effort: the processor metadata
// carries enough to re-derive the order if this write fails.
func NewOrderSnapshot(orderID string, buyer BuyerInfo, items []model.CartItem, totals pricing.Totals) model.Order {
	manifest, err := BuildManifest(items)
	if err != nil {
		// The column is a JSON type; an empty array keeps it valid.
		manifest = "[]"
	}
	return model.Order{
		OrderID:         orderID,
		Name:            buyer.Name,
		Email:           buyer.Email,
		BrandName:       buyer.BrandName,
		Website:         buyer.Website,
		Status:          model.OrderStatusPending,
		OrderTotalCents: totals.TotalCents,
		AutomationCount: totals.TotalQuantity,
		CartManifest:    datatypes.JSON(manifest),
		Message:         buyer.Message,
	}
}

// SessionMetadata assembles the key/value metadata attached to the Stripe
// session: buyer identity, the billed automation count, the price actually
// used, and the serialized cart manifest.
func SessionMetadata(orderID string, buyer BuyerInfo, totals pricing.Totals, priceID, manifest string) map[string]string {
	return map[string]string{
		"order_id":         orderID,
		"buyer_name":       buyer.Name,
		"buyer_email":      buyer.Email,
		"brand_name":       buyer.BrandName,
		"automation_count": strconv.Itoa(totals.TotalQuantity),
		"price_id":         priceID,
		"cart_manifest":    manifest,
	}
}
