package checkout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/pricing"
)

func TestBuildManifest(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "lead-capture", Name: "Lead Capture Funnel", Quantity: 2},
		{ProductID: "dm-autoresponder", Name: "DM Autoresponder", Quantity: 1},
	}

	manifest, err := BuildManifest(items)
	require.NoError(t, err)

	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal([]byte(manifest), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, ManifestEntry{ID: "lead-capture", Name: "Lead Capture Funnel", Quantity: 2}, entries[0])
	assert.Equal(t, ManifestEntry{ID: "dm-autoresponder", Name: "DM Autoresponder", Quantity: 1}, entries[1])
}

func TestBuildManifestEmptyCart(t *testing.T) {
	manifest, err := BuildManifest(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", manifest)
}

func TestEveryTierHasAStripePrice(t *testing.T) {
	for _, tier := range pricing.Tiers() {
		assert.Containsf(t, tierPriceIDs, tier.Label, "tier %s has no Stripe price", tier.Label)
	}
	assert.Len(t, tierPriceIDs, len(pricing.Tiers()))
}

// The price charged at checkout and the tier displayed in the cart must
// come from the same selection. Walking a range of quantities proves the
// mapping never disagrees with the pricing engine.
func TestPriceIDMatchesDisplayedTier(t *testing.T) {
	for q := 1; q <= 60; q++ {
		priceID, tier, err := PriceIDForQuantity(q)
		require.NoError(t, err)

		displayed, err := pricing.TierFor(q)
		require.NoError(t, err)

		assert.Equalf(t, displayed.Label, tier.Label, "tier mismatch at quantity %d", q)
		assert.Equal(t, tierPriceIDs[displayed.Label], priceID)
	}
}

func TestPriceIDForQuantityRejectsNonPositive(t *testing.T) {
	_, _, err := PriceIDForQuantity(0)
	assert.ErrorIs(t, err, pricing.ErrNoTier)
}

func TestNewOrderSnapshot(t *testing.T) {
	buyer := BuyerInfo{
		Name:      "Jordan Reyes",
		Email:     "jordan@example.com",
		BrandName: "Reyes Media",
		Website:   "https://reyesmedia.io",
		Message:   "Rush if possible",
	}
	items := []model.CartItem{
		{ProductID: "lead-capture", Name: "Lead Capture Funnel", UnitPriceCents: 35000, HoursSavedPerUnit: 12, Quantity: 3},
	}

	totals, err := pricing.ComputeTotals([]pricing.LineItem{
		{ProductID: "lead-capture", UnitPriceCents: 35000, HoursSavedPerUnit: 12, Quantity: 3},
	}, nil)
	require.NoError(t, err)

	order := NewOrderSnapshot("ord-123", buyer, items, totals)

	assert.Equal(t, "ord-123", order.OrderID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(97500), order.OrderTotalCents)
	assert.Equal(t, 3, order.AutomationCount)
	assert.Equal(t, "Rush if possible", order.Message)

	// The manifest column is a JSON type; the snapshot must always hold a
	// document the reconciler can unmarshal back into entries.
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(order.CartManifest, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, ManifestEntry{ID: "lead-capture", Name: "Lead Capture Funnel", Quantity: 3}, entries[0])
}

func TestNewOrderSnapshotEmptyCartManifestIsValidJSON(t *testing.T) {
	order := NewOrderSnapshot("ord-empty", BuyerInfo{Name: "A", Email: "a@example.com"}, nil, pricing.Totals{})

	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(order.CartManifest, &entries))
	assert.Empty(t, entries)
}

func TestSessionMetadata(t *testing.T) {
	buyer := BuyerInfo{Name: "Jordan Reyes", Email: "jordan@example.com", BrandName: "Reyes Media"}
	totals := pricing.Totals{TotalQuantity: 3}

	meta := SessionMetadata("ord-123", buyer, totals, "price_abc", `[{"id":"x"}]`)

	assert.Equal(t, "ord-123", meta["order_id"])
	assert.Equal(t, "jordan@example.com", meta["buyer_email"])
	assert.Equal(t, "3", meta["automation_count"])
	assert.Equal(t, "price_abc", meta["price_id"])
	assert.Equal(t, `[{"id":"x"}]`, meta["cart_manifest"])
}

func TestNewOrderIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewOrderID(), NewOrderID())
}
