package checkout

import (
	"fmt"

	"automatehub_backend/pkg/pricing"
)

// tierPriceIDs maps each discount tier to the Stripe price provisioned for
// it in the dashboard. The mapping is static on purpose: deriving a price
// from the discount rate at runtime is exactly how the displayed and the
// charged price drift apart. A human operator keeps this table and the
// dashboard in lockstep with the pricing tier table.
var tierPriceIDs = map[string]string{
	"Solo":   "price_1QhAKPJxVd9yBq0solo35000",
	"Duo":    "price_1QhAKPJxVd9yBq0duo32500",
	"Squad":  "price_1QhAKPJxVd9yBq0squad30000",
	"Scale":  "price_1QhAKPJxVd9yBq0scale27500",
	"Agency": "price_1QhAKPJxVd9yBq0agency25000",
}

// PriceIDForQuantity selects the pre-provisioned Stripe price for the tier
// covering totalQuantity. The tier comes from the same pricing engine the
// storefront displays with, so the buyer is charged what they saw.
func PriceIDForQuantity(totalQuantity int) (string, pricing.Tier, error) {
	tier, err := pricing.TierFor(totalQuantity)
	if err != nil {
		return "", pricing.Tier{}, err
	}
	priceID, ok := tierPriceIDs[tier.Label]
	if !ok {
		return "", pricing.Tier{}, fmt.Errorf("no Stripe price configured for tier %q", tier.Label)
	}
	return priceID, tier, nil
}
