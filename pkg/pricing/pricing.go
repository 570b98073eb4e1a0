package pricing

import (
	"errors"
	"fmt"
)

// BasePriceCents is the undiscounted per-automation price ($350.00). Every
// catalog automation sells at this base; volume tiers discount it.
const BasePriceCents int64 = 35000

var ErrNoTier = errors.New("no discount tier covers the requested quantity")

// Tier is a contiguous quantity range mapped to a fixed per-unit price.
// MaxQty == 0 means the tier is open-ended.
type Tier struct {
	Label          string `json:"label"`
	MinQty         int    `json:"min_qty"`
	MaxQty         int    `json:"max_qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// The tier table must stay in lockstep with the price ids provisioned in the
// Stripe dashboard (see internal/checkout). Tiers are sorted ascending by
// MinQty, contiguous, and cover [1, inf).
var tiers = []Tier{
	{Label: "Solo", MinQty: 1, MaxQty: 1, UnitPriceCents: 35000},
	{Label: "Duo", MinQty: 2, MaxQty: 3, UnitPriceCents: 32500},
	{Label: "Squad", MinQty: 4, MaxQty: 9, UnitPriceCents: 30000},
	{Label: "Scale", MinQty: 10, MaxQty: 24, UnitPriceCents: 27500},
	{Label: "Agency", MinQty: 25, MaxQty: 0, UnitPriceCents: 25000},
}

// Tiers returns the full tier table in ascending quantity order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierFor returns the unique tier whose range contains totalQuantity.
// The table is a static invariant; ErrNoTier at runtime means the table
// itself is broken, not that the input is unusual.
func TierFor(totalQuantity int) (Tier, error) {
	if totalQuantity < 1 {
		return Tier{}, fmt.Errorf("%w: quantity %d", ErrNoTier, totalQuantity)
	}
	for _, t := range tiers {
		if totalQuantity >= t.MinQty && (t.MaxQty == 0 || totalQuantity <= t.MaxQty) {
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: quantity %d", ErrNoTier, totalQuantity)
}

// Rate is the fraction off the base price. Never round this before further
// arithmetic; rounding is for display only.
func (t Tier) Rate() float64 {
	return 1 - float64(t.UnitPriceCents)/float64(BasePriceCents)
}

// DiscountPercent is the display-rounded rate, e.g. 7 for the Duo tier.
func (t Tier) DiscountPercent() int {
	return int(t.Rate()*100 + 0.5)
}

// LineItem is the pricing engine's view of one cart line.
type LineItem struct {
	ProductID         string
	UnitPriceCents    int64
	HoursSavedPerUnit int
	Quantity          int
}

// Upsell is a resolved add-on with its catalog price.
type Upsell struct {
	ID         string
	PriceCents int64
}

// Totals carries every figure the storefront displays, in integer cents.
type Totals struct {
	TotalQuantity int     `json:"total_quantity"`
	SubtotalCents int64   `json:"subtotal_cents"`
	DiscountCents int64   `json:"discount_cents"`
	UpsellCents   int64   `json:"upsell_cents"`
	TotalCents    int64   `json:"total_cents"`
	DiscountRate  float64 `json:"discount_rate"`
	HoursSaved    int     `json:"hours_saved"`
	Tier          Tier    `json:"tier"`
}

// ComputeTotals derives all display figures for a cart. It is pure: the same
// inputs produce the same tier here and in the checkout session builder,
// which is what keeps the displayed price equal to the charged price.
// An empty cart yields zero totals and no tier.
func ComputeTotals(lines []LineItem, upsells []Upsell) (Totals, error) {
	totalQty := 0
	hoursSaved := 0
	for _, l := range lines {
		totalQty += l.Quantity
		hoursSaved += l.HoursSavedPerUnit * l.Quantity
	}

	if totalQty == 0 {
		return Totals{}, nil
	}

	tier, err := TierFor(totalQty)
	if err != nil {
		return Totals{}, err
	}

	subtotal := int64(totalQty) * tier.UnitPriceCents
	discount := int64(totalQty)*BasePriceCents - subtotal

	var upsellTotal int64
	for _, u := range upsells {
		upsellTotal += u.PriceCents
	}

	return Totals{
		TotalQuantity: totalQty,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		UpsellCents:   upsellTotal,
		TotalCents:    subtotal + upsellTotal,
		DiscountRate:  tier.Rate(),
		HoursSaved:    hoursSaved,
		Tier:          tier,
	}, nil
}

// FormatUSD renders cents as a dollar string, e.g. 32500 -> "$325.00".
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
