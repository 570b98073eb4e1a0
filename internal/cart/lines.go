package cart

import (
	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/pricing"
)

// PricingLines converts stored cart rows into the pricing engine's input.
func PricingLines(items []model.CartItem) []pricing.LineItem {
	lines := make([]pricing.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.LineItem{
			ProductID:         it.ProductID,
			UnitPriceCents:    it.UnitPriceCents,
			HoursSavedPerUnit: it.HoursSavedPerUnit,
			Quantity:          it.Quantity,
		})
	}
	return lines
}

// TotalQuantity sums line quantities; the figure every tier decision keys on.
func TotalQuantity(items []model.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
