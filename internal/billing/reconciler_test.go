package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"automatehub_backend/internal/model"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		eventType string
		want      eventKind
	}{
		{eventType: "checkout.session.completed", want: kindCheckoutCompleted},
		{eventType: "customer.subscription.updated", want: kindSubscriptionUpdated},
		{eventType: "customer.subscription.deleted", want: kindSubscriptionDeleted},
		{eventType: "invoice.payment_succeeded", want: kindInvoicePaid},
		{eventType: "payment_intent.created", want: kindIgnored},
		{eventType: "charge.refunded", want: kindIgnored},
		{eventType: "", want: kindIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(tt.eventType))
		})
	}
}

func TestApplyCheckoutCompletedResetsUsage(t *testing.T) {
	row := model.UserSubscription{
		UserID:          42,
		AutomationLimit: 2,
		AutomationsUsed: 3,
		Status:          "past_due",
	}

	applyCheckoutCompleted(&row, "cus_123", "sub_456", "price_789", 5)

	assert.Equal(t, "cus_123", row.StripeCustomerID)
	assert.Equal(t, "sub_456", row.StripeSubID)
	assert.Equal(t, "price_789", row.StripePriceID)
	assert.Equal(t, 5, row.AutomationLimit)
	assert.Equal(t, 0, row.AutomationsUsed, "a fresh grant always starts with zero usage")
	assert.Equal(t, "active", row.Status)
}

func TestApplyCheckoutCompletedIsIdempotent(t *testing.T) {
	var first, second model.UserSubscription
	first.UserID, second.UserID = 7, 7

	applyCheckoutCompleted(&first, "cus_a", "sub_a", "price_a", 3)
	second = first
	second.AutomationsUsed = 1
	// Redelivery of the same completion lands on the mutated row.
	applyCheckoutCompleted(&second, "cus_a", "sub_a", "price_a", 3)

	assert.Equal(t, first, second)
}

func TestApplySubscriptionUpdate(t *testing.T) {
	row := model.UserSubscription{
		AutomationLimit: 3,
		AutomationsUsed: 2,
		Status:          "active",
	}

	applySubscriptionUpdate(&row, 10, "past_due", 1735689600, 1738368000, true)

	assert.Equal(t, 10, row.AutomationLimit)
	assert.Equal(t, 2, row.AutomationsUsed, "updates never touch the usage counter")
	assert.Equal(t, "past_due", row.Status)
	assert.Equal(t, int64(1735689600), row.CurrentPeriodStart.Unix())
	assert.Equal(t, int64(1738368000), row.CurrentPeriodEnd.Unix())
	assert.True(t, row.CancelAtPeriodEnd)
}

func TestApplySubscriptionUpdateKeepsLimitWhenQuantityMissing(t *testing.T) {
	row := model.UserSubscription{AutomationLimit: 5, Status: "active"}

	applySubscriptionUpdate(&row, 0, "active", 0, 0, false)

	assert.Equal(t, 5, row.AutomationLimit)
}

func TestApplySubscriptionUpdateIsIdempotent(t *testing.T) {
	row := model.UserSubscription{AutomationLimit: 3, AutomationsUsed: 1, Status: "active"}

	applySubscriptionUpdate(&row, 8, "active", 1735689600, 1738368000, false)
	once := row
	applySubscriptionUpdate(&row, 8, "active", 1735689600, 1738368000, false)

	assert.Equal(t, once, row)
}
