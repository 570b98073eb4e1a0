package model

import (
	"time"

	"gorm.io/gorm"
)

// UserSubscription mirrors the Stripe subscription that entitles a user to
// create automations. One row per user at most; rows are never deleted,
// cancelled subscriptions stay around with Status "canceled".
type UserSubscription struct {
	gorm.Model
	UserID           uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	StripeCustomerID string `json:"stripe_customer_id"`
	StripeSubID      string `json:"stripe_subscription_id" gorm:"index"`
	StripePriceID    string `json:"stripe_price_id"`

	AutomationLimit int    `json:"automation_limit"`
	AutomationsUsed int    `json:"automations_used"`
	Status          string `json:"status" gorm:"default:'active'"`

	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// UsageLog is the audit trail appended on every successful usage increment.
type UsageLog struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	Action string `json:"action"`
}
