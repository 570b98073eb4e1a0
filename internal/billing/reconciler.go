// Package billing applies Stripe webhook events to the persisted
// subscription rows. The state machine here is entirely mirrored from the
// processor: handlers never originate a transition, they only re-apply what
// Stripe reports, and every handler is an upsert/update keyed by a stable
// external id so at-least-once redelivery is safe.
package billing

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"automatehub_backend/internal/model"
)

type eventKind int

const (
	kindIgnored eventKind = iota
	kindCheckoutCompleted
	kindSubscriptionUpdated
	kindSubscriptionDeleted
	kindInvoicePaid
)

// kindOf maps a Stripe event type string onto the handled variants. Unknown
// types deliberately land on kindIgnored so the processor stops retrying
// events this system does not care about.
func kindOf(eventType string) eventKind {
	switch eventType {
	case "checkout.session.completed":
		return kindCheckoutCompleted
	case "customer.subscription.updated":
		return kindSubscriptionUpdated
	case "customer.subscription.deleted":
		return kindSubscriptionDeleted
	case "invoice.payment_succeeded":
		return kindInvoicePaid
	default:
		return kindIgnored
	}
}

// HandleEvent dispatches one verified webhook event. A nil return means the
// event was processed or intentionally ignored and should be acknowledged;
// a non-nil return asks the processor to redeliver.
func HandleEvent(db *gorm.DB, event stripe.Event) error {
	switch kindOf(string(event.Type)) {
	case kindCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}
		return handleCheckoutCompleted(db, &session)

	case kindSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return handleSubscriptionUpdated(db, &sub)

	case kindSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return handleSubscriptionDeleted(db, &sub)

	case kindInvoicePaid:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return err
		}
		return handleInvoicePaid(db, &invoice)

	default:
		log.Printf("Ignoring Stripe event type %s", event.Type)
		return nil
	}
}

// applyCheckoutCompleted overwrites the row with the fresh grant. The usage
// counter always resets to zero: a renewed checkout is a new grant, not an
// additive one, which also makes redelivery of the same event idempotent.
func applyCheckoutCompleted(row *model.UserSubscription, customerID, subID, priceID string, limit int) {
	row.StripeCustomerID = customerID
	row.StripeSubID = subID
	row.StripePriceID = priceID
	row.AutomationLimit = limit
	row.AutomationsUsed = 0
	// The session payload carries no subscription status; a completed
	// checkout implies active, and the customer.subscription.updated event
	// that follows mirrors the processor's own value.
	row.Status = "active"
}

// applySubscriptionUpdate mirrors limit, status, period bounds, and the
// cancel flag onto the row. The usage counter is left alone.
func applySubscriptionUpdate(row *model.UserSubscription, limit int, status string, periodStart, periodEnd int64, cancelAtPeriodEnd bool) {
	if limit > 0 {
		row.AutomationLimit = limit
	}
	row.Status = status
	row.CurrentPeriodStart = time.Unix(periodStart, 0).UTC()
	row.CurrentPeriodEnd = time.Unix(periodEnd, 0).UTC()
	row.CancelAtPeriodEnd = cancelAtPeriodEnd
}

func handleCheckoutCompleted(db *gorm.DB, session *stripe.CheckoutSession) error {
	if session.Mode != stripe.CheckoutSessionModeSubscription {
		return nil
	}

	email := session.CustomerEmail
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email = session.CustomerDetails.Email
	}

	var user model.User
	err := db.Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A paying customer with no matching account cannot be reconciled
		// automatically. Acknowledge so Stripe stops retrying; this needs
		// manual reconciliation.
		log.Printf("FATAL: checkout session %s completed for unknown customer email %q", session.ID, email)
		return nil
	}
	if err != nil {
		return err
	}

	limit, convErr := strconv.Atoi(session.Metadata["automation_count"])
	if convErr != nil || limit < 1 {
		log.Printf("FATAL: checkout session %s has no usable automation_count metadata", session.ID)
		return nil
	}

	var customerID, subID string
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	if session.Subscription != nil {
		subID = session.Subscription.ID
	}
	priceID := session.Metadata["price_id"]

	var row model.UserSubscription
	err = db.Where("user_id = ?", user.ID).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row.UserID = user.ID
	applyCheckoutCompleted(&row, customerID, subID, priceID, limit)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&row).Error
	}
	return db.Save(&row).Error
}

func handleSubscriptionUpdated(db *gorm.DB, sub *stripe.Subscription) error {
	var row model.UserSubscription
	err := db.Where("stripe_sub_id = ?", sub.ID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Out-of-order delivery: the update can land before the checkout
		// completion creates the row. Ack and let a later redelivery or the
		// next update catch it up.
		log.Printf("No local row for Stripe subscription %s; skipping update", sub.ID)
		return nil
	}
	if err != nil {
		return err
	}

	limit := 0
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		limit = int(sub.Items.Data[0].Quantity)
	}
	applySubscriptionUpdate(&row, limit, string(sub.Status), sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd)

	return db.Save(&row).Error
}

func handleSubscriptionDeleted(db *gorm.DB, sub *stripe.Subscription) error {
	// Historical retention: the row stays, only the status flips. Usage is
	// not reset either; a resumed subscription keeps its counter.
	res := db.Model(&model.UserSubscription{}).
		Where("stripe_sub_id = ?", sub.ID).
		Update("status", "canceled")
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("No local row for deleted Stripe subscription %s", sub.ID)
	}
	return nil
}

func handleInvoicePaid(db *gorm.DB, invoice *stripe.Invoice) error {
	if invoice.Subscription == nil {
		return nil
	}
	// A settled invoice re-asserts active status in case a past_due state
	// lingered after a catch-up payment.
	return db.Model(&model.UserSubscription{}).
		Where("stripe_sub_id = ?", invoice.Subscription.ID).
		Update("status", "active").Error
}
