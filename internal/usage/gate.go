// Package usage is the enforcement gate consulted before any metered action.
// The limit check and the increment happen in a single conditional UPDATE so
// two racing increments cannot both sneak past a stale read.
package usage

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"automatehub_backend/internal/model"
)

const (
	ReasonNoSubscription = "No active subscription"
	ReasonLimitReached   = "Automation limit reached"
)

var (
	ErrNoSubscription = errors.New("no active subscription")
	ErrLimitReached   = errors.New("automation limit reached")
)

// Status is the gate's answer: whether a creation may proceed and the
// counters behind that decision. Reason distinguishes "no subscription"
// from "limit reached" because the corrective action differs.
type Status struct {
	CanCreate bool   `json:"can_create"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
}

func statusFromRow(sub *model.UserSubscription) Status {
	if sub == nil || sub.Status != "active" {
		return Status{CanCreate: false, Reason: ReasonNoSubscription}
	}

	remaining := sub.AutomationLimit - sub.AutomationsUsed
	if remaining < 0 {
		remaining = 0
	}

	s := Status{
		CanCreate: sub.AutomationsUsed < sub.AutomationLimit,
		Limit:     sub.AutomationLimit,
		Used:      sub.AutomationsUsed,
		Remaining: remaining,
	}
	if !s.CanCreate {
		s.Reason = ReasonLimitReached
	}
	return s
}

// Check reads the subscription row and reports whether a metered creation
// would be allowed. Purely advisory: Increment re-checks on its own.
func Check(db *gorm.DB, userID uint) (Status, error) {
	var sub model.UserSubscription
	err := db.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return statusFromRow(nil), nil
	}
	if err != nil {
		return Status{}, err
	}
	return statusFromRow(&sub), nil
}

// Increment consumes one unit of the allowance and appends an audit row.
// The limit is re-checked inside the UPDATE's WHERE clause rather than
// trusted from a prior Check, so a stale check can never over-allocate.
// Fails with ErrNoSubscription or ErrLimitReached without mutating anything.
func Increment(db *gorm.DB, userID uint, actionLabel string) (Status, error) {
	res := db.Model(&model.UserSubscription{}).
		Where("user_id = ? AND status = ? AND automations_used < automation_limit", userID, "active").
		UpdateColumn("automations_used", gorm.Expr("automations_used + 1"))
	if res.Error != nil {
		return Status{}, res.Error
	}

	if res.RowsAffected == 0 {
		// Nothing moved: figure out which refusal this is.
		status, err := Check(db, userID)
		if err != nil {
			return Status{}, err
		}
		if status.Reason == ReasonNoSubscription {
			return status, ErrNoSubscription
		}
		return status, ErrLimitReached
	}

	audit := model.UsageLog{UserID: userID, Action: actionLabel}
	if err := db.Create(&audit).Error; err != nil {
		// The increment already committed; the audit trail is best-effort.
		log.Printf("Could not write usage log for user %d: %v", userID, err)
	}

	return Check(db, userID)
}

// Reset zeroes the usage counter. Admin/manual path only; the webhook
// reconciler has its own reset on fresh checkout completions.
func Reset(db *gorm.DB, userID uint) error {
	return db.Model(&model.UserSubscription{}).
		Where("user_id = ?", userID).
		UpdateColumn("automations_used", 0).Error
}
