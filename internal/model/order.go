package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the append-only snapshot of a checkout attempt, written before the
// buyer is redirected to the hosted payment page. The cart subsystem never
// mutates an order after creation; status moves by admin action only.
type Order struct {
	gorm.Model
	OrderID   string `json:"order_id" gorm:"uniqueIndex;not null"`
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email" gorm:"not null"`
	BrandName string `json:"brand_name"`
	Website   string `json:"website"`

	Status          OrderStatus    `json:"status" gorm:"default:'pending'"`
	OrderTotalCents int64          `json:"order_total_cents"`
	AutomationCount int            `json:"automation_count"`
	CartManifest    datatypes.JSON `json:"cart_manifest"`
	Message         string         `json:"message" gorm:"type:text"`

	EstimatedCompletionDate *time.Time `json:"estimated_completion_date"`
}
