package model

import "gorm.io/gorm"

// Automation is the metered resource: creating one consumes a unit of the
// owner's subscription allowance.
type Automation struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"default:'draft'"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
