package model

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Name     string `json:"name" gorm:"not null"`

	// Optional business profile, filled in at registration or checkout
	BrandName string `json:"brand_name"`
	Website   string `json:"website"`

	Subscription *UserSubscription `json:"-" gorm:"foreignKey:UserID"`
	Automations  []Automation      `json:"-"`
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"brand_name": u.BrandName,
		"website":    u.Website,
	}
}

// NormalizeEmail lowercases and trims an address so lookups against the
// payment processor's customer records match what we stored at registration.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
