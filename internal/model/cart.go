package model

import "gorm.io/gorm"

// CartItem is one line of a cart. Lines are scoped by OwnerKey, which is
// either "user:<id>" for an authenticated cart or "guest:<token>" for a
// guest cart. Display fields are captured at add time, not joined live
// against the catalog, so a later catalog edit does not rewrite carts.
type CartItem struct {
	gorm.Model
	OwnerKey          string `json:"-" gorm:"uniqueIndex:idx_owner_product;index;not null"`
	ProductID         string `json:"product_id" gorm:"uniqueIndex:idx_owner_product;not null"`
	Name              string `json:"name"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	HoursSavedPerUnit int    `json:"hours_saved_per_unit"`
	Thumbnail         string `json:"thumbnail"`
	Quantity          int    `json:"quantity" gorm:"not null;default:1"`
}

type WishlistItem struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"uniqueIndex:idx_user_wishlist_product;not null"`
	ProductID string `json:"product_id" gorm:"uniqueIndex:idx_user_wishlist_product;not null"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
