package cart

import (
	"gorm.io/gorm"

	"automatehub_backend/internal/model"
)

// MergeQuantities folds guest lines into remote lines: shared products sum
// their quantities, guest-only products are appended. Remote ordering is
// preserved. Pure; no storage touched.
func MergeQuantities(guest, remote []model.CartItem) []model.CartItem {
	merged := make([]model.CartItem, len(remote))
	copy(merged, remote)

	index := make(map[string]int, len(merged))
	for i, it := range merged {
		index[it.ProductID] = i
	}

	for _, g := range guest {
		if i, ok := index[g.ProductID]; ok {
			merged[i].Quantity += g.Quantity
			continue
		}
		index[g.ProductID] = len(merged)
		merged = append(merged, g)
	}
	return merged
}

// MergeGuestIntoUser runs the one-time sign-in merge: guest quantities are
// added into the user's cart, then the guest rows are deleted. Running it
// twice for the same guest cart would double-add, which is why the guest
// rows are removed before returning; callers must treat this as
// at-most-once per sign-in.
func MergeGuestIntoUser(db *gorm.DB, guestToken string, userID uint) ([]model.CartItem, error) {
	guestBackend := GuestBackend(db, guestToken)
	userBackend := UserBackend(db, userID)

	guestItems, err := guestBackend.Load()
	if err != nil {
		return nil, err
	}
	if len(guestItems) == 0 {
		return userBackend.Load()
	}

	userItems, err := userBackend.Load()
	if err != nil {
		return nil, err
	}

	merged := MergeQuantities(guestItems, userItems)
	for _, line := range merged {
		line.ID = 0
		line.OwnerKey = ""
		if err := userBackend.UpsertLine(line); err != nil {
			return nil, err
		}
	}

	// Discard the guest cart immediately so a re-entrant call has nothing
	// left to double-add.
	if err := guestBackend.Clear(); err != nil {
		return nil, err
	}

	return userBackend.Load()
}
