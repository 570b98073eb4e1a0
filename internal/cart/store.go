// Package cart owns the authoritative cart line items for one identity,
// guest or authenticated. Both identities persist through the same Backend
// capability set; the only difference is the owner key the rows are scoped
// to, so the rest of the system never cares which mode is active.
package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/catalog"
	"automatehub_backend/pkg/retry"
)

var ErrNotInCart = errors.New("product is not in the cart")

// Backend is the capability set a cart store needs from its storage.
type Backend interface {
	Load() ([]model.CartItem, error)
	UpsertLine(line model.CartItem) error
	DeleteLine(productID string) error
	Clear() error
}

type gormBackend struct {
	db       *gorm.DB
	ownerKey string
}

// UserBackend scopes cart rows to an authenticated user.
func UserBackend(db *gorm.DB, userID uint) Backend {
	return gormBackend{db: db, ownerKey: fmt.Sprintf("user:%d", userID)}
}

// GuestBackend scopes cart rows to a client-held guest token.
func GuestBackend(db *gorm.DB, token string) Backend {
	return gormBackend{db: db, ownerKey: "guest:" + token}
}

func (b gormBackend) Load() ([]model.CartItem, error) {
	var items []model.CartItem
	err := b.db.Where("owner_key = ?", b.ownerKey).Order("created_at asc").Find(&items).Error
	return items, err
}

func (b gormBackend) UpsertLine(line model.CartItem) error {
	var existing model.CartItem
	err := b.db.Where("owner_key = ? AND product_id = ?", b.ownerKey, line.ProductID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		line.OwnerKey = b.ownerKey
		return b.db.Create(&line).Error
	}
	if err != nil {
		return err
	}
	// Display fields stay as captured at add time; only the quantity moves.
	return b.db.Model(&existing).Update("quantity", line.Quantity).Error
}

func (b gormBackend) DeleteLine(productID string) error {
	return b.db.Where("owner_key = ? AND product_id = ?", b.ownerKey, productID).
		Delete(&model.CartItem{}).Error
}

func (b gormBackend) Clear() error {
	return b.db.Where("owner_key = ?", b.ownerKey).Delete(&model.CartItem{}).Error
}

// Store applies the cart operations on top of a Backend. Reads go through a
// bounded retry policy; a load that still fails after the policy is
// exhausted surfaces as an error with the last known state untouched, never
// as a silently empty cart.
type Store struct {
	backend Backend
	policy  retry.Policy
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, policy: retry.Default()}
}

// NewStoreWithPolicy exists so tests can drop the backoff sleeps.
func NewStoreWithPolicy(backend Backend, policy retry.Policy) *Store {
	return &Store{backend: backend, policy: policy}
}

func (s *Store) Load() ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.policy.Do(func() error {
		var loadErr error
		items, loadErr = s.backend.Load()
		return loadErr
	})
	return items, err
}

// AddItem inserts the product with quantity 1, or bumps the quantity by one
// if the product is already in the cart, and returns the new quantity.
// Display fields are snapshotted from the catalog at this moment.
func (s *Store) AddItem(p catalog.Product) (int, error) {
	items, err := s.backend.Load()
	if err != nil {
		return 0, err
	}

	qty := 1
	for _, it := range items {
		if it.ProductID == p.ID {
			qty = it.Quantity + 1
			break
		}
	}

	line := model.CartItem{
		ProductID:         p.ID,
		Name:              p.Name,
		UnitPriceCents:    p.BasePriceCents,
		HoursSavedPerUnit: p.HoursSavedPerUnit,
		Thumbnail:         p.Thumbnail,
		Quantity:          qty,
	}
	if err := s.backend.UpsertLine(line); err != nil {
		return 0, err
	}
	return qty, nil
}

// UpdateQuantity sets an absolute quantity. Anything below 1 removes the
// line entirely; a zero-quantity line never represents "in the cart".
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return s.backend.DeleteLine(productID)
	}

	items, err := s.backend.Load()
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ProductID == productID {
			it.Quantity = quantity
			return s.backend.UpsertLine(it)
		}
	}
	return ErrNotInCart
}

func (s *Store) RemoveItem(productID string) error {
	return s.backend.DeleteLine(productID)
}

// Clear empties the cart. Called from the post-payment success flow, never
// during checkout-session creation, so an abandoned checkout keeps its cart.
func (s *Store) Clear() error {
	return s.backend.Clear()
}
