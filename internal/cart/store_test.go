package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/catalog"
	"automatehub_backend/pkg/retry"
)

// fakeBackend keeps lines in memory and can be told to fail the next N
// loads, which is enough to exercise the store without a database.
type fakeBackend struct {
	lines     []model.CartItem
	failLoads int
	loadCalls int
}

func (f *fakeBackend) Load() ([]model.CartItem, error) {
	f.loadCalls++
	if f.failLoads > 0 {
		f.failLoads--
		return nil, errors.New("backend unavailable")
	}
	out := make([]model.CartItem, len(f.lines))
	copy(out, f.lines)
	return out, nil
}

func (f *fakeBackend) UpsertLine(line model.CartItem) error {
	for i, it := range f.lines {
		if it.ProductID == line.ProductID {
			f.lines[i].Quantity = line.Quantity
			return nil
		}
	}
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeBackend) DeleteLine(productID string) error {
	for i, it := range f.lines {
		if it.ProductID == productID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeBackend) Clear() error {
	f.lines = nil
	return nil
}

func noWaitPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, Backoff: func(int) time.Duration { return 0 }}
}

func testProduct() catalog.Product {
	return catalog.Product{
		ID:                "lead-capture",
		Name:              "Lead Capture Funnel",
		BasePriceCents:    35000,
		HoursSavedPerUnit: 12,
		Thumbnail:         "https://cdn.example.com/lead.webp",
	}
}

func TestAddItemInsertsThenIncrements(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStoreWithPolicy(backend, noWaitPolicy())

	qty, err := store.AddItem(testProduct())
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	qty, err = store.AddItem(testProduct())
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	require.Len(t, backend.lines, 1)
	assert.Equal(t, int64(35000), backend.lines[0].UnitPriceCents)
	assert.Equal(t, 12, backend.lines[0].HoursSavedPerUnit)
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStoreWithPolicy(backend, noWaitPolicy())

	_, err := store.AddItem(testProduct())
	require.NoError(t, err)

	require.NoError(t, store.UpdateQuantity("lead-capture", 7))
	assert.Equal(t, 7, backend.lines[0].Quantity)
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{name: "zero", quantity: 0},
		{name: "negative", quantity: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			store := NewStoreWithPolicy(backend, noWaitPolicy())

			_, err := store.AddItem(testProduct())
			require.NoError(t, err)

			require.NoError(t, store.UpdateQuantity("lead-capture", tt.quantity))
			assert.Empty(t, backend.lines)
		})
	}
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	store := NewStoreWithPolicy(&fakeBackend{}, noWaitPolicy())

	err := store.UpdateQuantity("nope", 3)
	assert.ErrorIs(t, err, ErrNotInCart)
}

func TestLoadRetriesTransientFailures(t *testing.T) {
	backend := &fakeBackend{failLoads: 2}
	backend.lines = []model.CartItem{{ProductID: "a", Quantity: 1}}
	store := NewStoreWithPolicy(backend, noWaitPolicy())

	items, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, backend.loadCalls)
}

func TestLoadSurfacesErrorAfterExhaustion(t *testing.T) {
	backend := &fakeBackend{failLoads: 5}
	store := NewStoreWithPolicy(backend, noWaitPolicy())

	_, err := store.Load()
	require.Error(t, err)
	assert.Equal(t, 3, backend.loadCalls)
}

func TestClearEmptiesCart(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStoreWithPolicy(backend, noWaitPolicy())

	_, err := store.AddItem(testProduct())
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	assert.Empty(t, backend.lines)
}
