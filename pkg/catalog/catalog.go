// Package catalog loads the automation product and upsell catalogs from JSON
// data files once at boot. The catalog is constructed explicitly and handed
// to whoever needs it, so tests can substitute a fixture via NewFromData
// instead of mutating shared process state.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"

	"automatehub_backend/pkg/pricing"
)

type Product struct {
	ID                string `json:"id"`
	Slug              string `json:"slug"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	BasePriceCents    int64  `json:"base_price_cents"`
	HoursSavedPerUnit int    `json:"hours_saved_per_unit"`
	Thumbnail         string `json:"thumbnail"`
}

type Upsell struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type Catalog struct {
	products []Product
	upsells  []Upsell

	productByID map[string]Product
	upsellByID  map[string]Upsell
}

// Load reads products.json and upsells.json from dir. Call it once at boot.
func Load(dir string) (*Catalog, error) {
	var products []Product
	pData, err := os.ReadFile(filepath.Join(dir, "products.json"))
	if err != nil {
		return nil, fmt.Errorf("could not read product catalog: %v", err)
	}
	if err := json.Unmarshal(pData, &products); err != nil {
		return nil, fmt.Errorf("could not parse product catalog: %v", err)
	}

	var upsells []Upsell
	uData, err := os.ReadFile(filepath.Join(dir, "upsells.json"))
	if err != nil {
		return nil, fmt.Errorf("could not read upsell catalog: %v", err)
	}
	if err := json.Unmarshal(uData, &upsells); err != nil {
		return nil, fmt.Errorf("could not parse upsell catalog: %v", err)
	}

	return NewFromData(products, upsells), nil
}

// NewFromData builds a catalog from in-memory entries. Missing slugs are
// derived from the product name; a missing base price falls back to the
// storefront-wide base price.
func NewFromData(products []Product, upsells []Upsell) *Catalog {
	c := &Catalog{
		products:    make([]Product, 0, len(products)),
		upsells:     make([]Upsell, 0, len(upsells)),
		productByID: make(map[string]Product, len(products)),
		upsellByID:  make(map[string]Upsell, len(upsells)),
	}

	for _, p := range products {
		if p.Slug == "" {
			p.Slug = slug.Make(p.Name)
		}
		if p.BasePriceCents == 0 {
			p.BasePriceCents = pricing.BasePriceCents
		}
		if _, dup := c.productByID[p.ID]; dup {
			continue
		}
		c.products = append(c.products, p)
		c.productByID[p.ID] = p
	}

	for _, u := range upsells {
		if _, dup := c.upsellByID[u.ID]; dup {
			continue
		}
		c.upsells = append(c.upsells, u)
		c.upsellByID[u.ID] = u
	}

	return c
}

func (c *Catalog) Products() []Product {
	return c.products
}

func (c *Catalog) Upsells() []Upsell {
	return c.upsells
}

func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.productByID[id]
	return p, ok
}

func (c *Catalog) Upsell(id string) (Upsell, bool) {
	u, ok := c.upsellByID[id]
	return u, ok
}

// ResolveUpsells maps selected upsell ids to priced entries for the pricing
// engine. Ids not present in the catalog are ignored rather than rejected.
func (c *Catalog) ResolveUpsells(ids []string) []pricing.Upsell {
	var out []pricing.Upsell
	for _, id := range ids {
		if u, ok := c.upsellByID[id]; ok {
			out = append(out, pricing.Upsell{ID: u.ID, PriceCents: u.PriceCents})
		}
	}
	return out
}
