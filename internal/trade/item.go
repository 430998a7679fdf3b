// Package trade implements the two-party negotiation engine: per-side offer
// baskets, the balance/confirmability rules, and the commit step that settles
// currency and moves items through the persistence collaborator.
package trade

import (
	"encoding/json"

	"tradepost.dev/internal/currency"
)

// Side tags which party a basket or mutation belongs to.
type Side string

const (
	SidePlayer Side = "player"
	SideShop   Side = "shop"
)

// Party identifies one actor in a negotiation. Immutable for the session.
type Party struct {
	ID   string
	Name string
}

// Price is an amount in a single denomination.
type Price struct {
	Value        float64               `json:"value"`
	Denomination currency.Denomination `json:"denomination"`
}

// Normalized converts the price to gold. Unknown denominations are read as
// gold already (lenient fallback, see currency.ToBaseUnit).
func (p Price) Normalized() float64 {
	return currency.ToBaseUnit(p.Value, p.Denomination)
}

// ItemRef is a non-owning snapshot of an inventory entry. The underlying item
// stays owned by its actor's inventory until the commit step transfers it.
type ItemRef struct {
	// ID is the entry's identity within its owner's inventory.
	ID string `json:"id"`
	// SourceID is the canonical compendium origin, empty when the item was
	// created ad hoc. Stacking prefers matching on this.
	SourceID string `json:"source_id,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	// Quantity is the amount held by the current owner at snapshot time.
	Quantity int   `json:"quantity"`
	Price    Price `json:"price"`
	// Doc is the full item document; transfer clones it when no stacking
	// target exists at the destination.
	Doc json.RawMessage `json:"doc,omitempty"`
}

var tradeableTypes = map[string]struct{}{
	"weapon":     {},
	"equipment":  {},
	"consumable": {},
	"tool":       {},
	"loot":       {},
	"backpack":   {},
}

// Tradeable reports whether items of the given type may enter a basket.
func Tradeable(itemType string) bool {
	_, ok := tradeableTypes[itemType]
	return ok
}
