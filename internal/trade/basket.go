package trade

import (
	"sort"

	"tradepost.dev/internal/currency"
)

// Entry is one offered item: a snapshot of the item plus how much of it is on
// the table.
type Entry struct {
	Item     ItemRef
	Quantity int
}

// Basket is one side's proposed contribution: offered items keyed by item
// identity plus an offered coin bundle. Each identity appears at most once;
// re-adding toggles the whole entry off rather than accumulating.
//
// Basket is not safe for concurrent use; Negotiation serializes access.
type Basket struct {
	entries map[string]Entry
	coins   currency.Bundle
}

func NewBasket() *Basket {
	return &Basket{
		entries: map[string]Entry{},
		coins:   currency.New(),
	}
}

// Contains reports whether the item identity is already offered.
func (b *Basket) Contains(itemID string) bool {
	_, ok := b.entries[itemID]
	return ok
}

// Add puts an item on the table. No-op when the identity is already present
// (duplicate add via drag-drop racing a click) or the quantity is not positive.
// Returns whether the basket changed.
func (b *Basket) Add(item ItemRef, qty int) bool {
	if qty <= 0 || item.ID == "" {
		return false
	}
	if _, ok := b.entries[item.ID]; ok {
		return false
	}
	b.entries[item.ID] = Entry{Item: item, Quantity: qty}
	return true
}

// Remove withdraws an offered item. No-op when absent.
func (b *Basket) Remove(itemID string) bool {
	if _, ok := b.entries[itemID]; !ok {
		return false
	}
	delete(b.entries, itemID)
	return true
}

// SetCoin sets the offered count for one denomination. Negative amounts clamp
// to zero; unknown denominations are ignored so the bundle keeps its fixed
// shape.
func (b *Basket) SetCoin(d currency.Denomination, amount int) {
	if !currency.Known(d) {
		return
	}
	if amount < 0 {
		amount = 0
	}
	b.coins[d] = amount
}

// Clear empties the items and resets every coin count to zero.
func (b *Basket) Clear() {
	b.entries = map[string]Entry{}
	b.coins = currency.New()
}

// Empty reports whether nothing at all is offered.
func (b *Basket) Empty() bool {
	return len(b.entries) == 0 && b.coins.IsZero()
}

// Entries returns the offered items sorted by name then identity.
func (b *Basket) Entries() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Item.Name != out[j].Item.Name {
			return out[i].Item.Name < out[j].Item.Name
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	return out
}

// Coins returns a copy of the offered bundle.
func (b *Basket) Coins() currency.Bundle {
	return b.coins.Clone()
}

// Total is the basket's normalized value in gold: coins plus price*quantity
// over every offered item.
func (b *Basket) Total() float64 {
	total := currency.Normalize(b.coins)
	for _, e := range b.entries {
		total += e.Item.Price.Normalized() * float64(e.Quantity)
	}
	return total
}
