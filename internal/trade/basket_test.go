package trade

import (
	"testing"

	"tradepost.dev/internal/currency"
)

func refItem(id, name, typ string, qty int, price float64, denom currency.Denomination) ItemRef {
	return ItemRef{
		ID:       id,
		Name:     name,
		Type:     typ,
		Quantity: qty,
		Price:    Price{Value: price, Denomination: denom},
	}
}

func TestBasketAddIsIdempotent(t *testing.T) {
	b := NewBasket()
	it := refItem("i1", "Longsword", "weapon", 3, 15, currency.Gold)
	if !b.Add(it, 2) {
		t.Fatalf("first add should change basket")
	}
	if b.Add(it, 3) {
		t.Fatalf("second add of same identity must be a no-op")
	}
	entries := b.Entries()
	if len(entries) != 1 || entries[0].Quantity != 2 {
		t.Fatalf("entries %#v", entries)
	}
}

func TestBasketSetCoinClamps(t *testing.T) {
	b := NewBasket()
	b.SetCoin(currency.Gold, -5)
	if got := b.Coins()[currency.Gold]; got != 0 {
		t.Fatalf("negative amount should clamp to 0, got %d", got)
	}
	b.SetCoin(currency.Gold, 12)
	b.SetCoin("credits", 99)
	coins := b.Coins()
	if coins[currency.Gold] != 12 {
		t.Fatalf("gold=%d want 12", coins[currency.Gold])
	}
	if len(coins) != 5 {
		t.Fatalf("unknown denomination must not widen the bundle: %#v", coins)
	}
}

func TestBasketTotal(t *testing.T) {
	b := NewBasket()
	b.SetCoin(currency.Gold, 3)
	b.SetCoin(currency.Silver, 5) // 0.5
	b.Add(refItem("i1", "Dagger", "weapon", 4, 2, currency.Gold), 2)
	b.Add(refItem("i2", "Whetstone", "equipment", 3, 5, currency.Silver), 1) // 0.5
	if got, want := b.Total(), 3+0.5+4+0.5; got != want {
		t.Fatalf("total=%v want %v", got, want)
	}
}

func TestBasketTotalUnknownDenominationFallsBackToGold(t *testing.T) {
	b := NewBasket()
	b.Add(ItemRef{ID: "i1", Name: "Relic", Type: "loot", Quantity: 1, Price: Price{Value: 7, Denomination: "shards"}}, 1)
	if got := b.Total(); got != 7 {
		t.Fatalf("total=%v want 7 (unknown denomination priced as gold)", got)
	}
}

func TestBasketClear(t *testing.T) {
	b := NewBasket()
	b.SetCoin(currency.Platinum, 2)
	b.Add(refItem("i1", "Rope", "equipment", 1, 1, currency.Gold), 1)
	b.Clear()
	if !b.Empty() {
		t.Fatalf("basket should be empty after clear")
	}
	if !b.Coins().IsZero() {
		t.Fatalf("coins should reset to zero: %#v", b.Coins())
	}
}
