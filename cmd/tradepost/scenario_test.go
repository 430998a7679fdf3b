package main

import (
	"os"
	"path/filepath"
	"testing"

	"tradepost.dev/internal/currency"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	raw := []byte(`
player:
  id: pc-1
  name: Alice
  currency: { gp: 10, sp: 3 }
  items:
    - id: a1
      name: Rations
      type: consumable
      quantity: 2
      price: { value: 5, denomination: sp }
shop:
  id: npc-1
  name: Shop
offer:
  player:
    currency: { gp: 5 }
    items:
      - { id: a1, quantity: 2 }
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := loadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Player.Name != "Alice" || len(sc.Player.Items) != 1 {
		t.Fatalf("scenario %#v", sc)
	}
	ref := sc.Player.Items[0].ref()
	if ref.Price.Denomination != currency.Silver || ref.Quantity != 2 {
		t.Fatalf("ref %#v", ref)
	}
	b := bundleOf(sc.Player.Currency)
	if b[currency.Gold] != 10 || b[currency.Silver] != 3 || len(b) != 5 {
		t.Fatalf("bundle %#v", b)
	}
	if len(sc.Offer.Player.Items) != 1 || sc.Offer.Player.Items[0].Quantity != 2 {
		t.Fatalf("offer %#v", sc.Offer)
	}
}

func TestLoadScenarioRequiresIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte("player: {name: A}\nshop: {name: B}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadScenario(path); err == nil {
		t.Fatalf("expected error for missing ids")
	}
}
