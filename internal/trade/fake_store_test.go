package trade

import (
	"context"
	"fmt"

	"tradepost.dev/internal/currency"
)

// fakeStore is an in-memory Store with per-method failure injection and a call
// log for asserting step order.
type fakeStore struct {
	coins map[string]currency.Bundle
	items map[string][]ItemRef

	nextID int
	failOn string
	calls  []string

	// onCurrency, when set, runs at the top of Currency. Used to hold a commit
	// in flight from a test.
	onCurrency func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		coins: map[string]currency.Bundle{},
		items: map[string][]ItemRef{},
	}
}

func (f *fakeStore) seedActor(id string, coins currency.Bundle, items ...ItemRef) {
	f.coins[id] = currency.Canon(coins)
	f.items[id] = append([]ItemRef(nil), items...)
}

func (f *fakeStore) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn != "" && f.failOn == name {
		return fmt.Errorf("injected failure at %s", name)
	}
	return nil
}

func (f *fakeStore) Items(ctx context.Context, actorID string) ([]ItemRef, error) {
	if err := f.step("Items:" + actorID); err != nil {
		return nil, err
	}
	return append([]ItemRef(nil), f.items[actorID]...), nil
}

func (f *fakeStore) Currency(ctx context.Context, actorID string) (currency.Bundle, error) {
	if f.onCurrency != nil {
		f.onCurrency()
	}
	if err := f.step("Currency:" + actorID); err != nil {
		return nil, err
	}
	b, ok := f.coins[actorID]
	if !ok {
		return nil, fmt.Errorf("actor %s not found", actorID)
	}
	return b.Clone(), nil
}

func (f *fakeStore) UpdateCurrency(ctx context.Context, actorID string, b currency.Bundle) error {
	if err := f.step("UpdateCurrency:" + actorID); err != nil {
		return err
	}
	f.coins[actorID] = currency.Canon(b)
	return nil
}

func (f *fakeStore) CreateItem(ctx context.Context, actorID string, item ItemRef) error {
	if err := f.step("CreateItem:" + actorID + ":" + item.Name); err != nil {
		return err
	}
	if item.ID == "" {
		f.nextID++
		item.ID = fmt.Sprintf("gen-%d", f.nextID)
	}
	f.items[actorID] = append(f.items[actorID], item)
	return nil
}

func (f *fakeStore) UpdateItemQuantity(ctx context.Context, actorID, itemID string, qty int) error {
	if err := f.step("UpdateItemQuantity:" + actorID + ":" + itemID); err != nil {
		return err
	}
	for i := range f.items[actorID] {
		if f.items[actorID][i].ID == itemID {
			f.items[actorID][i].Quantity = qty
			return nil
		}
	}
	return fmt.Errorf("item %s not found on %s", itemID, actorID)
}

func (f *fakeStore) DeleteItem(ctx context.Context, actorID, itemID string) error {
	if err := f.step("DeleteItem:" + actorID + ":" + itemID); err != nil {
		return err
	}
	items := f.items[actorID]
	for i := range items {
		if items[i].ID == itemID {
			f.items[actorID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %s not found on %s", itemID, actorID)
}

func (f *fakeStore) find(actorID, itemID string) *ItemRef {
	for i := range f.items[actorID] {
		if f.items[actorID][i].ID == itemID {
			return &f.items[actorID][i]
		}
	}
	return nil
}
