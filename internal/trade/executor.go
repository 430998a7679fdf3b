package trade

import (
	"context"
	"fmt"
	"time"

	"tradepost.dev/internal/currency"
	"tradepost.dev/internal/notify"
)

// Store is the external actor/inventory persistence collaborator. Every call
// may fail independently; the executor aborts the remaining steps on the first
// failure and does not compensate for steps already applied.
type Store interface {
	Items(ctx context.Context, actorID string) ([]ItemRef, error)
	Currency(ctx context.Context, actorID string) (currency.Bundle, error)
	UpdateCurrency(ctx context.Context, actorID string, b currency.Bundle) error
	// CreateItem persists a new inventory entry. An empty item ID asks the
	// store to mint a fresh identity.
	CreateItem(ctx context.Context, actorID string, item ItemRef) error
	UpdateItemQuantity(ctx context.Context, actorID, itemID string, qty int) error
	DeleteItem(ctx context.Context, actorID, itemID string) error
}

// Settlement is the validated outcome of a negotiation handed to the executor:
// who trades, and what each side gives up.
type Settlement struct {
	Player Party
	Shop   Party

	PlayerCoins currency.Bundle
	ShopCoins   currency.Bundle
	PlayerItems []Entry
	ShopItems   []Entry
}

// MovedItem is the journal's view of one transferred stack.
type MovedItem struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	SourceID string `json:"source_id,omitempty"`
	Quantity int    `json:"quantity"`
}

// SettlementRecord is the audit entry appended to the journal after a
// successful commit.
type SettlementRecord struct {
	At          string          `json:"at"`
	PlayerID    string          `json:"player_id"`
	ShopID      string          `json:"shop_id"`
	PlayerCoins currency.Bundle `json:"player_coins"`
	ShopCoins   currency.Bundle `json:"shop_coins"`
	ToPlayer    []MovedItem     `json:"to_player,omitempty"`
	ToShop      []MovedItem     `json:"to_shop,omitempty"`
	Balance     float64         `json:"balance"`
}

// Recorder receives settlement records. Journal writes are best-effort audit;
// a Recorder failure never fails the commit.
type Recorder interface {
	Record(rec SettlementRecord) error
}

// Executor applies a settlement against the store: currency deltas first, then
// item transfers with stacking. Steps run strictly in order; a failure stops
// the sequence and surfaces as a *CommitError.
type Executor struct {
	store Store
	rec   Recorder
	sink  notify.Sink
}

func NewExecutor(store Store, rec Recorder, sink notify.Sink) *Executor {
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Executor{store: store, rec: rec, sink: sink}
}

// Execute settles the exchange. Order is fixed: both currency updates, then
// every shop item to the player, then every player item to the shop. Currency
// is recomputed from freshly-read holdings, not from whatever snapshot the UI
// was rendered with.
func (e *Executor) Execute(ctx context.Context, s Settlement) error {
	playerHeld, err := e.store.Currency(ctx, s.Player.ID)
	if err != nil {
		return e.fail("read currency", fmt.Errorf("actor %s: %w", s.Player.ID, err))
	}
	shopHeld, err := e.store.Currency(ctx, s.Shop.ID)
	if err != nil {
		return e.fail("read currency", fmt.Errorf("actor %s: %w", s.Shop.ID, err))
	}

	newPlayer := currency.Settle(playerHeld, s.PlayerCoins, s.ShopCoins)
	newShop := currency.Settle(shopHeld, s.ShopCoins, s.PlayerCoins)
	if err := e.store.UpdateCurrency(ctx, s.Player.ID, newPlayer); err != nil {
		return e.fail("update currency", fmt.Errorf("actor %s: %w", s.Player.ID, err))
	}
	if err := e.store.UpdateCurrency(ctx, s.Shop.ID, newShop); err != nil {
		return e.fail("update currency", fmt.Errorf("actor %s: %w", s.Shop.ID, err))
	}

	for _, ent := range s.ShopItems {
		if err := e.transfer(ctx, s.Shop.ID, s.Player.ID, ent); err != nil {
			return err
		}
	}
	for _, ent := range s.PlayerItems {
		if err := e.transfer(ctx, s.Player.ID, s.Shop.ID, ent); err != nil {
			return err
		}
	}

	if e.rec != nil {
		rec := SettlementRecord{
			At:          time.Now().UTC().Format(time.RFC3339),
			PlayerID:    s.Player.ID,
			ShopID:      s.Shop.ID,
			PlayerCoins: s.PlayerCoins.Clone(),
			ShopCoins:   s.ShopCoins.Clone(),
			ToPlayer:    movedItems(s.ShopItems),
			ToShop:      movedItems(s.PlayerItems),
			Balance:     basketValue(s.ShopCoins, s.ShopItems) - basketValue(s.PlayerCoins, s.PlayerItems),
		}
		if err := e.rec.Record(rec); err != nil {
			e.sink.Warn(fmt.Sprintf("settlement journal write failed: %v", err))
		}
	}
	e.sink.Info(fmt.Sprintf("trade settled between %s and %s", s.Player.Name, s.Shop.Name))
	return nil
}

// transfer moves one offered stack from source to destination. The destination
// is written before the source is reduced, but source sufficiency is verified
// up front so an impossible transfer fails before any write.
func (e *Executor) transfer(ctx context.Context, fromID, toID string, ent Entry) error {
	src, err := e.store.Items(ctx, fromID)
	if err != nil {
		return e.fail("read inventory", fmt.Errorf("actor %s: %w", fromID, err))
	}
	var held *ItemRef
	for i := range src {
		if src[i].ID == ent.Item.ID {
			held = &src[i]
			break
		}
	}
	if held == nil || held.Quantity < ent.Quantity {
		return e.fail("verify source", fmt.Errorf("%w: %s x%d from %s", ErrInsufficient, ent.Item.Name, ent.Quantity, fromID))
	}

	dest, err := e.store.Items(ctx, toID)
	if err != nil {
		return e.fail("read inventory", fmt.Errorf("actor %s: %w", toID, err))
	}
	if target := stackTarget(dest, ent.Item); target != nil {
		if err := e.store.UpdateItemQuantity(ctx, toID, target.ID, target.Quantity+ent.Quantity); err != nil {
			return e.fail("stack item", fmt.Errorf("%s onto %s: %w", ent.Item.Name, toID, err))
		}
	} else {
		clone := ent.Item
		clone.ID = "" // store mints a fresh identity
		clone.Quantity = ent.Quantity
		if err := e.store.CreateItem(ctx, toID, clone); err != nil {
			return e.fail("create item", fmt.Errorf("%s in %s: %w", ent.Item.Name, toID, err))
		}
	}

	remaining := held.Quantity - ent.Quantity
	if remaining <= 0 {
		if err := e.store.DeleteItem(ctx, fromID, ent.Item.ID); err != nil {
			return e.fail("delete item", fmt.Errorf("%s from %s: %w", ent.Item.Name, fromID, err))
		}
		return nil
	}
	if err := e.store.UpdateItemQuantity(ctx, fromID, ent.Item.ID, remaining); err != nil {
		return e.fail("reduce item", fmt.Errorf("%s in %s: %w", ent.Item.Name, fromID, err))
	}
	return nil
}

func (e *Executor) fail(step string, err error) error {
	ce := &CommitError{Step: step, Err: err}
	e.sink.Error(ce.Error())
	return ce
}

// stackTarget picks the destination entry a transferred stack merges into:
// first by canonical source identifier when the source declares one, else by
// exact (name, type). Nil when the destination gets a new entry instead.
func stackTarget(dest []ItemRef, src ItemRef) *ItemRef {
	if src.SourceID != "" {
		for i := range dest {
			if dest[i].SourceID == src.SourceID {
				return &dest[i]
			}
		}
	}
	for i := range dest {
		if dest[i].Name == src.Name && dest[i].Type == src.Type {
			return &dest[i]
		}
	}
	return nil
}

func movedItems(entries []Entry) []MovedItem {
	if len(entries) == 0 {
		return nil
	}
	out := make([]MovedItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, MovedItem{
			Name:     e.Item.Name,
			Type:     e.Item.Type,
			SourceID: e.Item.SourceID,
			Quantity: e.Quantity,
		})
	}
	return out
}

func basketValue(coins currency.Bundle, items []Entry) float64 {
	total := currency.Normalize(coins)
	for _, e := range items {
		total += e.Item.Price.Normalized() * float64(e.Quantity)
	}
	return total
}
