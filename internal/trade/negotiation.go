package trade

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"tradepost.dev/internal/currency"
)

// Negotiation tracks one player/shop trading session: two offer baskets plus
// the derived balance and confirmability. Confirmability is recomputed from
// basket contents on demand, never stored, so the engine cannot drift from
// what the baskets actually say.
//
// All methods are safe for concurrent use, but the session is expected to be
// driven by a single UI interaction stream.
type Negotiation struct {
	mu sync.Mutex

	player Party
	shop   Party

	baskets map[Side]*Basket
	exec    *Executor

	allowNegative bool

	// epoch invalidates pending quantity prompts across reset/clear/commit.
	epoch      uint64
	committing bool
}

func New(player, shop Party, exec *Executor, allowNegative bool) *Negotiation {
	return &Negotiation{
		player: player,
		shop:   shop,
		baskets: map[Side]*Basket{
			SidePlayer: NewBasket(),
			SideShop:   NewBasket(),
		},
		exec:          exec,
		allowNegative: allowNegative,
	}
}

func (n *Negotiation) Player() Party { return n.player }
func (n *Negotiation) Shop() Party   { return n.shop }

// Entries returns the given side's offered items.
func (n *Negotiation) Entries(side Side) []Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.baskets[side].Entries()
}

// Coins returns a copy of the given side's offered bundle.
func (n *Negotiation) Coins(side Side) currency.Bundle {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.baskets[side].Coins()
}

// AddItem puts an item on the given side's table. No-op when the identity is
// already offered. The offered quantity is clamped to what the snapshot holds;
// a non-positive quantity is an input no-op.
func (n *Negotiation) AddItem(side Side, item ItemRef, qty int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !Tradeable(item.Type) {
		return ErrNotTradeable
	}
	if item.Quantity <= 0 {
		return ErrNoQuantity
	}
	if qty <= 0 {
		return nil
	}
	if qty > item.Quantity {
		qty = item.Quantity
	}
	n.baskets[side].Add(item, qty)
	return nil
}

// RemoveItem withdraws an offered item. No-op when absent.
func (n *Negotiation) RemoveItem(side Side, itemID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.baskets[side].Remove(itemID)
}

// ToggleItem flips an item offer on the given side. An already-offered item is
// withdrawn entirely (click-to-toggle, not decrement). A single-unit stack is
// offered immediately. A larger stack returns a pending handle: the caller
// resolves a quantity (usually via a Prompter) and applies it through the
// handle. changed reports whether the basket mutated in this call.
func (n *Negotiation) ToggleItem(side Side, item ItemRef) (changed bool, pending *PendingQuantity, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b := n.baskets[side]
	if b.Contains(item.ID) {
		b.Remove(item.ID)
		return true, nil, nil
	}
	if !Tradeable(item.Type) {
		return false, nil, ErrNotTradeable
	}
	if item.Quantity <= 0 {
		return false, nil, ErrNoQuantity
	}
	if item.Quantity == 1 {
		b.Add(item, 1)
		return true, nil, nil
	}
	return false, &PendingQuantity{n: n, side: side, item: item, epoch: n.epoch}, nil
}

// Toggle is ToggleItem with the quantity prompt resolved inline. A cancelled
// or failed prompt is a no-op; prompt errors never surface as trade failures.
func (n *Negotiation) Toggle(ctx context.Context, side Side, item ItemRef, prompt Prompter) (bool, error) {
	changed, pending, err := n.ToggleItem(side, item)
	if err != nil || pending == nil {
		return changed, err
	}
	qty, err := prompt.PromptQuantity(ctx, item.Name, pending.Max())
	if err != nil {
		return false, nil
	}
	return pending.Resolve(qty), nil
}

// SetCurrency sets one denomination of the given side's offered coins.
// Negative amounts clamp to zero.
func (n *Negotiation) SetCurrency(side Side, d currency.Denomination, amount int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.baskets[side].SetCoin(d, amount)
}

// SetCurrencyString parses raw UI input for one denomination. Anything that
// does not parse as a non-negative integer is treated as zero.
func (n *Negotiation) SetCurrencyString(side Side, d currency.Denomination, raw string) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || amount < 0 {
		amount = 0
	}
	n.SetCurrency(side, d, amount)
}

// Balance is the net normalized value: shop basket minus player basket.
// Positive means the player would receive more value than given.
func (n *Negotiation) Balance() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.balanceLocked()
}

func (n *Negotiation) balanceLocked() float64 {
	return n.baskets[SideShop].Total() - n.baskets[SidePlayer].Total()
}

// CanConfirm recomputes whether the current offer may be committed, given each
// side's held currency:
//
//  1. false when both baskets are entirely empty;
//  2. unless allowNegative, false when either side offers more of any single
//     denomination than it holds;
//  3. false when the balance favors the player (balance > 0); equal or
//     shop-favorable offers pass.
func (n *Negotiation) CanConfirm(playerHeld, shopHeld currency.Bundle, allowNegative bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return confirmable(n.snapshotLocked(), playerHeld, shopHeld, allowNegative)
}

// Confirm validates the offer against freshly-read holdings and settles it
// through the executor. On success both baskets reset to empty. On failure the
// offers are left intact for inspection and retry; steps already applied are
// not rolled back. A confirm racing an in-flight commit fails fast with
// ErrCommitInFlight.
func (n *Negotiation) Confirm(ctx context.Context) error {
	n.mu.Lock()
	if n.committing {
		n.mu.Unlock()
		return ErrCommitInFlight
	}
	n.committing = true
	snap := n.snapshotLocked()
	n.mu.Unlock()

	err := n.commit(ctx, snap)

	n.mu.Lock()
	n.committing = false
	if err == nil {
		n.resetLocked()
	}
	n.mu.Unlock()
	return err
}

func (n *Negotiation) commit(ctx context.Context, snap Settlement) error {
	// Held currency is read at commit time; the UI's snapshot may be stale.
	playerHeld, err := n.exec.store.Currency(ctx, n.player.ID)
	if err != nil {
		return &CommitError{Step: "read currency", Err: fmt.Errorf("actor %s: %w", n.player.ID, err)}
	}
	shopHeld, err := n.exec.store.Currency(ctx, n.shop.ID)
	if err != nil {
		return &CommitError{Step: "read currency", Err: fmt.Errorf("actor %s: %w", n.shop.ID, err)}
	}
	if !confirmable(snap, playerHeld, shopHeld, n.allowNegative) {
		return ErrNotConfirmable
	}
	return n.exec.Execute(ctx, snap)
}

// Clear empties both baskets without committing and invalidates any pending
// quantity prompts.
func (n *Negotiation) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetLocked()
}

// Reset is Clear; both names exist because UI code reads better with "clear"
// on the cancel path and "reset" after settle.
func (n *Negotiation) Reset() { n.Clear() }

func (n *Negotiation) resetLocked() {
	n.baskets[SidePlayer].Clear()
	n.baskets[SideShop].Clear()
	n.epoch++
}

func (n *Negotiation) snapshotLocked() Settlement {
	return Settlement{
		Player:      n.player,
		Shop:        n.shop,
		PlayerCoins: n.baskets[SidePlayer].Coins(),
		ShopCoins:   n.baskets[SideShop].Coins(),
		PlayerItems: n.baskets[SidePlayer].Entries(),
		ShopItems:   n.baskets[SideShop].Entries(),
	}
}

// confirmable is the pure confirm predicate over a settlement snapshot.
func confirmable(s Settlement, playerHeld, shopHeld currency.Bundle, allowNegative bool) bool {
	if len(s.PlayerItems) == 0 && len(s.ShopItems) == 0 &&
		s.PlayerCoins.IsZero() && s.ShopCoins.IsZero() {
		return false
	}
	if !allowNegative {
		if !playerHeld.Covers(s.PlayerCoins) || !shopHeld.Covers(s.ShopCoins) {
			return false
		}
	}
	// The player side may not gain net value from a confirm.
	if basketValue(s.ShopCoins, s.ShopItems)-basketValue(s.PlayerCoins, s.PlayerItems) > 0 {
		return false
	}
	return true
}
