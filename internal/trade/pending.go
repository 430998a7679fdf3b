package trade

import "context"

// Prompter resolves how many units of a stack to offer. Implementations are
// UI dialogs; a cancellation is reported as an error or a non-positive count,
// both of which the engine treats as a no-op.
type Prompter interface {
	PromptQuantity(ctx context.Context, itemName string, max int) (int, error)
}

// PendingQuantity is an add-in-progress: ToggleItem on a stack larger than one
// suspends until the user picks a quantity. The basket stays unmodified while
// the prompt is open; other operations on the negotiation may proceed.
type PendingQuantity struct {
	n     *Negotiation
	side  Side
	item  ItemRef
	epoch uint64
	done  bool
}

// Item returns the snapshot the prompt is about.
func (p *PendingQuantity) Item() ItemRef { return p.item }

// Max is the upper bound for the quantity choice.
func (p *PendingQuantity) Max() int { return p.item.Quantity }

// Resolve applies the chosen quantity. It reports whether the basket changed:
// a non-positive or out-of-range quantity is a cancellation, a handle already
// resolved is spent, and a handle whose negotiation was cleared or settled in
// the interim is stale — all three are no-ops.
func (p *PendingQuantity) Resolve(qty int) bool {
	p.n.mu.Lock()
	defer p.n.mu.Unlock()
	if p.done {
		return false
	}
	p.done = true
	if qty <= 0 || qty > p.item.Quantity {
		return false
	}
	if p.epoch != p.n.epoch {
		return false
	}
	return p.n.baskets[p.side].Add(p.item, qty)
}
