package trade

import "sync"

type pairKey struct {
	player string
	shop   string
}

// Registry tracks the negotiations currently open in this process, keyed by
// party pair. The composition layer owns one Registry and inserts on session
// open, removes on close or settle; nothing here is ambient global state.
type Registry struct {
	mu       sync.Mutex
	exec     *Executor
	sessions map[pairKey]*Negotiation

	allowTrade    bool
	allowNegative bool
}

func NewRegistry(exec *Executor, allowTrade, allowNegative bool) *Registry {
	return &Registry{
		exec:          exec,
		sessions:      map[pairKey]*Negotiation{},
		allowTrade:    allowTrade,
		allowNegative: allowNegative,
	}
}

// Open starts a negotiation between the two parties. Fails when trading is
// disabled or a session for the pair is already open.
func (r *Registry) Open(player, shop Party) (*Negotiation, error) {
	if !r.allowTrade {
		return nil, ErrTradeDisabled
	}
	key := pairKey{player: player.ID, shop: shop.ID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[key]; ok {
		return nil, ErrSessionOpen
	}
	n := New(player, shop, r.exec, r.allowNegative)
	r.sessions[key] = n
	return n, nil
}

// Lookup returns the open negotiation for the pair, or nil.
func (r *Registry) Lookup(playerID, shopID string) *Negotiation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[pairKey{player: playerID, shop: shopID}]
}

// Close removes the pair's session. The negotiation itself is cleared so any
// pending quantity prompts resolve as stale no-ops.
func (r *Registry) Close(playerID, shopID string) {
	r.mu.Lock()
	n := r.sessions[pairKey{player: playerID, shop: shopID}]
	delete(r.sessions, pairKey{player: playerID, shop: shopID})
	r.mu.Unlock()
	if n != nil {
		n.Clear()
	}
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
