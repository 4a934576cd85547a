package ledger

import (
	"context"
	"sync"
)

// Loader hydrates a group's ledger from storage: the group record, its
// unsettled expenses and the latest settlement timestamp.
type Loader func(ctx context.Context, groupID string) (*Ledger, error)

// Registry is the addressable home of ledgers, one per group. Groups are
// independent units of concurrency: the registry lock only guards the map,
// each ledger serializes its own writes.
type Registry struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
	load    Loader
}

// NewRegistry creates a registry that hydrates missing ledgers with load.
func NewRegistry(load Loader) *Registry {
	return &Registry{
		ledgers: make(map[string]*Ledger),
		load:    load,
	}
}

// Get returns the ledger for a group, hydrating it on first access.
func (r *Registry) Get(ctx context.Context, groupID string) (*Ledger, error) {
	r.mu.Lock()
	if l, ok := r.ledgers[groupID]; ok {
		r.mu.Unlock()
		return l, nil
	}
	r.mu.Unlock()

	// Hydration happens outside the registry lock so a slow load for one
	// group does not block access to others. Concurrent loads of the same
	// group are resolved below: first one in wins.
	l, err := r.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.ledgers[groupID]; ok {
		return existing, nil
	}
	r.ledgers[groupID] = l
	return l, nil
}

// Put registers a freshly created group's ledger.
func (r *Registry) Put(groupID string, l *Ledger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledgers[groupID] = l
}
