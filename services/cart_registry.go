package services

import (
	"context"
	"log"
	"sync"
)

// CartRegistry hands out one CartStore per owner. Owners with a userID get a
// store persisted through remote; anonymous sessions get a local-only store.
type CartRegistry struct {
	remote CartRemote

	mu     sync.Mutex
	stores map[string]*CartStore
}

// NewCartRegistry returns an empty registry. remote may be nil.
func NewCartRegistry(remote CartRemote) *CartRegistry {
	return &CartRegistry{
		remote: remote,
		stores: make(map[string]*CartStore),
	}
}

// CartOwner identifies whose cart a request operates on.
type CartOwner struct {
	UserID    string
	SessionID string
}

// Key identifies the owner across requests: "user:<id>" for signed-in users,
// "session:<id>" for guests, empty when neither is known.
func (o CartOwner) Key() string {
	switch {
	case o.UserID != "":
		return "user:" + o.UserID
	case o.SessionID != "":
		return "session:" + o.SessionID
	}
	return ""
}

// For returns the owner's store, creating it on first use. A new persistent
// store is loaded from the remote store before it is returned.
func (r *CartRegistry) For(ctx context.Context, owner CartOwner) *CartStore {
	key := owner.Key()

	r.mu.Lock()
	store, ok := r.stores[key]
	if !ok {
		var remote CartRemote
		if owner.UserID != "" {
			remote = r.remote
		}
		store = NewCartStore(owner.UserID, remote)
		r.stores[key] = store
	}
	r.mu.Unlock()

	if !ok {
		store.Load(ctx)
	}
	return store
}

// ReconcileAll retries failed remote syncs on every persistent store and
// returns the number of items still out of sync.
func (r *CartRegistry) ReconcileAll(ctx context.Context) int {
	r.mu.Lock()
	stores := make([]*CartStore, 0, len(r.stores))
	for _, s := range r.stores {
		if s.Persistent() {
			stores = append(stores, s)
		}
	}
	r.mu.Unlock()

	remaining := 0
	for _, s := range stores {
		n, err := s.Reconcile(ctx)
		if err != nil {
			log.Printf("cart_registry: reconcile for user %s left %d dirty: %v", s.userID, n, err)
		}
		remaining += n
	}
	return remaining
}
