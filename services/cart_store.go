package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
)

// CartRemote is the persistence collaborator behind a CartStore. Every call
// is scoped by the owning user.
type CartRemote interface {
	List(ctx context.Context, userID string) ([]CartItem, error)
	Create(ctx context.Context, userID string, item CartItem) error
	Update(ctx context.Context, userID string, item CartItem) error
	Delete(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string, itemIDs []string) error
}

// SyncState reports what happened to the remote copy of a cart mutation.
type SyncState string

const (
	// SyncLocal means no remote store is attached; only local state changed.
	SyncLocal SyncState = "local"
	// SyncSynced means the remote store accepted the mutation.
	SyncSynced SyncState = "synced"
	// SyncFailed means the remote call failed and the change was applied
	// locally only. The item stays dirty until Reconcile succeeds.
	SyncFailed SyncState = "failed"
)

// SyncResult is returned by every CartStore mutation. The local change is
// always applied; Err carries the remote failure when State is SyncFailed.
type SyncResult struct {
	State SyncState `json:"state"`
	Err   error     `json:"-"`
}

// OK reports whether nothing failed.
func (r SyncResult) OK() bool { return r.State != SyncFailed }

// ErrItemNotFound is returned when an id is in neither the cart nor the
// saved list.
var ErrItemNotFound = errors.New("cart item not found")

type pendingOp int

const (
	pendingCreate pendingOp = iota + 1
	pendingUpdate
	pendingDelete
)

// CartDiff lists the ids touched by UpdateCartItems, by kind.
type CartDiff struct {
	Removed []string `json:"removed"`
	Updated []string `json:"updated"`
	Added   []string `json:"added"`
}

// CartStore owns one user's cart and saved-for-later list. All mutations go
// through its methods; reads return copies.
type CartStore struct {
	mu     sync.Mutex
	userID string
	remote CartRemote

	items []CartItem
	saved []CartItem
	dirty map[string]pendingOp
}

// NewCartStore returns a store for userID. With a nil remote or an empty
// userID every operation is local-only.
func NewCartStore(userID string, remote CartRemote) *CartStore {
	return &CartStore{
		userID: userID,
		remote: remote,
		dirty:  make(map[string]pendingOp),
	}
}

// Persistent reports whether mutations are sent to a remote store.
func (s *CartStore) Persistent() bool {
	return s.remote != nil && s.userID != ""
}

// Load replaces the cart with the remote store's active items. Items that
// are currently saved for later are left out of the cart.
func (s *CartStore) Load(ctx context.Context) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Persistent() {
		return SyncResult{State: SyncLocal}
	}
	remoteItems, err := s.remote.List(ctx, s.userID)
	if err != nil {
		log.Printf("cart_store: list failed for user %s: %v", s.userID, err)
		return SyncResult{State: SyncFailed, Err: err}
	}

	loaded := make([]CartItem, 0, len(remoteItems))
	for _, item := range remoteItems {
		if indexOf(s.saved, item.ID) >= 0 {
			continue
		}
		loaded = append(loaded, item)
	}
	// Local items whose create never reached the remote store survive a reload.
	for _, item := range s.items {
		if s.dirty[item.ID] == pendingCreate && indexOf(loaded, item.ID) < 0 {
			loaded = append(loaded, item)
		}
	}
	s.items = loaded
	return SyncResult{State: SyncSynced}
}

// Items returns a copy of the cart.
func (s *CartStore) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Saved returns a copy of the saved-for-later list.
func (s *CartStore) Saved() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved)
}

// Item returns the cart item with id.
func (s *CartStore) Item(id string) (CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.items, id); i >= 0 {
		return s.items[i], true
	}
	return CartItem{}, false
}

// Dirty returns the ids whose last remote sync failed.
func (s *CartStore) Dirty() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AddToCart inserts item, or replaces the cart item with the same id. A saved
// item with that id moves back into the cart.
func (s *CartStore) AddToCart(ctx context.Context, item CartItem) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.upsertRemote(ctx, item, indexOf(s.items, item.ID) >= 0)
	s.upsertLocal(item)
	s.saved = removeByID(s.saved, item.ID)
	return res
}

// RemoveFromCart deletes the cart item with id.
func (s *CartStore) RemoveFromCart(ctx context.Context, id string) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.deleteRemote(ctx, id)
	s.items = removeByID(s.items, id)
	return res
}

// UpdateCartItems makes the cart equal to desired with a three-way diff:
// ids only in the cart are removed, ids in both are updated and ids only in
// desired are added. Remote calls are issued one at a time in that order.
// Saved items whose id appears in desired leave the saved list.
func (s *CartStore) UpdateCartItems(ctx context.Context, desired []CartItem) (CartDiff, SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var diff CartDiff
	for _, item := range s.items {
		if indexOf(desired, item.ID) < 0 {
			diff.Removed = append(diff.Removed, item.ID)
		}
	}
	for _, item := range desired {
		if indexOf(s.items, item.ID) >= 0 {
			diff.Updated = append(diff.Updated, item.ID)
		} else {
			diff.Added = append(diff.Added, item.ID)
		}
	}

	res := SyncResult{State: SyncLocal}
	if s.Persistent() {
		res.State = SyncSynced
	}
	merge := func(r SyncResult) {
		if r.State == SyncFailed && res.State != SyncFailed {
			res = r
		}
	}

	for _, id := range diff.Removed {
		merge(s.deleteRemote(ctx, id))
	}
	for _, item := range desired {
		if slices.Contains(diff.Updated, item.ID) {
			merge(s.upsertRemote(ctx, item, true))
		}
	}
	for _, item := range desired {
		if slices.Contains(diff.Added, item.ID) {
			merge(s.upsertRemote(ctx, item, false))
		}
	}

	s.items = slices.Clone(desired)
	for _, item := range desired {
		s.saved = removeByID(s.saved, item.ID)
	}
	return diff, res
}

// SaveForLater moves the cart item with id to the saved list. Saved items
// are kept in memory only, so the remote cart copy is deleted.
func (s *CartStore) SaveForLater(ctx context.Context, id string) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, id)
	if i < 0 {
		return SyncResult{}, fmt.Errorf("save for later %s: %w", id, ErrItemNotFound)
	}
	item := s.items[i]
	res := s.deleteRemote(ctx, id)
	s.items = removeByID(s.items, id)
	s.saved = append(removeByID(s.saved, id), item)
	return res, nil
}

// AddToOrder moves the saved item with id back into the cart.
func (s *CartStore) AddToOrder(ctx context.Context, id string) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.saved, id)
	if i < 0 {
		return SyncResult{}, fmt.Errorf("add to order %s: %w", id, ErrItemNotFound)
	}
	item := s.saved[i]
	res := s.upsertRemote(ctx, item, false)
	s.saved = removeByID(s.saved, id)
	s.upsertLocal(item)
	return res, nil
}

// RemoveSaved discards a saved item.
func (s *CartStore) RemoveSaved(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.saved, id) < 0 {
		return fmt.Errorf("remove saved %s: %w", id, ErrItemNotFound)
	}
	s.saved = removeByID(s.saved, id)
	return nil
}

// ClearCart empties the cart with one bulk remote call.
func (s *CartStore) ClearCart(ctx context.Context) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ID)
	}
	s.items = nil

	if !s.Persistent() {
		return SyncResult{State: SyncLocal}
	}
	if len(ids) == 0 {
		return SyncResult{State: SyncSynced}
	}
	if err := s.remote.Clear(ctx, s.userID, ids); err != nil {
		log.Printf("cart_store: clear failed for user %s: %v", s.userID, err)
		for _, id := range ids {
			s.markDeleted(id)
		}
		return SyncResult{State: SyncFailed, Err: err}
	}
	for _, id := range ids {
		delete(s.dirty, id)
	}
	return SyncResult{State: SyncSynced}
}

// Reconcile retries the remote call for every dirty id and returns how many
// remain dirty. The first failure is returned as err.
func (s *CartStore) Reconcile(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Persistent() || len(s.dirty) == 0 {
		return len(s.dirty), nil
	}

	var firstErr error
	for id, op := range s.dirty {
		if err := ctx.Err(); err != nil {
			return len(s.dirty), err
		}
		var err error
		switch op {
		case pendingDelete:
			err = s.remote.Delete(ctx, s.userID, id)
		case pendingCreate, pendingUpdate:
			i := indexOf(s.items, id)
			if i < 0 {
				delete(s.dirty, id)
				continue
			}
			if op == pendingCreate {
				err = s.remote.Create(ctx, s.userID, s.items[i])
			} else {
				err = s.remote.Update(ctx, s.userID, s.items[i])
			}
		}
		if err != nil {
			log.Printf("cart_store: reconcile %s for user %s: %v", id, s.userID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delete(s.dirty, id)
	}
	return len(s.dirty), firstErr
}

func (s *CartStore) upsertRemote(ctx context.Context, item CartItem, exists bool) SyncResult {
	if !s.Persistent() {
		return SyncResult{State: SyncLocal}
	}
	var err error
	if exists {
		err = s.remote.Update(ctx, s.userID, item)
	} else {
		err = s.remote.Create(ctx, s.userID, item)
	}
	if err != nil {
		log.Printf("cart_store: remote save failed for %s: %v", item.ID, err)
		switch {
		case !exists:
			s.dirty[item.ID] = pendingCreate
		case s.dirty[item.ID] != pendingCreate:
			s.dirty[item.ID] = pendingUpdate
		}
		return SyncResult{State: SyncFailed, Err: err}
	}
	delete(s.dirty, item.ID)
	return SyncResult{State: SyncSynced}
}

func (s *CartStore) deleteRemote(ctx context.Context, id string) SyncResult {
	if !s.Persistent() {
		return SyncResult{State: SyncLocal}
	}
	if s.dirty[id] == pendingCreate {
		// Never reached the remote store; nothing to delete there.
		delete(s.dirty, id)
		return SyncResult{State: SyncSynced}
	}
	if err := s.remote.Delete(ctx, s.userID, id); err != nil {
		log.Printf("cart_store: remote delete failed for %s: %v", id, err)
		s.markDeleted(id)
		return SyncResult{State: SyncFailed, Err: err}
	}
	delete(s.dirty, id)
	return SyncResult{State: SyncSynced}
}

func (s *CartStore) markDeleted(id string) {
	if s.dirty[id] == pendingCreate {
		delete(s.dirty, id)
		return
	}
	s.dirty[id] = pendingDelete
}

func (s *CartStore) upsertLocal(item CartItem) {
	if i := indexOf(s.items, item.ID); i >= 0 {
		s.items[i] = item
		return
	}
	s.items = append(s.items, item)
}

func indexOf(items []CartItem, id string) int {
	return slices.IndexFunc(items, func(c CartItem) bool { return c.ID == id })
}

func removeByID(items []CartItem, id string) []CartItem {
	return slices.DeleteFunc(slices.Clone(items), func(c CartItem) bool { return c.ID == id })
}
