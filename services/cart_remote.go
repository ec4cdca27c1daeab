package services

import (
	"context"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// CartItemsCollection is the PocketBase collection backing remote carts.
const CartItemsCollection = "cart_items"

// CartStatusActive marks a cart_items record that is still in a cart.
const CartStatusActive = "active"

// RecordCartRemote implements CartRemote on the cart_items collection. The
// full item is kept in the JSON "payload" field; the other columns exist for
// filtering and the admin UI.
type RecordCartRemote struct {
	app core.App
}

// NewRecordCartRemote returns a CartRemote backed by app.
func NewRecordCartRemote(app core.App) *RecordCartRemote {
	return &RecordCartRemote{app: app}
}

// List returns the user's active cart items, oldest first.
func (r *RecordCartRemote) List(ctx context.Context, userID string) ([]CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := r.app.FindRecordsByFilter(
		CartItemsCollection,
		"user_id = {:user} && status = {:status}",
		"created",
		0,
		0,
		map[string]any{"user": userID, "status": CartStatusActive},
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items for %s: %w", userID, err)
	}

	items := make([]CartItem, 0, len(records))
	for _, rec := range records {
		item, err := CartItemFromRecord(rec)
		if err != nil {
			log.Printf("cart_remote: skipping record %s: %v", rec.Id, err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Create stores a new cart item for the user. An existing record with the
// same item id is overwritten instead of duplicated.
func (r *RecordCartRemote) Create(ctx context.Context, userID string, item CartItem) error {
	rec, err := r.find(userID, item.ID)
	if err != nil {
		col, err := r.app.FindCollectionByNameOrId(CartItemsCollection)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", CartItemsCollection, err)
		}
		rec = core.NewRecord(col)
	}
	fillCartRecord(rec, userID, item)
	if err := r.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("create cart item %s: %w", item.ID, err)
	}
	return nil
}

// Update overwrites the stored cart item with the same id.
func (r *RecordCartRemote) Update(ctx context.Context, userID string, item CartItem) error {
	rec, err := r.find(userID, item.ID)
	if err != nil {
		return fmt.Errorf("update cart item %s: %w", item.ID, err)
	}
	fillCartRecord(rec, userID, item)
	if err := r.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("update cart item %s: %w", item.ID, err)
	}
	return nil
}

// Delete removes the user's cart item with itemID.
func (r *RecordCartRemote) Delete(ctx context.Context, userID, itemID string) error {
	rec, err := r.find(userID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item %s: %w", itemID, err)
	}
	if err := r.app.DeleteWithContext(ctx, rec); err != nil {
		return fmt.Errorf("delete cart item %s: %w", itemID, err)
	}
	return nil
}

// Clear removes the listed items in one transaction. Ids that are already
// gone are ignored.
func (r *RecordCartRemote) Clear(ctx context.Context, userID string, itemIDs []string) error {
	return r.app.RunInTransaction(func(txApp core.App) error {
		for _, id := range itemIDs {
			rec, err := txApp.FindFirstRecordByFilter(
				CartItemsCollection,
				"user_id = {:user} && item_id = {:item}",
				map[string]any{"user": userID, "item": id},
			)
			if err != nil {
				continue
			}
			if err := txApp.DeleteWithContext(ctx, rec); err != nil {
				return fmt.Errorf("clear cart item %s: %w", id, err)
			}
		}
		return nil
	})
}

func (r *RecordCartRemote) find(userID, itemID string) (*core.Record, error) {
	return r.app.FindFirstRecordByFilter(
		CartItemsCollection,
		"user_id = {:user} && item_id = {:item}",
		map[string]any{"user": userID, "item": itemID},
	)
}

func fillCartRecord(rec *core.Record, userID string, item CartItem) {
	rec.Set("item_id", item.ID)
	rec.Set("user_id", userID)
	rec.Set("status", CartStatusActive)
	rec.Set("config_no", item.ConfigNo)
	rec.Set("study_type", string(item.StudyType))
	rec.Set("category", item.Category)
	rec.Set("price", item.Price)
	rec.Set("payload", item)
}

// CartItemFromRecord decodes a cart_items record. The columns win over the
// payload for the id and config number.
func CartItemFromRecord(rec *core.Record) (CartItem, error) {
	var item CartItem
	if err := rec.UnmarshalJSONField("payload", &item); err != nil {
		return CartItem{}, fmt.Errorf("decode payload: %w", err)
	}
	if id := rec.GetString("item_id"); id != "" {
		item.ID = id
	}
	if no := rec.GetString("config_no"); no != "" {
		item.ConfigNo = no
	}
	return item, nil
}
