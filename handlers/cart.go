package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

type cartView struct {
	Items      []services.CartItem `json:"items"`
	Saved      []services.CartItem `json:"saved"`
	Count      int                 `json:"count"`
	SubTotal   float64             `json:"subTotal"`
	Persistent bool                `json:"persistent"`
	Sync       syncPayload         `json:"sync"`
}

func newCartView(store *services.CartStore, res services.SyncResult) cartView {
	items := store.Items()
	var subTotal float64
	for _, item := range items {
		subTotal += item.Price
	}
	if items == nil {
		items = []services.CartItem{}
	}
	saved := store.Saved()
	if saved == nil {
		saved = []services.CartItem{}
	}
	return cartView{
		Items:      items,
		Saved:      saved,
		Count:      len(items),
		SubTotal:   subTotal,
		Persistent: store.Persistent(),
		Sync:       syncView(res),
	}
}

func cartFor(e *core.RequestEvent, registry *services.CartRegistry) *services.CartStore {
	return registry.For(e.Request.Context(), GetCartOwner(e.Request))
}

// HandleCartList returns the caller's cart and saved-for-later lists.
func HandleCartList(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := cartFor(e, registry)
		return e.JSON(http.StatusOK, newCartView(store, services.SyncResult{State: services.SyncSynced}))
	}
}

type cartUpdateRequest struct {
	Items []services.CartItem `json:"items"`
}

// HandleCartUpdate replaces the cart with the posted list. Items are
// re-priced before they are stored. Items already in the cart keep their
// config number and dates; new ones get fresh ones.
func HandleCartUpdate(registry *services.CartRegistry) func(*core.RequestEvent) error {
	ids := newIDSource()
	return func(e *core.RequestEvent) error {
		var body cartUpdateRequest
		if err := e.BindBody(&body); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid cart payload")
		}

		store := cartFor(e, registry)
		for i := range body.Items {
			item := &body.Items[i]
			if item.ID == "" {
				return ErrorToast(e, http.StatusBadRequest, "Every cart item needs an id")
			}
			if existing, ok := store.Item(item.ID); ok {
				keepIdentity(item, existing)
			}
			ids.stamp(item)
			services.PriceCartItem(item)
		}

		diff, res := store.UpdateCartItems(e.Request.Context(), body.Items)
		syncToast(e, res, "Cart updated")
		return e.JSON(http.StatusOK, map[string]any{
			"cart": newCartView(store, res),
			"diff": map[string]int{
				"removed": len(diff.Removed),
				"updated": len(diff.Updated),
				"added":   len(diff.Added),
			},
		})
	}
}

func keepIdentity(item *services.CartItem, existing services.CartItem) {
	if item.ConfigNo == "" {
		item.ConfigNo = existing.ConfigNo
	}
	if item.CreatedOn == "" {
		item.CreatedOn, item.ValidTill = existing.CreatedOn, existing.ValidTill
	}
}

// HandleCartClear empties the cart. Saved items are kept.
func HandleCartClear(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := cartFor(e, registry)
		res := store.ClearCart(e.Request.Context())
		syncToast(e, res, "Cart cleared")
		return e.JSON(http.StatusOK, newCartView(store, res))
	}
}

// HandleCartRemove removes one item from the cart.
func HandleCartRemove(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item id")
		}
		store := cartFor(e, registry)
		if _, ok := store.Item(id); !ok {
			return respondError(e, "cart_remove", services.ErrItemNotFound)
		}
		res := store.RemoveFromCart(e.Request.Context(), id)
		syncToast(e, res, "Item removed")
		return e.JSON(http.StatusOK, newCartView(store, res))
	}
}

// HandleSaveForLater moves a cart item to the saved list.
func HandleSaveForLater(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := cartFor(e, registry)
		res, err := store.SaveForLater(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "save_for_later", err)
		}
		syncToast(e, res, "Saved for later")
		return e.JSON(http.StatusOK, newCartView(store, res))
	}
}

// HandleAddToOrder moves a saved item back into the cart.
func HandleAddToOrder(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := cartFor(e, registry)
		res, err := store.AddToOrder(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "add_to_order", err)
		}
		syncToast(e, res, "Moved to cart")
		return e.JSON(http.StatusOK, newCartView(store, res))
	}
}

// HandleSavedRemove drops an item from the saved list.
func HandleSavedRemove(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := cartFor(e, registry)
		if err := store.RemoveSaved(e.Request.PathValue("id")); err != nil {
			return respondError(e, "saved_remove", err)
		}
		SetToast(e, "success", "Saved item removed")
		return e.JSON(http.StatusOK, newCartView(store, services.SyncResult{State: services.SyncLocal}))
	}
}

// HandleCartEdit returns the configurator state for editing a cart item and
// a shareable link token that reopens it.
func HandleCartEdit(registry *services.CartRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := cartFor(e, registry)
		item, ok := store.Item(e.Request.PathValue("id"))
		if !ok {
			return respondError(e, "cart_edit", services.ErrItemNotFound)
		}
		token, err := services.EncodeEditLink(item)
		if err != nil {
			return respondError(e, "cart_edit", err)
		}
		state := services.ConfiguratorState{}.EditModeEntered(item)
		return e.JSON(http.StatusOK, map[string]any{
			"state": state,
			"link":  "/configurator/edit?item=" + token,
		})
	}
}
