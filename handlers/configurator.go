package handlers

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

// idSource serializes access to the generator used for item ids and config
// numbers.
type idSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func newIDSource() *idSource {
	return &idSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

func (s *idSource) cartItem(state services.ConfiguratorState) (services.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.ToCartItem(s.now(), s.rng)
}

func (s *idSource) stamp(item *services.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	services.StampIdentity(item, s.now(), s.rng)
}

type configuratorResponse struct {
	State        services.ConfiguratorState `json:"state"`
	PreviewPrice float64                    `json:"previewPrice"`
	AllSelected  bool                       `json:"allAreasSelected"`
}

func newConfiguratorResponse(state services.ConfiguratorState) configuratorResponse {
	key := services.TableKeyForProductType(state.ProductType)
	if state.StudyType == services.StudyTypeToxicity {
		key = services.TableToxicity
	}
	return configuratorResponse{
		State:        state,
		PreviewPrice: state.PreviewPrice(),
		AllSelected:  services.AllAreasSelected(key, state.SelectedTherapeuticAreas),
	}
}

// HandleConfiguratorAdd validates the posted configurator state and adds (or,
// in edit mode, replaces) the resulting item in the caller's cart.
func HandleConfiguratorAdd(registry *services.CartRegistry) func(*core.RequestEvent) error {
	ids := newIDSource()
	return func(e *core.RequestEvent) error {
		var state services.ConfiguratorState
		if err := e.BindBody(&state); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid configuration")
		}

		item, err := ids.cartItem(state)
		if err != nil {
			return respondError(e, "configurator_add", err)
		}

		store := cartFor(e, registry)
		res := store.AddToCart(e.Request.Context(), item)
		message := "Added to cart"
		if state.IsEditMode {
			message = "Cart item updated"
		}
		syncToast(e, res, message)

		return e.JSON(http.StatusOK, map[string]any{
			"item":  item,
			"state": state.EditModeExited(),
			"cart":  newCartView(store, res),
		})
	}
}

// HandleConfiguratorEdit opens the configurator from an edit link token.
func HandleConfiguratorEdit() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		item, err := services.DecodeEditLink(e.Request.URL.Query().Get("item"))
		if err != nil {
			return respondError(e, "configurator_edit", err)
		}
		state := services.ConfiguratorState{}.EditModeEntered(item)
		return e.JSON(http.StatusOK, newConfiguratorResponse(state))
	}
}

// Configurator events accepted by HandleConfiguratorTransition.
const (
	EventProductTypeChanged       = "productTypeChanged"
	EventSectionExpanded          = "sectionExpanded"
	EventGuidelinesChanged        = "guidelinesChanged"
	EventTherapeuticAreasChanged  = "therapeuticAreasChanged"
	EventAllTherapeuticAreas      = "allTherapeuticAreasToggled"
	EventEditModeExited           = "editModeExited"
	EventConfiguratorStateRefresh = "refresh"
)

type transitionRequest struct {
	State       services.ConfiguratorState `json:"state"`
	Event       string                     `json:"event"`
	ProductType string                     `json:"productType"`
	Section     services.Section           `json:"section"`
	Values      []string                   `json:"values"`
}

// HandleConfiguratorTransition applies one UI event to the posted state and
// returns the next state with its preview price.
func HandleConfiguratorTransition() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body transitionRequest
		if err := e.BindBody(&body); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid configurator event")
		}

		state := body.State
		if state.NumSamples < 1 {
			state.NumSamples = 1
		}
		switch body.Event {
		case EventProductTypeChanged:
			state = state.ProductTypeChanged(body.ProductType)
		case EventSectionExpanded:
			if body.Section != services.SectionSampleForm && body.Section != services.SectionSampleSolvent {
				return ErrorToast(e, http.StatusBadRequest, "Unknown section")
			}
			state = state.SectionExpanded(body.Section)
		case EventGuidelinesChanged:
			state = state.GuidelinesChanged(body.Values)
		case EventTherapeuticAreasChanged:
			state = state.TherapeuticAreasChanged(body.Values)
		case EventAllTherapeuticAreas:
			state = state.AllTherapeuticAreasToggled()
		case EventEditModeExited:
			state = state.EditModeExited()
		case EventConfiguratorStateRefresh:
		default:
			return ErrorToast(e, http.StatusBadRequest, "Unknown configurator event")
		}
		return e.JSON(http.StatusOK, newConfiguratorResponse(state))
	}
}
