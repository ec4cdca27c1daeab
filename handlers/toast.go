package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

// SetToast adds a "showToast" event to the HX-Trigger header, keeping any
// events already set on the response.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	events := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			events = map[string]any{}
		}
	}
	events["showToast"] = map[string]string{
		"message": message,
		"type":    toastType,
	}

	data, err := json.Marshal(events)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// ErrorToast sets an error toast and answers with a JSON error body.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.JSON(statusCode, map[string]string{"error": message})
}

// respondError maps service errors to a status code and a toast.
// Validation problems are the caller's to fix and are not logged.
func respondError(e *core.RequestEvent, area string, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		SetToast(e, "error", ve.Message)
		e.Response.Header().Set("HX-Reswap", "none")
		return e.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for k, v := range fieldErrs {
			fields[k] = v.Error()
		}
		SetToast(e, "error", "Please correct the highlighted fields")
		e.Response.Header().Set("HX-Reswap", "none")
		return e.JSON(http.StatusBadRequest, map[string]any{"error": "invalid input", "fields": fields})
	}

	switch {
	case errors.Is(err, services.ErrItemNotFound):
		return ErrorToast(e, http.StatusNotFound, "Item not found")
	case errors.Is(err, services.ErrQuotationNotFound):
		return ErrorToast(e, http.StatusNotFound, "Quotation not found")
	}

	log.Printf("%s: %v", area, err)
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong, please try again")
}

type syncPayload struct {
	State services.SyncState `json:"state"`
	Error string             `json:"error,omitempty"`
}

func syncView(res services.SyncResult) syncPayload {
	p := syncPayload{State: res.State}
	if res.Err != nil {
		p.Error = "Saved on this device only; it will be synced later"
	}
	return p
}

// syncToast tells the user when a change could not be persisted remotely.
func syncToast(e *core.RequestEvent, res services.SyncResult, success string) {
	if res.State == services.SyncFailed {
		SetToast(e, "warning", success+" (not yet synced)")
		return
	}
	SetToast(e, "success", success)
}
