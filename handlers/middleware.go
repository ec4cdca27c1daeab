package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

type contextKey string

const CartOwnerKey contextKey = "cartOwner"

// CartSessionCookie identifies an anonymous visitor's cart.
const CartSessionCookie = "cart_session"

// GetCartOwner extracts the cart owner from the request context.
func GetCartOwner(r *http.Request) services.CartOwner {
	if val, ok := r.Context().Value(CartOwnerKey).(services.CartOwner); ok {
		return val
	}
	return services.CartOwner{}
}

// CartOwnerMiddleware resolves whose cart the request works on. Signed-in
// users are identified by their auth record; everyone else gets a
// "cart_session" cookie holding a random uuid, issued on first visit.
func CartOwnerMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner := services.CartOwner{}
		if e.Auth != nil {
			owner.UserID = e.Auth.Id
		} else {
			owner.SessionID = sessionID(e)
		}

		ctx := context.WithValue(e.Request.Context(), CartOwnerKey, owner)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

func sessionID(e *core.RequestEvent) string {
	if cookie, err := e.Request.Cookie(CartSessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(e.Response, &http.Cookie{
		Name:     CartSessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// withCartOwner stores owner in the request context. Used by tests and by
// handlers mounted without the middleware.
func withCartOwner(r *http.Request, owner services.CartOwner) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), CartOwnerKey, owner))
}
