package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

func TestGetCartOwner_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetCartOwner(req); got != (services.CartOwner{}) {
		t.Errorf("expected empty owner, got %+v", got)
	}
}

func TestGetCartOwner_FromContext(t *testing.T) {
	want := services.CartOwner{UserID: "user123"}
	req := withCartOwner(httptest.NewRequest(http.MethodGet, "/", nil), want)
	if got := GetCartOwner(req); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSessionID(t *testing.T) {
	existing := uuid.NewString()

	tests := []struct {
		name       string
		cookie     string
		wantReuse  bool
		wantCookie bool
	}{
		{"no cookie issues a new session", "", false, true},
		{"valid cookie is reused", existing, true, false},
		{"garbage cookie is replaced", "not-a-uuid", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Request = req
			e.Response = rec

			got := sessionID(e)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("session id %q is not a uuid", got)
			}
			if tt.wantReuse && got != existing {
				t.Errorf("expected %q to be reused, got %q", existing, got)
			}

			setCookie := rec.Header().Get("Set-Cookie")
			if tt.wantCookie && setCookie == "" {
				t.Error("expected a cart_session cookie to be set")
			}
			if !tt.wantCookie && setCookie != "" {
				t.Errorf("expected no cookie, got %q", setCookie)
			}
		})
	}
}
