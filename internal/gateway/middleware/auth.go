package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/gateway/telegram"
)

const (
	// HeaderInitData carries the raw Mini App init data.
	HeaderInitData = "X-Telegram-Init-Data"
	// HeaderLogin carries the login widget fields, URL-encoded.
	HeaderLogin = "X-Telegram-Login"
	// GuestCookie holds the session id of a caller without credentials.
	GuestCookie = "ideaforge_guest"

	guestCookieMaxAge = 365 * 24 * 60 * 60
)

type ctxKeyUser struct{}

func WithUser(ctx context.Context, u entity.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, u)
}

// UserFrom returns the caller set by Auth.
func UserFrom(ctx context.Context) (entity.User, bool) {
	u, ok := ctx.Value(ctxKeyUser{}).(entity.User)
	return u, ok && !u.ID.IsZero()
}

// Auth resolves the caller from Telegram credentials. Requests without
// credentials run as a guest keyed by the GuestCookie session, which is
// issued on first sight, unless required is set. Invalid credentials are
// always rejected.
func Auth(v *telegram.Validator, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, present, err := authenticate(v, r)
			switch {
			case err != nil:
				log.Printf("auth: rejected %s %s: %v", r.Method, r.URL.Path, err)
				unauthorized(w, "invalid telegram credentials")
				return
			case !present && required:
				unauthorized(w, "authentication required")
				return
			case !present:
				u = guest(w, r)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func authenticate(v *telegram.Validator, r *http.Request) (entity.User, bool, error) {
	if raw := strings.TrimSpace(r.Header.Get(HeaderInitData)); raw != "" {
		u, err := validator(v).ValidateInitData(raw)
		return u, true, err
	}
	if raw := strings.TrimSpace(r.Header.Get(HeaderLogin)); raw != "" {
		fields, err := url.ParseQuery(raw)
		if err != nil {
			return entity.User{}, true, errors.Join(telegram.ErrIncomplete, err)
		}
		u, err := validator(v).ValidateLogin(fields)
		return u, true, err
	}
	// Mini App websocket clients cannot set headers.
	if raw := strings.TrimSpace(r.URL.Query().Get("tgWebAppData")); raw != "" {
		u, err := validator(v).ValidateInitData(raw)
		return u, true, err
	}
	return entity.User{}, false, nil
}

// guest returns the session's guest user, minting a session when the request
// carries no usable cookie.
func guest(w http.ResponseWriter, r *http.Request) entity.User {
	if c, err := r.Cookie(GuestCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return entity.Guest(id.String())
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   guestCookieMaxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return entity.Guest(id)
}

func validator(v *telegram.Validator) *telegram.Validator {
	if v == nil {
		return telegram.NewValidator("")
	}
	return v
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg, "user": nil})
}
