package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"mingle/internal/domain"
	"mingle/internal/session"
)

// SessionCookie carries the opaque session token. The token is the only
// session state the browser holds.
const SessionCookie = "session"

const flashCookieError = "flash_error"

type ctxKey int

const userIdKey ctxKey = 0

// Auth gates protected routes on a valid session.
type Auth struct {
	sessions      session.Store
	secureCookies bool
}

func NewAuth(sessions session.Store, secureCookies bool) *Auth {
	return &Auth{sessions: sessions, secureCookies: secureCookies}
}

// RequireAuth redirects anonymous requests to the login page without running
// the handler. Fails closed: any session lookup problem counts as anonymous.
func (a *Auth) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				a.redirectToLogin(w, r)
				return
			}

			userId, err := a.sessions.User(r.Context(), cookie.Value)
			if err != nil {
				// Stale or forged token: drop the cookie so the browser
				// stops sending it.
				ClearSessionCookie(w, a.secureCookies)
				a.redirectToLogin(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIdKey, userId)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	// base64 keeps special characters cookie-safe
	encoded := base64.StdEncoding.EncodeToString([]byte("Please log in to continue"))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieError,
		Value:    encoded,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// UserIdFromContext returns the authenticated user id placed by RequireAuth.
func UserIdFromContext(r *http.Request) (domain.UserId, bool) {
	userId, ok := r.Context().Value(userIdKey).(domain.UserId)
	return userId, ok
}

// WithUserId is used by tests to simulate an authenticated request.
func WithUserId(r *http.Request, userId domain.UserId) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIdKey, userId))
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     SessionCookie,
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
