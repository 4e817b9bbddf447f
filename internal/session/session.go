// Package session stores the admin credential (token and role) in browser
// cookies and guards admin-only views. It is the sole reader and writer of
// the credential slot; handlers receive the credential explicitly and never
// touch the cookies themselves. The token is never validated locally — the
// backend rejects stale or invalid tokens on mutating calls.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/confidence-supplies/storefront/internal/catalog"
)

// Fixed cookie names for the persisted credential.
const (
	TokenCookie = "jwt_token"
	RoleCookie  = "user_role"
)

// RoleAdmin is the role required to enter the admin console.
const RoleAdmin = "admin"

// sessionTTL bounds how long a stored credential survives in the browser.
const sessionTTL = 12 * time.Hour

// Session is the credential pair loaded from the request.
type Session struct {
	Token string
	Role  string
}

// IsAdmin reports whether the session carries a token with the admin role.
func (s Session) IsAdmin() bool {
	return s.Token != "" && s.Role == RoleAdmin
}

// Store reads and writes the credential cookies.
type Store struct {
	secure bool
}

// NewStore creates a Store. secure marks the cookies Secure for HTTPS
// deployments.
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// Load reads the credential from the request cookies. Missing cookies yield
// a zero Session.
func (st *Store) Load(r *http.Request) Session {
	var s Session
	if c, err := r.Cookie(TokenCookie); err == nil {
		s.Token = c.Value
	}
	if c, err := r.Cookie(RoleCookie); err == nil {
		s.Role = c.Value
	}
	return s
}

// Save persists a freshly issued credential.
func (st *Store) Save(w http.ResponseWriter, creds catalog.Credentials) {
	st.set(w, TokenCookie, creds.Token, int(sessionTTL.Seconds()))
	st.set(w, RoleCookie, creds.Role, int(sessionTTL.Seconds()))
}

// Clear removes both credential cookies.
func (st *Store) Clear(w http.ResponseWriter) {
	st.set(w, TokenCookie, "", -1)
	st.set(w, RoleCookie, "", -1)
}

func (st *Store) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionKey is the context key for the loaded session.
type sessionKey struct{}

// FromContext returns the session stored by Guard, or a zero Session.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		return s
	}
	return Session{}
}

// Guard wraps admin-only handlers. A request without an admin credential is
// redirected to loginPath and the wrapped handler never runs, so no admin
// data is fetched. Valid sessions are placed on the request context.
func Guard(store *Store, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := store.Load(r)
			if !s.IsAdmin() {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
