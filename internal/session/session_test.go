package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confidence-supplies/storefront/internal/catalog"
)

func TestStore_SaveLoadClear(t *testing.T) {
	store := NewStore(false)

	w := httptest.NewRecorder()
	store.Save(w, catalog.Credentials{Token: "tok-123", Role: "admin"})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
	}

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	s := store.Load(r)
	assert.Equal(t, "tok-123", s.Token)
	assert.Equal(t, "admin", s.Role)
	assert.True(t, s.IsAdmin())

	w = httptest.NewRecorder()
	store.Clear(w)
	for _, c := range w.Result().Cookies() {
		assert.Less(t, c.MaxAge, 0, "clearing must expire %s", c.Name)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(false)
	s := store.Load(httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Empty(t, s.Token)
	assert.False(t, s.IsAdmin())
}

func TestSession_IsAdmin(t *testing.T) {
	assert.False(t, Session{}.IsAdmin())
	assert.False(t, Session{Token: "tok"}.IsAdmin(), "token without admin role")
	assert.False(t, Session{Role: RoleAdmin}.IsAdmin(), "role without token")
	assert.True(t, Session{Token: "tok", Role: RoleAdmin}.IsAdmin())
}

func TestGuard_RedirectsWithoutCredential(t *testing.T) {
	store := NewStore(false)
	inner := 0
	h := Guard(store, "/login")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		inner++
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, inner, "guarded handler must not run")
}

func TestGuard_RedirectsNonAdminRole(t *testing.T) {
	store := NewStore(false)
	h := Guard(store, "/login")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("guarded handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})
	r.AddCookie(&http.Cookie{Name: RoleCookie, Value: "viewer"})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestGuard_PassesAdminAndInjectsSession(t *testing.T) {
	store := NewStore(false)
	var got Session
	h := Guard(store, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok-123"})
	r.AddCookie(&http.Cookie{Name: RoleCookie, Value: RoleAdmin})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123", got.Token)
	assert.Equal(t, RoleAdmin, got.Role)
}
