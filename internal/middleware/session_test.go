package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

func newTestSessions(t *testing.T) *SessionManager {
	t.Helper()
	store, err := NewSessionStore(config.SessionConfig{Secret: "test-secret-0123456789abcdef", Dir: t.TempDir(), MaxAge: 3600}, false)
	require.NoError(t, err)
	return NewSessionManager(store)
}

// carryCookies copies the last Set-Cookie for each name onto the next request.
func carryCookies(rec *httptest.ResponseRecorder, r *http.Request) {
	latest := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		latest[c.Name] = c
	}
	for _, c := range latest {
		r.AddCookie(c)
	}
}

func TestSessionState_SaveAndLoadAcrossRequests(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, sessions.State(rec, req).Save("cinemax_current_user", "ana@example.com"))
	require.NotEmpty(t, rec.Result().Cookies())

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(rec, next)

	var email string
	found, err := sessions.State(httptest.NewRecorder(), next).Load("cinemax_current_user", &email)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ana@example.com", email)
}

func TestSessionState_LoadMissingKey(t *testing.T) {
	sessions := newTestSessions(t)

	var value []string
	found, err := sessions.State(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)).Load("cinemax_cart", &value)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionState_LoadUndecodableValue(t *testing.T) {
	sessions := newTestSessions(t)
	state := sessions.State(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	state.session.Values["cinemax_cart"] = "{not json"

	var value []string
	found, err := state.Load("cinemax_cart", &value)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestSessionState_Remove(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	state := sessions.State(rec, req)
	require.NoError(t, state.Save("cinemax_cart", []string{"x"}))
	require.NoError(t, state.Remove("cinemax_cart"))

	var value []string
	found, err := state.Load("cinemax_cart", &value)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionState_TamperedCookieStartsFresh(t *testing.T) {
	sessions := newTestSessions(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "tampered"})

	var email string
	found, err := sessions.State(httptest.NewRecorder(), req).Load("cinemax_current_user", &email)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewSessionStore_FilesystemCookieFlags(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSessionStore(config.SessionConfig{Secret: "test-secret-0123456789abcdef", Dir: dir, MaxAge: 60}, true)
	require.NoError(t, err)

	sessions := NewSessionManager(store)
	rec := httptest.NewRecorder()
	require.NoError(t, sessions.State(rec, httptest.NewRequest(http.MethodGet, "/", nil)).Save("k", 1))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
}

func bigCartItem(i int) models.CartItem {
	seats := []string{"A1", "A2", "A3", "A4", "A5", "A6"}
	return models.CartItem{
		ID:         models.CartItemID(fmt.Sprint(1000+i), "2026-10-20", "19:30", seats),
		MovieID:    fmt.Sprint(1000 + i),
		MovieTitle: "Una película con un título bastante largo para la cartelera",
		Date:       "2026-10-20",
		Time:       "19:30",
		Seats:      seats,
		Price:      60,
		PosterURL:  "https://image.tmdb.org/t/p/w500/aVeryLongPosterPathForTheMovie.jpg",
	}
}

func TestSessionState_HoldsLargeCartAcrossRequests(t *testing.T) {
	sessions := newTestSessions(t)
	carts := services.NewCartService()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		_, err := carts.AddItem(sessions.State(rec, req), bigCartItem(i))
		require.NoError(t, err, "item %d", i+1)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		carryCookies(rec, req)
	}

	cart := carts.GetCart(sessions.State(httptest.NewRecorder(), req))
	assert.Equal(t, 50, cart.ItemCount())
	assert.Equal(t, 3000.0, cart.Total())
}

func TestSessionState_CookieStoreOverflowIsReported(t *testing.T) {
	store, err := NewSessionStore(config.SessionConfig{Secret: "test-secret-0123456789abcdef", Store: SessionStoreCookie, MaxAge: 3600}, false)
	require.NoError(t, err)
	sessions := NewSessionManager(store)
	carts := services.NewCartService()

	state := sessions.State(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	var lastErr error
	for i := 0; i < 50 && lastErr == nil; i++ {
		_, lastErr = carts.AddItem(state, bigCartItem(i))
	}

	assert.ErrorIs(t, lastErr, models.ErrStateTooLarge)
}
