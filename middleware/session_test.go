package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefnlabs/websession/core/cookie"
	"github.com/stefnlabs/websession/core/session"
	"github.com/stefnlabs/websession/middleware"
	"github.com/stefnlabs/websession/pkg/geoip"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// memStore is a minimal map-backed session.Store for middleware tests.
type memStore struct {
	mu      sync.Mutex
	recs    map[uuid.UUID]session.Record
	findErr error
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[uuid.UUID]session.Record)}
}

func (s *memStore) Find(_ context.Context, id uuid.UUID) (*session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	rec, ok := s.recs[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &rec, nil
}

func (s *memStore) Save(_ context.Context, rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = *rec
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

func (s *memStore) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func newTestStack(t *testing.T, cfg middleware.SessionConfig, opts ...session.Option) (*session.Manager, *memStore, func(http.Handler) http.Handler) {
	t.Helper()
	store := newMemStore()
	mgr, err := session.NewManager(store, testSecret, opts...)
	require.NoError(t, err)
	mw := middleware.Session(mgr, cookie.New(), cfg)
	return mgr, store, mw
}

func cookieByName(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found in response", name)
	return nil
}

func TestSession_CreatesAnonymousWhenNoCookie(t *testing.T) {
	t.Parallel()

	mgr, _, mw := newTestStack(t, middleware.SessionConfig{}, session.WithTTL(30*24*time.Hour))

	var seen *session.Handle
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := middleware.FromContext(r.Context())
		require.True(t, ok)
		seen = h
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	resp := w.Result()

	require.NotNil(t, seen)
	assert.False(t, seen.IsAuthenticated())

	sess := cookieByName(t, resp, "session_id")
	assert.Equal(t, seen.ID(), sess.Value)
	assert.True(t, sess.HttpOnly)
	assert.True(t, sess.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sess.SameSite)
	assert.Equal(t, "/", sess.Path)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), sess.MaxAge)

	csrf := cookieByName(t, resp, "csrf_token")
	assert.Equal(t, seen.CSRFToken(), csrf.Value)
	assert.False(t, csrf.HttpOnly, "csrf cookie must stay readable by client-side code")
	assert.True(t, csrf.Secure)
	assert.Equal(t, mgr.TTL(), 30*24*time.Hour)
}

func TestSession_ReusesExistingSession(t *testing.T) {
	t.Parallel()

	mgr, _, mw := newTestStack(t, middleware.SessionConfig{})

	existing, err := mgr.Create(context.Background(), session.Anonymous(), "NO")
	require.NoError(t, err)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := middleware.MustFromContext(r.Context())
		assert.Equal(t, existing.ID(), h.ID())
		assert.Equal(t, "NO", h.Country())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: existing.ID()})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	sess := cookieByName(t, w.Result(), "session_id")
	assert.Equal(t, existing.ID(), sess.Value)
}

func TestSession_ExpiredCookieGetsFreshSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mgr, _, mw := newTestStack(t, middleware.SessionConfig{},
		session.WithTTL(time.Hour),
		session.WithNow(func() time.Time { return now }),
	)

	stale, err := mgr.Create(context.Background(), session.Anonymous(), "")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := middleware.MustFromContext(r.Context())
		assert.NotEqual(t, stale.ID(), h.ID(), "expired session must be replaced, not reused")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: stale.ID()})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	sess := cookieByName(t, w.Result(), "session_id")
	assert.NotEqual(t, stale.ID(), sess.Value)
}

func TestSession_CookiesReflectRotation(t *testing.T) {
	t.Parallel()

	mgr, _, mw := newTestStack(t, middleware.SessionConfig{})

	var preRotationID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := middleware.MustFromContext(r.Context())
		preRotationID = h.ID()

		err := mgr.Rotate(r.Context(), h, session.Identity{UserID: uuid.New(), Roles: []string{"User"}})
		require.NoError(t, err)

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	resp := w.Result()

	sess := cookieByName(t, resp, "session_id")
	assert.NotEqual(t, preRotationID, sess.Value, "cookie must carry the post-rotation id")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestSession_HandlerWithoutWriteStillGetsCookies(t *testing.T) {
	t.Parallel()

	_, _, mw := newTestStack(t, middleware.SessionConfig{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no explicit write; net/http sends the implicit 200
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookieByName(t, w.Result(), "session_id")
	cookieByName(t, w.Result(), "csrf_token")
}

func TestSession_FlushingHandlerStillGetsCookies(t *testing.T) {
	t.Parallel()

	_, _, mw := newTestStack(t, middleware.SessionConfig{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		// Streaming handlers flush before the first explicit write; the
		// cookies must already be on the wire by then.
		f.Flush()
		_, err := w.Write([]byte("event: ping\n\n"))
		require.NoError(t, err)
		f.Flush()
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, w.Flushed)
	cookieByName(t, resp, "session_id")
	cookieByName(t, resp, "csrf_token")
}

func TestSession_StorageFailureFailsRequest(t *testing.T) {
	t.Parallel()

	mgr, store, mw := newTestStack(t, middleware.SessionConfig{})

	existing, err := mgr.Create(context.Background(), session.Anonymous(), "")
	require.NoError(t, err)

	store.mu.Lock()
	store.findErr = errors.New("connection refused")
	store.mu.Unlock()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when session resolution fails")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: existing.ID()})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestSession_GeoIPHint(t *testing.T) {
	t.Parallel()

	_, _, mw := newTestStack(t, middleware.SessionConfig{
		GeoIP: geoip.NewStaticResolver(map[string]string{"203.0.113.7": "NL"}),
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := middleware.MustFromContext(r.Context())
		assert.Equal(t, "NL", h.Country())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:44321"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
}

func TestSession_GeoIPFailureOmitsHint(t *testing.T) {
	t.Parallel()

	_, _, mw := newTestStack(t, middleware.SessionConfig{
		GeoIP: geoip.NewStaticResolver(nil),
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := middleware.MustFromContext(r.Context())
		assert.Empty(t, h.Country())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestSession_Skip(t *testing.T) {
	t.Parallel()

	_, _, mw := newTestStack(t, middleware.SessionConfig{
		Skip: func(r *http.Request) bool { return r.URL.Path == "/health" },
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.FromContext(r.Context())
		assert.False(t, ok)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, w.Result().Cookies())
}

func TestSession_CustomCookieNames(t *testing.T) {
	t.Parallel()

	_, _, mw := newTestStack(t, middleware.SessionConfig{
		CookieName:     "sid",
		CSRFCookieName: "xsrf",
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookieByName(t, w.Result(), "sid")
	cookieByName(t, w.Result(), "xsrf")
}
