package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 30 * 24 * time.Hour

// Manager owns the durable session store and performs the lifecycle
// operations: lookup, anonymous creation, and the fixation-safe rotate.
// The signing secret is read-only after construction.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, secret []byte, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	m := &Manager{
		store:  store,
		secret: append([]byte(nil), secret...),
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Find looks a session up by its cookie value. It returns ErrNotFound for a
// malformed or unknown id and ErrExpired when the record has outlived its
// expiration; callers treat both as "create a new anonymous session".
// On a hit the CSRF tag is recomputed from the stored identity, never loaded.
func (m *Manager) Find(ctx context.Context, id string) (*Handle, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	rec, err := m.store.Find(ctx, sid)
	if err != nil {
		return nil, err
	}

	if rec.IsExpired(m.now()) {
		// Lazy cleanup; the record is already unusable, so a delete failure
		// only delays removal until the next lookup or sweep.
		_ = m.store.Delete(ctx, sid)
		return nil, ErrExpired
	}

	return newHandle(*rec, m.secret), nil
}

// Create generates, persists, and wraps a fresh session for the given
// identity. Pass Anonymous() for an unauthenticated visitor. The country
// hint is optional and may be empty.
func (m *Manager) Create(ctx context.Context, identity Identity, country string) (*Handle, error) {
	rec := newRecord(identity, m.ttl, country, m.now())
	if err := m.store.Save(ctx, &rec); err != nil {
		return nil, errors.Join(ErrSaveSession, err)
	}
	return newHandle(rec, m.secret), nil
}

// Rotate replaces the handle's session with a freshly identified one: new id,
// refreshed timestamps, new identity, recomputed CSRF tag. It is called on
// every privilege change (login, registration, email validation, logout) so a
// pre-established session id can never become authenticated.
//
// The replacement record is computed fully before any I/O; the old record is
// deleted first and the new one inserted after, matching the accepted crash
// window (a crash in between loses the session, which degrades to a fresh
// anonymous one on the next request). The in-memory swap happens only once
// both writes succeeded, so on failure the handle still points at valid state
// and the caller must abort the request rather than continue. Rotations on the
// same handle are serialized end to end, store writes included.
func (m *Manager) Rotate(ctx context.Context, h *Handle, identity Identity) error {
	h.rotateMu.Lock()
	defer h.rotateMu.Unlock()

	old := h.snapshot()

	next := newRecord(identity, m.ttl, old.Country, m.now())
	next.Data = old.Data

	if err := m.store.Delete(ctx, old.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}
	if err := m.store.Save(ctx, &next); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	h.swap(next, Sign(m.secret, csrfMessage(next.ID, next.CreatedAt)))
	return nil
}

// Delete removes the handle's session from the store.
func (m *Manager) Delete(ctx context.Context, h *Handle) error {
	rec := h.snapshot()
	if err := m.store.Delete(ctx, rec.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// CleanupExpired sweeps expired records from the store. Expiry is already
// enforced passively at lookup time; this exists to keep the table from
// growing and may be run on any schedule.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the configured session time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Secret returns a copy of the signing secret for collaborators that validate
// CSRF tokens directly, such as the form middleware. A copy keeps the
// manager's own key immutable no matter what the caller does with the slice.
func (m *Manager) Secret() []byte {
	out := make([]byte, len(m.secret))
	copy(out, m.secret)
	return out
}
