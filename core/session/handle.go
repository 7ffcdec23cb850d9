package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle is a concurrency-safe, shared view of one session record plus its
// derived CSRF tag. A single handle is created when a request resolves its
// session and is shared by pointer across the concurrent tasks serving that
// request. Many readers may hold the lock at once; writers take exclusive
// access. No I/O happens while the lock is held.
type Handle struct {
	mu   sync.RWMutex
	rec  Record
	csrf string

	// rotateMu serializes whole rotations, including their store I/O, so two
	// concurrent rotations cannot interleave and orphan a freshly saved
	// record. It is separate from mu, which never guards I/O.
	rotateMu sync.Mutex
}

// newHandle wraps a record and precomputes its CSRF tag.
func newHandle(rec Record, secret []byte) *Handle {
	return &Handle{
		rec:  rec,
		csrf: Sign(secret, csrfMessage(rec.ID, rec.CreatedAt)),
	}
}

// ID returns the session identifier, suitable as the session cookie value.
func (h *Handle) ID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.ID.String()
}

// CSRFToken returns the derived anti-forgery tag, suitable as the CSRF cookie value.
func (h *Handle) CSRFToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.csrf
}

// IsAuthenticated reports whether the session is bound to a principal.
func (h *Handle) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.IsAuthenticated()
}

// UserID returns the authenticated principal reference, if any.
func (h *Handle) UserID() (uuid.UUID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.UserID, h.rec.UserID != uuid.Nil
}

// Roles returns a copy of the principal's role set, empty when anonymous.
func (h *Handle) Roles() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	roles := make([]string, len(h.rec.Roles))
	copy(roles, h.rec.Roles)
	return roles
}

// Country returns the geolocation hint captured at creation, if any.
func (h *Handle) Country() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.Country
}

// CreatedAt returns the instant of the record's creation or latest rotation.
func (h *Handle) CreatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.CreatedAt
}

// ExpiresAt returns the absolute expiry instant.
func (h *Handle) ExpiresAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.ExpiresAt
}

// SetData serializes v and stores it as the session's opaque payload.
// Serialization happens before the write lock is taken.
func (h *Handle) SetData(v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrEncodeData, err)
	}
	h.mu.Lock()
	h.rec.Data = buf
	h.mu.Unlock()
	return nil
}

// Data deserializes the opaque payload into dst. Reading before any write
// fails with ErrNoData rather than yielding a silent zero value.
func (h *Handle) Data(dst any) error {
	h.mu.RLock()
	buf := h.rec.Data
	h.mu.RUnlock()
	if buf == nil {
		return ErrNoData
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return errors.Join(ErrDecodeData, err)
	}
	return nil
}

// ValidateCSRFToken recomputes the expected tag from the handle's current
// (ID, CreatedAt) and compares it against the caller-presented token in
// constant time. A mismatch yields ErrCSRFMismatch and mutates nothing.
func (h *Handle) ValidateCSRFToken(secret []byte, presented string) error {
	h.mu.RLock()
	id, createdAt := h.rec.ID, h.rec.CreatedAt
	h.mu.RUnlock()

	if !Verify(secret, csrfMessage(id, createdAt), presented) {
		return ErrCSRFMismatch
	}
	return nil
}

// snapshot returns a copy of the wrapped record for persistence outside the lock.
func (h *Handle) snapshot() Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec
}

// swap atomically replaces the wrapped record and its derived tag. The caller
// computes both fully before calling, so a cancellation before the swap leaves
// the old, still-valid state visible and never a half-updated one.
func (h *Handle) swap(rec Record, csrf string) {
	h.mu.Lock()
	h.rec = rec
	h.csrf = csrf
	h.mu.Unlock()
}
