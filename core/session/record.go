package session

import (
	"time"

	"github.com/google/uuid"
)

// Record is the persisted session entity. The CSRF tag is deliberately not a
// field: it is derived from (ID, CreatedAt, secret) on every load, so a stale
// or tampered stored tag can never be replayed.
type Record struct {
	// ID is the sole lookup key, a time-sortable UUIDv7.
	ID uuid.UUID `json:"session_id"`

	// UserID references the authenticated principal; uuid.Nil means anonymous.
	UserID uuid.UUID `json:"user_id"`

	// Roles holds the principal's role set, empty when anonymous.
	Roles []string `json:"roles"`

	// CreatedAt is refreshed on every rotation and is an input to the CSRF tag.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessed is updated on rotation, not on every read.
	LastAccessed time.Time `json:"last_accessed"`

	// ExpiresAt is computed as CreatedAt + ttl at creation and rotation.
	ExpiresAt time.Time `json:"expires_at"`

	// Data is an opaque serialized payload; nil means never set.
	Data []byte `json:"data,omitempty"`

	// Country is an optional geolocation hint captured at creation.
	Country string `json:"country,omitempty"`
}

// Identity names the principal a session is bound to. The zero value is anonymous.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
}

// Anonymous returns the identity of an unauthenticated visitor.
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous reports whether the identity references no principal.
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// newRecord builds a fresh session record for the given identity. Timestamps
// are truncated to whole seconds so the CSRF framing is stable across the
// storage round trip.
func newRecord(identity Identity, ttl time.Duration, country string, now time.Time) Record {
	now = now.UTC().Truncate(time.Second)
	return Record{
		ID:           uuid.Must(uuid.NewV7()),
		UserID:       identity.UserID,
		Roles:        identity.Roles,
		CreatedAt:    now,
		LastAccessed: now,
		ExpiresAt:    now.Add(ttl),
		Country:      country,
	}
}

// IsAuthenticated reports whether the record references an authenticated principal.
func (r Record) IsAuthenticated() bool {
	return r.UserID != uuid.Nil
}

// IsExpired reports whether the record's expiration has passed at the given instant.
func (r Record) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
