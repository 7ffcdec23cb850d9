package session

import (
	"time"
)

// Config holds session manager configuration loaded from the environment.
type Config struct {
	// Secret signs CSRF tags; read once at startup and never mutated.
	Secret string `env:"SESSION_SECRET,required"`
	// TTLDays is the session lifetime in days; cookies carry the same Max-Age.
	TTLDays int `env:"SESSION_TTL_DAYS" envDefault:"30"`
	// CookieName carries the session identifier (HttpOnly).
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
	// CSRFCookieName carries the derived tag and must stay readable by
	// client-side code that echoes it back on form submissions.
	CSRFCookieName string `env:"CSRF_COOKIE_NAME" envDefault:"csrf_token"`
}

// TTL returns the configured lifetime as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithTTL sets the session time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithNow overrides the manager's clock. Intended for tests that need to sit
// exactly on the expiry boundary.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
