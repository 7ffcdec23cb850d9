package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stefnlabs/websession/core/cookie"
	"github.com/stefnlabs/websession/core/logger"
	"github.com/stefnlabs/websession/core/session"
	"github.com/stefnlabs/websession/pkg/clientip"
	"github.com/stefnlabs/websession/pkg/geoip"
)

type sessionKey struct{}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// CookieName carries the session identifier (default: "session_id").
	CookieName string
	// CSRFCookieName carries the derived tag (default: "csrf_token").
	CSRFCookieName string
	// GeoIP optionally resolves the client address to a country hint for new
	// sessions. Resolution failures are non-fatal.
	GeoIP geoip.Resolver
	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
	// ErrorHandler responds when session resolution fails on a storage error.
	// Default: plain 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Session creates middleware that resolves the request's session handle and
// injects it into the request context.
//
// The middleware:
//   - reads the session cookie and looks the session up
//   - creates a fresh anonymous session when the cookie is absent, malformed,
//     unknown, or expired (with an optional geolocation hint)
//   - fails the request on storage errors rather than continuing without a
//     consistent handle
//   - emits the session and CSRF cookies immediately before the response
//     status is written, so they reflect any rotation the handler performed
//
// Cookie contract: the session cookie is HttpOnly; the CSRF cookie is not,
// because client-side code must read it to echo the tag on form submissions.
// Both are Secure, SameSite=Lax, Path=/ with Max-Age equal to the session TTL.
func Session(mgr *session.Manager, cookies *cookie.Manager, cfg SessionConfig) func(http.Handler) http.Handler {
	if mgr == nil {
		panic("session middleware: manager is required")
	}
	if cookies == nil {
		panic("session middleware: cookie manager is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "session_id"
	}
	if cfg.CSRFCookieName == "" {
		cfg.CSRFCookieName = "csrf_token"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	maxAge := int(mgr.TTL().Seconds())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			h, err := resolveSession(r, mgr, cookies, cfg)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to resolve session",
					logger.Component("session"), logger.Error(err))
				cfg.ErrorHandler(w, r, err)
				return
			}

			emitCookies := func(w http.ResponseWriter) {
				if err := cookies.Set(w, cfg.CookieName, h.ID(),
					cookie.WithMaxAge(maxAge),
					cookie.WithHTTPOnly(true),
					cookie.WithSecure(true),
					cookie.WithSameSite(http.SameSiteLaxMode),
					cookie.WithPath("/"),
				); err != nil {
					cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to set session cookie",
						logger.Component("session"), logger.Error(err))
				}
				if err := cookies.Set(w, cfg.CSRFCookieName, h.CSRFToken(),
					cookie.WithMaxAge(maxAge),
					cookie.WithHTTPOnly(false),
					cookie.WithSecure(true),
					cookie.WithSameSite(http.SameSiteLaxMode),
					cookie.WithPath("/"),
				); err != nil {
					cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to set csrf cookie",
						logger.Component("session"), logger.Error(err))
				}
			}

			ww := newResponseWriter(w, func() { emitCookies(w) })

			ctx := context.WithValue(r.Context(), sessionKey{}, h)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Handlers that write nothing still get the implicit 200 with cookies.
			ww.finalize()
		})
	}
}

// resolveSession loads the session referenced by the cookie or creates a new
// anonymous one. Lookup misses and expired sessions silently degrade to a
// fresh session; storage failures propagate.
func resolveSession(r *http.Request, mgr *session.Manager, cookies *cookie.Manager, cfg SessionConfig) (*session.Handle, error) {
	if id, err := cookies.Get(r, cfg.CookieName); err == nil {
		h, err := mgr.Find(r.Context(), id)
		switch {
		case err == nil:
			return h, nil
		case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
			// fall through to creation
		default:
			return nil, err
		}
	}

	return mgr.Create(r.Context(), session.Anonymous(), countryHint(r, cfg))
}

// countryHint resolves the client address to a country code; failures omit
// the hint.
func countryHint(r *http.Request, cfg SessionConfig) string {
	if cfg.GeoIP == nil {
		return ""
	}
	cc, err := cfg.GeoIP.CountryCode(r.Context(), clientip.GetIP(r))
	if err != nil {
		return ""
	}
	return cc
}

// FromContext retrieves the session handle injected by the Session middleware.
func FromContext(ctx context.Context) (*session.Handle, bool) {
	h, ok := ctx.Value(sessionKey{}).(*session.Handle)
	return h, ok
}

// MustFromContext retrieves the session handle or panics. Use in handlers
// mounted strictly behind the Session middleware.
func MustFromContext(ctx context.Context) *session.Handle {
	h, ok := FromContext(ctx)
	if !ok {
		panic("session handle not found in context")
	}
	return h
}
