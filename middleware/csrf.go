package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/stefnlabs/websession/core/logger"
)

// CSRFConfig configures the anti-forgery middleware.
type CSRFConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// FormField names the submitted token field (default: "csrf_token").
	FormField string
	// HeaderName names the fallback header for non-form clients
	// (default: "X-CSRF-Token").
	HeaderName string
	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
	// ErrorHandler responds to rejected requests. Default: plain 403.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// CSRF creates middleware that validates the anti-forgery token on every
// state-changing request before the downstream handler runs. Safe methods
// (GET, HEAD, OPTIONS, TRACE) pass through untouched.
//
// The token is read from the form field first and the header as a fallback,
// then checked against the tag derived from the session handle's current
// identity. Requests without a resolved session handle are rejected, so this
// middleware must be mounted behind Session.
func CSRF(secret []byte, cfg CSRFConfig) func(http.Handler) http.Handler {
	if len(secret) == 0 {
		panic("csrf middleware: secret is required")
	}
	if cfg.FormField == "" {
		cfg.FormField = "csrf_token"
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			h, ok := FromContext(r.Context())
			if !ok {
				cfg.Logger.WarnContext(r.Context(), "csrf middleware: no session handle in context",
					logger.Component("csrf"))
				cfg.ErrorHandler(w, r, http.ErrNoCookie)
				return
			}

			presented := r.PostFormValue(cfg.FormField)
			if presented == "" {
				presented = r.Header.Get(cfg.HeaderName)
			}

			if err := h.ValidateCSRFToken(secret, presented); err != nil {
				cfg.Logger.WarnContext(r.Context(), "csrf middleware: token rejected",
					logger.Component("csrf"),
					logger.SessionID(h.ID()),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				cfg.ErrorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
