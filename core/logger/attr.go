package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return the empty Attr for zero inputs, so call sites can
// log unconditionally without nil checks: log.Info("msg", logger.Error(err)).

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for an operation duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component names the subsystem a log line originates from.
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}

// SessionID tags a log line with the session it concerns. The id is already
// an opaque random value, so logging it leaks nothing the cookie doesn't.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}
