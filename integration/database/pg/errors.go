package pg

import "errors"

var (
	// ErrEmptyConnectionString is returned when no connection string is configured.
	ErrEmptyConnectionString = errors.New("empty postgres connection string")
	// ErrFailedToParseConnString is returned when the connection string cannot be parsed.
	ErrFailedToParseConnString = errors.New("failed to parse postgres connection string")
	// ErrNotReady is returned when the database did not become reachable
	// within the configured retry budget.
	ErrNotReady = errors.New("postgres did not become ready within the given time period")
	// ErrHealthcheckFailed is returned by the health check when a ping fails.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")
)
