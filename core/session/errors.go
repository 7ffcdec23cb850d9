package session

import "errors"

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	// A lookup miss is the normal "need a new anonymous session" path, not a failure.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session exists but its expiration has passed.
	ErrExpired = errors.New("session has expired")
	// ErrCSRFMismatch is returned when a presented CSRF token does not match
	// the tag derived from the session's current identity.
	ErrCSRFMismatch = errors.New("csrf token mismatch")
	// ErrNoData is returned when reading application data that was never set.
	ErrNoData = errors.New("no application data set on session")
	// ErrEncodeData is returned when an application payload cannot be serialized.
	ErrEncodeData = errors.New("failed to encode session data")

	// ErrDecodeData is returned when the stored application payload cannot be decoded.
	ErrDecodeData = errors.New("failed to decode session data")
	// ErrSaveSession is returned when persisting a session to the store fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when deleting a session from the store fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrMissingSecret is returned when a manager is constructed without a signing secret.
	ErrMissingSecret = errors.New("signing secret is required")
)
