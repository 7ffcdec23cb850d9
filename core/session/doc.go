// Package session implements the server-side session lifecycle and the
// HMAC-based request-authenticity scheme built on top of it.
//
// A session starts anonymous, is promoted to an authenticated identity on
// login/registration/email validation, and returns to anonymous on logout.
// Every one of those privilege changes rotates the session: the old record is
// deleted, a fresh time-sortable id is generated, timestamps are refreshed,
// and the CSRF tag is re-derived. Rotating on promotion is the session
// fixation defense — an attacker-planted id can never become authenticated.
//
// # Core types
//
//   - Record: the persisted entity (id, optional user reference, roles,
//     timestamps, opaque payload, country hint)
//   - Handle: a read-write-locked, shared view of one Record plus its derived
//     CSRF tag, used by middleware and handlers for the life of a request
//   - Manager: lookup, anonymous creation, and the atomic rotate sequence
//   - Store: persistence interface with Postgres and Redis implementations
//
// # CSRF tags are derived, never stored
//
// The tag is an HMAC-SHA256 over "{session_id}-{created_at}" under a secret
// supplied at startup. It is recomputed from the stored identity on every
// load, so a tampered or stale stored tag cannot be replayed, and rotating
// CreatedAt implicitly invalidates every tag issued before the rotation.
// Validation compares in constant time.
//
// # Basic usage
//
//	pool, _ := pg.Connect(ctx, pgCfg)
//	mgr, err := session.NewManager(
//		session.NewPostgresStore(pool),
//		[]byte(cfg.Secret),
//		session.WithTTL(cfg.TTL()),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Resolve or create (normally done by middleware.Session):
//	h, err := mgr.Find(ctx, cookieValue)
//	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
//		h, err = mgr.Create(ctx, session.Anonymous(), countryHint)
//	}
//
//	// Promote on login:
//	err = mgr.Rotate(ctx, h, session.Identity{UserID: userID, Roles: []string{"User"}})
//
// Lookup misses and expired sessions are the normal "new anonymous session"
// path, not failures. Storage errors propagate untouched so the caller can
// fail the request instead of continuing under an inconsistent handle.
package session
