package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefnlabs/websession/integration/database/pg"
)

// PostgresStore persists session records in the web_sessions table over a
// shared pgx connection pool. Schema evolution lives in migrations/.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// pgQuerier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// db returns the transaction carried by ctx when present, so callers can
// group store operations (e.g. a rotation's delete+insert) atomically via
// pg.WithTx, and the shared pool otherwise.
func (s *PostgresStore) db(ctx context.Context) pgQuerier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// Find loads a record by id. Expired rows are still returned; the manager
// enforces expiry so the boundary check lives in exactly one place.
func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	const query = `
		SELECT session_id, user_id, roles, created_at, last_accessed, expiration, data, country
		FROM web_sessions
		WHERE session_id = $1`

	var (
		rec    Record
		userID *uuid.UUID
		roles  string
	)
	err := s.db(ctx).QueryRow(ctx, query, id).Scan(
		&rec.ID, &userID, &roles,
		&rec.CreatedAt, &rec.LastAccessed, &rec.ExpiresAt,
		&rec.Data, &rec.Country,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if userID != nil {
		rec.UserID = *userID
	}
	rec.Roles = splitRoles(roles)
	return &rec, nil
}

// Save upserts a record. Rotation inserts a brand new id, so the conflict arm
// only fires for repeated saves of the same session (e.g. payload updates).
func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	const query = `
		INSERT INTO web_sessions (session_id, user_id, roles, created_at, last_accessed, expiration, data, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			user_id       = EXCLUDED.user_id,
			roles         = EXCLUDED.roles,
			created_at    = EXCLUDED.created_at,
			last_accessed = EXCLUDED.last_accessed,
			expiration    = EXCLUDED.expiration,
			data          = EXCLUDED.data,
			country       = EXCLUDED.country`

	var userID *uuid.UUID
	if rec.UserID != uuid.Nil {
		userID = &rec.UserID
	}

	_, err := s.db(ctx).Exec(ctx, query,
		rec.ID, userID, joinRoles(rec.Roles),
		rec.CreatedAt, rec.LastAccessed, rec.ExpiresAt,
		rec.Data, rec.Country,
	)
	return err
}

// Delete removes a record by id. Deleting an absent id is not an error.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db(ctx).Exec(ctx, `DELETE FROM web_sessions WHERE session_id = $1`, id)
	return err
}

// DeleteExpired removes every record whose expiration has passed.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db(ctx).Exec(ctx, `DELETE FROM web_sessions WHERE expiration < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// joinRoles encodes a role set as the compact comma-joined storage form.
func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// splitRoles decodes the storage form; an empty string means no roles.
func splitRoles(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
