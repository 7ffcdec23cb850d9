package session

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for session records.
// Implementations must be safe for concurrent use; the backing pool is shared
// process-wide. Find returns ErrNotFound for a missing id — expiry is enforced
// by the Manager, not the store.
type Store interface {
	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes all expired records and returns how many were deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}
