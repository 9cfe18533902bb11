// Package store defines the credential-store interface over user records.
// Implementations live under internal/store/<driver>/ (file, sqlite, postgres).
package store

import (
	"context"

	"github.com/podgenius/podgenius-server/internal/model"
)

// Store exposes the persistence operations the handlers need. "Not found" is
// never an error: Get returns (nil, nil) for an unknown user id. Updates are
// read-merge-write with last-writer-wins semantics; there is no optimistic
// locking across concurrent callers for the same id.
type Store interface {
	// Get returns the stored record, or nil when no record exists.
	Get(ctx context.Context, userID string) (*model.UserRecord, error)

	// Update merges patch over stored defaults and any existing record,
	// creating the record on first write, and returns the result.
	Update(ctx context.Context, userID string, patch model.UserPatch) (*model.UserRecord, error)

	// Ping verifies backing-store connectivity.
	Ping(ctx context.Context) error

	Close() error
}
