package repository

import (
	"context"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// PermissionRepository holds file ownership and time-bounded delegated
// grants. Ownership lives in its own one-to-one map so a transfer never
// touches the larger file record.
type PermissionRepository interface {
	// SetOwner records or reassigns the single owner of a file.
	SetOwner(ctx context.Context, fileID uint64, owner string) error

	// Owner returns the recorded owner or entities.ErrNotFound.
	Owner(ctx context.Context, fileID uint64) (string, error)

	// DeleteOwner drops the ownership entry and its reverse-index entry.
	DeleteOwner(ctx context.Context, fileID uint64) error

	// ListOwned enumerates file ids owned by an identity via the reverse
	// index.
	ListOwned(ctx context.Context, owner string) ([]uint64, error)

	// Upsert writes a grant, overwriting any prior grant for the same
	// (file, grantee) pair.
	Upsert(ctx context.Context, g *entities.Grant) error

	// Revoke deletes a grant. Missing grants return entities.ErrNotFound.
	Revoke(ctx context.Context, fileID uint64, grantee string) error

	// GetGrant returns the stored grant, expired or not, or
	// entities.ErrNotFound.
	GetGrant(ctx context.Context, fileID uint64, grantee string) (*entities.Grant, error)

	// Check runs the authorization algorithm: the owner always passes; a
	// grant passes when its level equals the required level or is admin and
	// it has not lapsed at the given time. Expired grants are treated as
	// absent but stay stored.
	Check(ctx context.Context, fileID uint64, requester string, required entities.PermissionLevel, now time.Time) (bool, error)
}
