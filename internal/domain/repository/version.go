package repository

import (
	"context"

	"github.com/zots0127/registry/internal/domain/entities"
)

// VersionRepository is the append-only per-file version history. Snapshots
// are immutable once written and outlive the live file record; there is no
// delete operation.
type VersionRepository interface {
	// Append writes a snapshot under the caller-supplied version number.
	Append(ctx context.Context, snap *entities.VersionSnapshot) error

	// Get returns one snapshot or entities.ErrNotFound.
	Get(ctx context.Context, fileID uint64, version int) (*entities.VersionSnapshot, error)

	// List returns all snapshots for a file, oldest first.
	List(ctx context.Context, fileID uint64) ([]*entities.VersionSnapshot, error)
}
