package repository

import (
	"context"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// BackupRepository is the secondary-copy ledger keyed by (file id, backup
// id). The core only requires file existence and ownership before
// delegating here.
type BackupRepository interface {
	// Create records a new backup copy.
	Create(ctx context.Context, b *entities.BackupCopy) error

	// Get returns one entry or entities.ErrNotFound.
	Get(ctx context.Context, fileID uint64, backupID string) (*entities.BackupCopy, error)

	// List returns all entries for a file, oldest first.
	List(ctx context.Context, fileID uint64) ([]*entities.BackupCopy, error)

	// MarkVerified stamps a successful verification.
	MarkVerified(ctx context.Context, fileID uint64, backupID string, now time.Time) error
}

// BackupVerifier checks that a recorded backup location actually holds an
// object. Implementations talk to an S3-compatible endpoint.
type BackupVerifier interface {
	Exists(ctx context.Context, location string) (bool, error)
}
