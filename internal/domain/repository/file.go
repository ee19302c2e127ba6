package repository

import (
	"context"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// FileRepository is the authoritative file metadata store, keyed by a
// monotonic file id with a secondary unique index from content address to
// id.
type FileRepository interface {
	// Create assigns the next file id and writes the record. It fails with
	// entities.ErrAlreadyExists when the content address already indexes a
	// live record.
	Create(ctx context.Context, rec *entities.FileRecord) (uint64, error)

	// Get returns the record or entities.ErrNotFound.
	Get(ctx context.Context, id uint64) (*entities.FileRecord, error)

	// GetByCID resolves a record through the content-address index.
	GetByCID(ctx context.Context, cid string) (*entities.FileRecord, error)

	// UpdateFields applies a partial edit, bumps the version counter by one
	// and stamps updated_at. It never touches the content address, size or
	// id. Returns the new version number.
	UpdateFields(ctx context.Context, id uint64, upd *entities.FileUpdate, now time.Time) (int, error)

	// IncrementDownloads bumps the download counter and stamps updated_at.
	IncrementDownloads(ctx context.Context, id uint64, now time.Time) error

	// SetLocked flips the lock flag.
	SetLocked(ctx context.Context, id uint64, locked bool, now time.Time) error

	// Delete removes the record and frees its content-address index entry.
	Delete(ctx context.Context, id uint64) error

	// Stats reports the number of live records and their cumulative size.
	Stats(ctx context.Context) (files int64, bytes int64, err error)
}
