package repository

import (
	"context"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// CategoryRepository holds category definitions and their live file-count
// aggregates.
type CategoryRepository interface {
	// Create appends a category under the next monotonic id.
	Create(ctx context.Context, cat *entities.Category, now time.Time) (uint64, error)

	// Get returns the category or entities.ErrNotFound.
	Get(ctx context.Context, id uint64) (*entities.Category, error)

	// MustExist fails with entities.ErrInvalidCategory for unknown ids.
	MustExist(ctx context.Context, id uint64) error

	// Increment bumps the live file count.
	Increment(ctx context.Context, id uint64) error

	// Decrement lowers the live file count, saturating at zero.
	Decrement(ctx context.Context, id uint64) error
}
