package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// CategoryRepositoryImpl implements repository.CategoryRepository over
// sqlite. Ids come from the AUTOINCREMENT sequence; the file count moves
// in lock-step with file creation and deletion inside the same
// transaction.
type CategoryRepositoryImpl struct {
	q Queryer
}

// Create appends a category under the next monotonic id.
func (r *CategoryRepositoryImpl) Create(ctx context.Context, cat *entities.Category, now time.Time) (uint64, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO categories (name, description, created_by, file_count, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		cat.Name, cat.Description, cat.CreatedBy, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned category id: %w", err)
	}

	cat.ID = uint64(id)
	cat.CreatedAt = now
	return cat.ID, nil
}

// Get returns the category or ErrNotFound.
func (r *CategoryRepositoryImpl) Get(ctx context.Context, id uint64) (*entities.Category, error) {
	var cat entities.Category
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, description, created_by, file_count, created_at
		FROM categories WHERE id = ?`, id,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedBy,
		&cat.FileCount, &cat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// MustExist fails with ErrInvalidCategory for unknown ids.
func (r *CategoryRepositoryImpl) MustExist(ctx context.Context, id uint64) error {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return entities.ErrInvalidCategory
	}
	return nil
}

// Increment bumps the live file count.
func (r *CategoryRepositoryImpl) Increment(ctx context.Context, id uint64) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE categories SET file_count = file_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment category count: %w", err)
	}
	return requireAffected(result)
}

// Decrement lowers the live file count, saturating at zero.
func (r *CategoryRepositoryImpl) Decrement(ctx context.Context, id uint64) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE categories SET file_count = MAX(0, file_count - 1) WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to decrement category count: %w", err)
	}
	return requireAffected(result)
}
