package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// QuotaRepositoryImpl implements repository.QuotaRepository over sqlite.
// Rows are created lazily with the configured defaults; the used-bytes
// counter moves only through paired Reserve/Release calls.
type QuotaRepositoryImpl struct {
	q        Queryer
	defaults QuotaDefaults
}

// ensure creates the ledger row for an identity if it does not exist yet.
func (r *QuotaRepositoryImpl) ensure(ctx context.Context, identity string, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO quotas (identity, used_bytes, max_bytes, file_count, max_files, updated_at)
		VALUES (?, 0, ?, 0, ?, ?)`,
		identity, r.defaults.MaxBytes, r.defaults.MaxFiles, now)
	if err != nil {
		return fmt.Errorf("failed to ensure quota row: %w", err)
	}
	return nil
}

// Get returns the ledger row, creating a defaulted one for identities
// never seen before.
func (r *QuotaRepositoryImpl) Get(ctx context.Context, identity string) (*entities.Quota, error) {
	var quota entities.Quota
	err := r.q.QueryRowContext(ctx, `
		SELECT identity, used_bytes, max_bytes, file_count, max_files, updated_at
		FROM quotas WHERE identity = ?`, identity,
	).Scan(&quota.Identity, &quota.UsedBytes, &quota.MaxBytes,
		&quota.FileCount, &quota.MaxFiles, &quota.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return &entities.Quota{
				Identity: identity,
				MaxBytes: r.defaults.MaxBytes,
				MaxFiles: r.defaults.MaxFiles,
			}, nil
		}
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}
	return &quota, nil
}

// Reserve checks both ceilings before committing the byte increment. A
// failed check leaves the ledger untouched.
func (r *QuotaRepositoryImpl) Reserve(ctx context.Context, identity string, bytes int64, now time.Time) error {
	if err := r.ensure(ctx, identity, now); err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, `
		UPDATE quotas SET used_bytes = used_bytes + ?, updated_at = ?
		WHERE identity = ? AND used_bytes + ? <= max_bytes AND file_count + 1 <= max_files`,
		bytes, now, identity, bytes)
	if err != nil {
		return fmt.Errorf("failed to reserve quota: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrQuotaExceeded
	}
	return nil
}

// Release subtracts bytes from the used counter, clamping at zero.
func (r *QuotaRepositoryImpl) Release(ctx context.Context, identity string, bytes int64, now time.Time) error {
	if err := r.ensure(ctx, identity, now); err != nil {
		return err
	}

	_, err := r.q.ExecContext(ctx, `
		UPDATE quotas SET used_bytes = MAX(0, used_bytes - ?), updated_at = ?
		WHERE identity = ?`,
		bytes, now, identity)
	if err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}
	return nil
}

// AddFiles moves the file counter by delta, clamping at zero.
func (r *QuotaRepositoryImpl) AddFiles(ctx context.Context, identity string, delta int64, now time.Time) error {
	if err := r.ensure(ctx, identity, now); err != nil {
		return err
	}

	_, err := r.q.ExecContext(ctx, `
		UPDATE quotas SET file_count = MAX(0, file_count + ?), updated_at = ?
		WHERE identity = ?`,
		delta, now, identity)
	if err != nil {
		return fmt.Errorf("failed to move file count: %w", err)
	}
	return nil
}
