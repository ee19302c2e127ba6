package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// BackupRepositoryImpl implements repository.BackupRepository over sqlite.
type BackupRepositoryImpl struct {
	q Queryer
}

// Create records a new backup copy.
func (r *BackupRepositoryImpl) Create(ctx context.Context, b *entities.BackupCopy) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO backups (file_id, backup_id, location, checksum, created_by, created_at, verified_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		b.FileID, b.BackupID, b.Location, b.Checksum, b.CreatedBy, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert backup entry: %w", err)
	}
	return nil
}

// Get returns one entry or ErrNotFound.
func (r *BackupRepositoryImpl) Get(ctx context.Context, fileID uint64, backupID string) (*entities.BackupCopy, error) {
	var b entities.BackupCopy
	var verifiedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, `
		SELECT file_id, backup_id, location, checksum, created_by, created_at, verified_at
		FROM backups WHERE file_id = ? AND backup_id = ?`,
		fileID, backupID,
	).Scan(&b.FileID, &b.BackupID, &b.Location, &b.Checksum, &b.CreatedBy,
		&b.CreatedAt, &verifiedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get backup entry: %w", err)
	}

	if verifiedAt.Valid {
		t := verifiedAt.Time
		b.VerifiedAt = &t
	}
	return &b, nil
}

// List returns all entries for a file, oldest first.
func (r *BackupRepositoryImpl) List(ctx context.Context, fileID uint64) ([]*entities.BackupCopy, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT file_id, backup_id, location, checksum, created_by, created_at, verified_at
		FROM backups WHERE file_id = ? ORDER BY created_at`, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup entries: %w", err)
	}
	defer rows.Close()

	var backups []*entities.BackupCopy
	for rows.Next() {
		var b entities.BackupCopy
		var verifiedAt sql.NullTime
		if err := rows.Scan(&b.FileID, &b.BackupID, &b.Location, &b.Checksum,
			&b.CreatedBy, &b.CreatedAt, &verifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup entry: %w", err)
		}
		if verifiedAt.Valid {
			t := verifiedAt.Time
			b.VerifiedAt = &t
		}
		backups = append(backups, &b)
	}
	return backups, rows.Err()
}

// MarkVerified stamps a successful verification.
func (r *BackupRepositoryImpl) MarkVerified(ctx context.Context, fileID uint64, backupID string, now time.Time) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE backups SET verified_at = ? WHERE file_id = ? AND backup_id = ?",
		now, fileID, backupID)
	if err != nil {
		return fmt.Errorf("failed to mark backup verified: %w", err)
	}
	return requireAffected(result)
}
