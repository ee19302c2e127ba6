package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zots0127/registry/internal/domain/entities"
)

// VersionRepositoryImpl implements repository.VersionRepository over
// sqlite. The table is append-only: no update or delete statement exists
// here, and rows stay addressable after the owning file record is gone.
type VersionRepositoryImpl struct {
	q Queryer
}

// Append writes a snapshot under the caller-supplied version number.
func (r *VersionRepositoryImpl) Append(ctx context.Context, snap *entities.VersionSnapshot) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO versions (file_id, version, cid, updated_by, created_at, note, size)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.FileID, snap.Version, snap.CID, snap.UpdatedBy, snap.CreatedAt,
		snap.Note, snap.Size)
	if err != nil {
		return fmt.Errorf("failed to append version snapshot: %w", err)
	}
	return nil
}

// Get returns one snapshot or ErrNotFound.
func (r *VersionRepositoryImpl) Get(ctx context.Context, fileID uint64, version int) (*entities.VersionSnapshot, error) {
	var snap entities.VersionSnapshot
	err := r.q.QueryRowContext(ctx, `
		SELECT file_id, version, cid, updated_by, created_at, note, size
		FROM versions WHERE file_id = ? AND version = ?`,
		fileID, version,
	).Scan(&snap.FileID, &snap.Version, &snap.CID, &snap.UpdatedBy,
		&snap.CreatedAt, &snap.Note, &snap.Size)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get version snapshot: %w", err)
	}
	return &snap, nil
}

// List returns all snapshots for a file, oldest first.
func (r *VersionRepositoryImpl) List(ctx context.Context, fileID uint64) ([]*entities.VersionSnapshot, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT file_id, version, cid, updated_by, created_at, note, size
		FROM versions WHERE file_id = ? ORDER BY version`, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list version snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*entities.VersionSnapshot
	for rows.Next() {
		var snap entities.VersionSnapshot
		if err := rows.Scan(&snap.FileID, &snap.Version, &snap.CID,
			&snap.UpdatedBy, &snap.CreatedAt, &snap.Note, &snap.Size); err != nil {
			return nil, fmt.Errorf("failed to scan version snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}
