package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// PermissionRepositoryImpl implements repository.PermissionRepository over
// sqlite. Ownership and delegated grants live in separate tables so a
// transfer only touches the small ownership row.
type PermissionRepositoryImpl struct {
	q Queryer
}

// SetOwner records or reassigns the single owner of a file.
func (r *PermissionRepositoryImpl) SetOwner(ctx context.Context, fileID uint64, owner string) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT OR REPLACE INTO owners (file_id, owner) VALUES (?, ?)",
		fileID, owner)
	if err != nil {
		return fmt.Errorf("failed to set owner: %w", err)
	}
	return nil
}

// Owner returns the recorded owner or ErrNotFound.
func (r *PermissionRepositoryImpl) Owner(ctx context.Context, fileID uint64) (string, error) {
	var owner string
	err := r.q.QueryRowContext(ctx,
		"SELECT owner FROM owners WHERE file_id = ?", fileID).Scan(&owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", entities.ErrNotFound
		}
		return "", fmt.Errorf("failed to get owner: %w", err)
	}
	return owner, nil
}

// DeleteOwner drops the ownership entry. The (owner, file_id) index entry
// goes with the row.
func (r *PermissionRepositoryImpl) DeleteOwner(ctx context.Context, fileID uint64) error {
	result, err := r.q.ExecContext(ctx,
		"DELETE FROM owners WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	return requireAffected(result)
}

// ListOwned enumerates file ids owned by an identity.
func (r *PermissionRepositoryImpl) ListOwned(ctx context.Context, owner string) ([]uint64, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT file_id FROM owners WHERE owner = ? ORDER BY file_id", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned files: %w", err)
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan owned file id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert writes a grant, overwriting any prior grant for the pair.
func (r *PermissionRepositoryImpl) Upsert(ctx context.Context, g *entities.Grant) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT OR REPLACE INTO grants (file_id, grantee, level, granted_by, granted_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.FileID, g.Grantee, string(g.Level), g.GrantedBy, g.GrantedAt,
		nullableTime(g.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to write grant: %w", err)
	}
	return nil
}

// Revoke deletes a grant.
func (r *PermissionRepositoryImpl) Revoke(ctx context.Context, fileID uint64, grantee string) error {
	result, err := r.q.ExecContext(ctx,
		"DELETE FROM grants WHERE file_id = ? AND grantee = ?", fileID, grantee)
	if err != nil {
		return fmt.Errorf("failed to revoke grant: %w", err)
	}
	return requireAffected(result)
}

// GetGrant returns the stored grant, expired or not.
func (r *PermissionRepositoryImpl) GetGrant(ctx context.Context, fileID uint64, grantee string) (*entities.Grant, error) {
	var g entities.Grant
	var level string
	var expiresAt sql.NullTime

	err := r.q.QueryRowContext(ctx, `
		SELECT file_id, grantee, level, granted_by, granted_at, expires_at
		FROM grants WHERE file_id = ? AND grantee = ?`,
		fileID, grantee,
	).Scan(&g.FileID, &g.Grantee, &level, &g.GrantedBy, &g.GrantedAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}

	g.Level = entities.PermissionLevel(level)
	if expiresAt.Valid {
		t := expiresAt.Time
		g.ExpiresAt = &t
	}
	return &g, nil
}

// Check runs the authorization algorithm: owner first, then an active
// grant whose level equals the required level or is admin. Expired grants
// count as absent but are left in place.
func (r *PermissionRepositoryImpl) Check(ctx context.Context, fileID uint64, requester string, required entities.PermissionLevel, now time.Time) (bool, error) {
	owner, err := r.Owner(ctx, fileID)
	if err == nil && owner == requester {
		return true, nil
	}
	if err != nil && err != entities.ErrNotFound {
		return false, err
	}

	g, err := r.GetGrant(ctx, fileID, requester)
	if err != nil {
		if err == entities.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	return g.Active(now) && g.Allows(required), nil
}
