package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// FileRepositoryImpl implements repository.FileRepository over sqlite.
type FileRepositoryImpl struct {
	q Queryer
}

const fileColumns = `id, file_name, cid, uploaded_by, created_at, updated_at, size,
	content_type, description, access_level, download_count, locked, expires_at,
	category_id, tags, checksum, encryption_key, version, license`

// Create assigns the next monotonic id via the AUTOINCREMENT sequence, so
// ids are never reused even after deletion. A live record with the same
// content address fails with ErrAlreadyExists; the unique index on cid
// backs the check.
func (r *FileRepositoryImpl) Create(ctx context.Context, rec *entities.FileRecord) (uint64, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM files WHERE cid = ?)", rec.CID,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check content address: %w", err)
	}
	if exists {
		return 0, entities.ErrAlreadyExists
	}

	tagsJSON, err := json.Marshal(rec.Tags)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal tags: %w", err)
	}

	result, err := r.q.ExecContext(ctx, `
		INSERT INTO files (
			file_name, cid, uploaded_by, created_at, updated_at, size,
			content_type, description, access_level, download_count, locked,
			expires_at, category_id, tags, checksum, encryption_key, version, license
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, FALSE, ?, ?, ?, ?, ?, 1, ?)`,
		rec.FileName, rec.CID, rec.UploadedBy, rec.CreatedAt, rec.UpdatedAt,
		rec.Size, rec.ContentType, rec.Description, string(rec.AccessLevel),
		nullableTime(rec.ExpiresAt), rec.CategoryID, string(tagsJSON),
		rec.Checksum, rec.EncryptionKey, rec.License,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert file record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned file id: %w", err)
	}

	rec.ID = uint64(id)
	rec.Version = 1
	return rec.ID, nil
}

// Get returns the record or ErrNotFound.
func (r *FileRepositoryImpl) Get(ctx context.Context, id uint64) (*entities.FileRecord, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id = ?", id)
	return scanFileRecord(row)
}

// GetByCID resolves a record through the content-address index.
func (r *FileRepositoryImpl) GetByCID(ctx context.Context, cid string) (*entities.FileRecord, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE cid = ?", cid)
	return scanFileRecord(row)
}

// UpdateFields applies a partial edit. The version bump and updated_at
// stamp happen in the same statement as the field writes, so the new
// version number always matches the stored row.
func (r *FileRepositoryImpl) UpdateFields(ctx context.Context, id uint64, upd *entities.FileUpdate, now time.Time) (int, error) {
	setParts := []string{"version = version + 1", "updated_at = ?"}
	args := []interface{}{now}

	if upd.FileName != nil {
		setParts = append(setParts, "file_name = ?")
		args = append(args, *upd.FileName)
	}
	if upd.ContentType != nil {
		setParts = append(setParts, "content_type = ?")
		args = append(args, *upd.ContentType)
	}
	if upd.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.AccessLevel != nil {
		setParts = append(setParts, "access_level = ?")
		args = append(args, string(*upd.AccessLevel))
	}
	if upd.ExpiresAt != nil {
		setParts = append(setParts, "expires_at = ?")
		args = append(args, *upd.ExpiresAt)
	}
	if upd.Tags != nil {
		tagsJSON, err := json.Marshal(upd.Tags)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal tags: %w", err)
		}
		setParts = append(setParts, "tags = ?")
		args = append(args, string(tagsJSON))
	}
	if upd.Checksum != nil {
		setParts = append(setParts, "checksum = ?")
		args = append(args, *upd.Checksum)
	}
	if upd.EncryptionKey != nil {
		setParts = append(setParts, "encryption_key = ?")
		args = append(args, *upd.EncryptionKey)
	}
	if upd.License != nil {
		setParts = append(setParts, "license = ?")
		args = append(args, *upd.License)
	}

	query := fmt.Sprintf("UPDATE files SET %s WHERE id = ?", strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update file record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, entities.ErrNotFound
	}

	var version int
	if err := r.q.QueryRowContext(ctx,
		"SELECT version FROM files WHERE id = ?", id).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read new version: %w", err)
	}
	return version, nil
}

// IncrementDownloads bumps the download counter.
func (r *FileRepositoryImpl) IncrementDownloads(ctx context.Context, id uint64, now time.Time) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE files SET download_count = download_count + 1, updated_at = ? WHERE id = ?",
		now, id)
	if err != nil {
		return fmt.Errorf("failed to increment download count: %w", err)
	}
	return requireAffected(result)
}

// SetLocked flips the lock flag.
func (r *FileRepositoryImpl) SetLocked(ctx context.Context, id uint64, locked bool, now time.Time) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE files SET locked = ?, updated_at = ? WHERE id = ?",
		locked, now, id)
	if err != nil {
		return fmt.Errorf("failed to set lock flag: %w", err)
	}
	return requireAffected(result)
}

// Delete removes the record. Dropping the row frees the content-address
// index entry, so the cid becomes registrable again.
func (r *FileRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return requireAffected(result)
}

// Stats reports live record count and cumulative size.
func (r *FileRepositoryImpl) Stats(ctx context.Context) (int64, int64, error) {
	var files, bytes int64
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size), 0) FROM files").Scan(&files, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read file stats: %w", err)
	}
	return files, bytes, nil
}

func scanFileRecord(row *sql.Row) (*entities.FileRecord, error) {
	var rec entities.FileRecord
	var tagsJSON, accessLevel string
	var expiresAt sql.NullTime

	err := row.Scan(
		&rec.ID, &rec.FileName, &rec.CID, &rec.UploadedBy, &rec.CreatedAt,
		&rec.UpdatedAt, &rec.Size, &rec.ContentType, &rec.Description,
		&accessLevel, &rec.DownloadCount, &rec.Locked, &expiresAt,
		&rec.CategoryID, &tagsJSON, &rec.Checksum, &rec.EncryptionKey,
		&rec.Version, &rec.License,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan file record: %w", err)
	}

	rec.AccessLevel = entities.AccessLevel(accessLevel)
	if expiresAt.Valid {
		t := expiresAt.Time
		rec.ExpiresAt = &t
	}
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		rec.Tags = []string{}
	}

	return &rec, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrNotFound
	}
	return nil
}
