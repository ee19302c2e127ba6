package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zots0127/registry/internal/domain/entities"
)

// AuditRepositoryImpl is the append-only audit sink. Events are written
// after the owning operation commits and are never read back by the core;
// the table exists for external consumers.
type AuditRepositoryImpl struct {
	db *sql.DB
}

// NewAuditRepository creates the sqlite audit sink.
func NewAuditRepository(db *sql.DB) *AuditRepositoryImpl {
	return &AuditRepositoryImpl{db: db}
}

// Record appends one event.
func (r *AuditRepositoryImpl) Record(ctx context.Context, ev *entities.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, file_id, actor, action, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.FileID, ev.Actor, string(ev.Action), ev.Detail, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}
