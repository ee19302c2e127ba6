package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zots0127/registry/internal/domain/entities"
	"github.com/zots0127/registry/internal/domain/repository"
)

// BackupUseCase handles backup bookkeeping. The registry never moves file
// content itself; it records where copies live and can verify that the
// object behind a record is still there.
type BackupUseCase struct {
	store    repository.Store
	verifier repository.BackupVerifier
	audit    repository.AuditSink
	now      func() time.Time
}

// NewBackupUseCase creates a new backup use case. verifier may be nil when
// no object store is configured; verification is then unavailable.
func NewBackupUseCase(store repository.Store, verifier repository.BackupVerifier, audit repository.AuditSink) *BackupUseCase {
	return &BackupUseCase{
		store:    store,
		verifier: verifier,
		audit:    audit,
		now:      time.Now,
	}
}

// CreateBackup records a copy of a file at an external location. Only the
// owner may register backups for a file.
func (b *BackupUseCase) CreateBackup(ctx context.Context, actor string, fileID uint64, location, checksum string) (*entities.BackupCopy, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: backup location cannot be empty", entities.ErrInvalidInput)
	}

	copy := &entities.BackupCopy{
		FileID:    fileID,
		BackupID:  uuid.NewString(),
		Location:  location,
		Checksum:  checksum,
		CreatedBy: actor,
		CreatedAt: b.now(),
	}
	err := b.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		if _, err := tx.Files().Get(ctx, fileID); err != nil {
			return err
		}
		owner, err := tx.Permissions().Owner(ctx, fileID)
		if err != nil {
			return err
		}
		if owner != actor {
			return entities.ErrUnauthorized
		}
		return tx.Backups().Create(ctx, copy)
	})
	if err != nil {
		return nil, err
	}

	b.emit(ctx, fileID, actor, "created "+copy.BackupID)
	return copy, nil
}

// VerifyBackup asks the object store whether the recorded location still
// holds an object and stamps the record on success.
func (b *BackupUseCase) VerifyBackup(ctx context.Context, actor string, fileID uint64, backupID string) (*entities.BackupCopy, error) {
	if b.verifier == nil {
		return nil, fmt.Errorf("%w: no backup store configured", entities.ErrInvalidInput)
	}

	view := b.store.View()
	owner, err := view.Permissions().Owner(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if owner != actor {
		return nil, entities.ErrUnauthorized
	}
	copy, err := view.Backups().Get(ctx, fileID, backupID)
	if err != nil {
		return nil, err
	}

	exists, err := b.verifier.Exists(ctx, copy.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to verify backup %s: %w", backupID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: backup object missing at %s", entities.ErrNotFound, copy.Location)
	}

	now := b.now()
	err = b.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		return tx.Backups().MarkVerified(ctx, fileID, backupID, now)
	})
	if err != nil {
		return nil, err
	}
	copy.VerifiedAt = &now

	b.emit(ctx, fileID, actor, "verified "+backupID)
	return copy, nil
}

// ListBackups returns all backup records for a file.
func (b *BackupUseCase) ListBackups(ctx context.Context, fileID uint64) ([]*entities.BackupCopy, error) {
	return b.store.View().Backups().List(ctx, fileID)
}

func (b *BackupUseCase) emit(ctx context.Context, fileID uint64, actor, detail string) {
	// Best effort, same contract as the registry core.
	_ = b.audit.Record(ctx, &entities.Event{
		ID:        uuid.NewString(),
		FileID:    fileID,
		Actor:     actor,
		Action:    entities.ActionBackup,
		Detail:    detail,
		CreatedAt: b.now(),
	})
}
