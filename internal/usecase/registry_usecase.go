package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zots0127/registry/internal/domain/entities"
	"github.com/zots0127/registry/internal/domain/repository"
)

// RegistryConfig holds the tunable knobs of the registry core.
type RegistryConfig struct {
	RegistrationFee int64
	MaxFileSize     int64
	CacheSize       int
	CacheTTL        time.Duration
}

// DefaultRegistryConfig returns the defaults used when a knob is unset.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		RegistrationFee: 0,
		MaxFileSize:     100 * 1024 * 1024, // 100MB
		CacheSize:       1024,
		CacheTTL:        5 * time.Minute,
	}
}

// RegistryUseCase orchestrates every registry operation. Each mutating
// operation validates its preconditions and applies all writes inside one
// store transaction, so concurrent observers see it as all-or-nothing.
// One domain event flows to the audit sink per successful mutation.
type RegistryUseCase struct {
	store   repository.Store
	payment repository.PaymentService
	audit   repository.AuditSink
	cache   *expirable.LRU[uint64, *entities.FileRecord]
	logger  *log.Logger
	now     func() time.Time

	mu          sync.RWMutex
	paused      bool
	fee         int64
	maxFileSize int64
}

// NewRegistryUseCase creates a new registry use case.
func NewRegistryUseCase(store repository.Store, payment repository.PaymentService, audit repository.AuditSink, config RegistryConfig) *RegistryUseCase {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultRegistryConfig().MaxFileSize
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultRegistryConfig().CacheSize
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultRegistryConfig().CacheTTL
	}

	return &RegistryUseCase{
		store:       store,
		payment:     payment,
		audit:       audit,
		cache:       expirable.NewLRU[uint64, *entities.FileRecord](config.CacheSize, nil, config.CacheTTL),
		logger:      log.New(os.Stdout, "[Registry] ", log.LstdFlags),
		now:         time.Now,
		paused:      false,
		fee:         config.RegistrationFee,
		maxFileSize: config.MaxFileSize,
	}
}

// RegisterRequest carries the attributes of a new file record.
type RegisterRequest struct {
	Actor         string
	FileName      string
	CID           string
	Size          int64
	ContentType   string
	Description   string
	AccessLevel   entities.AccessLevel
	CategoryID    uint64
	Tags          []string
	Checksum      string
	EncryptionKey string
	License       string
	ExpiresAt     *time.Time
}

// Register validates the request, collects the registration fee from the
// external ledger and then writes the file record, its version-1 snapshot,
// the ownership entry, the quota reservation and the category increment as
// one transaction.
func (u *RegistryUseCase) Register(ctx context.Context, req *RegisterRequest) (*entities.FileRecord, error) {
	if err := u.checkPaused(); err != nil {
		return nil, err
	}

	now := u.now()
	if err := u.validateRegister(req, now); err != nil {
		return nil, err
	}

	// Cheap precondition reads before charging the payer. The transaction
	// below re-verifies everything authoritatively.
	view := u.store.View()
	if _, err := view.Files().GetByCID(ctx, req.CID); err == nil {
		return nil, entities.ErrAlreadyExists
	} else if err != entities.ErrNotFound {
		return nil, err
	}
	if err := view.Categories().MustExist(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	quota, err := view.Quotas().Get(ctx, req.Actor)
	if err != nil {
		return nil, err
	}
	if quota.UsedBytes+req.Size > quota.MaxBytes || quota.FileCount+1 > quota.MaxFiles {
		return nil, entities.ErrQuotaExceeded
	}

	if err := u.payment.CollectRegistrationFee(ctx, req.Actor, u.RegistrationFee()); err != nil {
		return nil, err
	}

	rec := &entities.FileRecord{
		FileName:      req.FileName,
		CID:           req.CID,
		UploadedBy:    req.Actor,
		CreatedAt:     now,
		UpdatedAt:     now,
		Size:          req.Size,
		ContentType:   req.ContentType,
		Description:   req.Description,
		AccessLevel:   req.AccessLevel,
		ExpiresAt:     req.ExpiresAt,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		Checksum:      req.Checksum,
		EncryptionKey: req.EncryptionKey,
		Version:       1,
		License:       req.License,
	}
	if rec.ContentType == "" {
		rec.ContentType = "application/octet-stream"
	}

	err = u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		if err := tx.Categories().MustExist(ctx, req.CategoryID); err != nil {
			return err
		}
		id, err := tx.Files().Create(ctx, rec)
		if err != nil {
			return err
		}
		if err := tx.Quotas().Reserve(ctx, req.Actor, req.Size, now); err != nil {
			return err
		}
		if err := tx.Quotas().AddFiles(ctx, req.Actor, 1, now); err != nil {
			return err
		}
		if err := tx.Versions().Append(ctx, &entities.VersionSnapshot{
			FileID:    id,
			Version:   1,
			CID:       rec.CID,
			UpdatedBy: req.Actor,
			CreatedAt: now,
			Note:      "registered",
			Size:      rec.Size,
		}); err != nil {
			return err
		}
		if err := tx.Permissions().SetOwner(ctx, id, req.Actor); err != nil {
			return err
		}
		return tx.Categories().Increment(ctx, req.CategoryID)
	})
	if err != nil {
		return nil, err
	}

	u.emit(ctx, entities.ActionRegister, rec.ID, req.Actor, rec.CID)
	return rec, nil
}

func (u *RegistryUseCase) validateRegister(req *RegisterRequest, now time.Time) error {
	if strings.TrimSpace(req.Actor) == "" {
		return fmt.Errorf("%w: actor is required", entities.ErrInvalidInput)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return fmt.Errorf("%w: filename cannot be empty", entities.ErrInvalidInput)
	}
	if strings.TrimSpace(req.CID) == "" {
		return fmt.Errorf("%w: content address cannot be empty", entities.ErrInvalidInput)
	}
	if req.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", entities.ErrInvalidInput)
	}
	if max := u.MaxFileSize(); req.Size > max {
		return fmt.Errorf("%w: size %d exceeds maximum %d", entities.ErrInvalidInput, req.Size, max)
	}
	if !req.AccessLevel.Valid() {
		return fmt.Errorf("%w: unknown access level %q", entities.ErrInvalidInput, req.AccessLevel)
	}
	if len(req.Tags) > entities.MaxTags {
		return fmt.Errorf("%w: at most %d tags allowed", entities.ErrInvalidInput, entities.MaxTags)
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return entities.ErrInvalidTime
	}
	return nil
}

// GetFile returns a file record, served from the read cache when warm.
func (u *RegistryUseCase) GetFile(ctx context.Context, id uint64) (*entities.FileRecord, error) {
	if rec, ok := u.cache.Get(id); ok {
		return rec, nil
	}

	rec, err := u.store.View().Files().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.cache.Add(id, rec)
	return rec, nil
}

// GetFileByCID resolves a record through the content-address index.
func (u *RegistryUseCase) GetFileByCID(ctx context.Context, cid string) (*entities.FileRecord, error) {
	return u.store.View().Files().GetByCID(ctx, cid)
}

// Update applies a partial metadata edit. It needs write-or-stronger
// access, bumps the version counter and appends a history snapshot in the
// same transaction. Size and content address never change here, so the
// quota ledger stays exact without touching it.
func (u *RegistryUseCase) Update(ctx context.Context, actor string, id uint64, upd *entities.FileUpdate) (*entities.FileRecord, error) {
	if err := u.checkPaused(); err != nil {
		return nil, err
	}

	now := u.now()
	if upd == nil || upd.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", entities.ErrInvalidInput)
	}
	if upd.AccessLevel != nil && !upd.AccessLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown access level %q", entities.ErrInvalidInput, *upd.AccessLevel)
	}
	if len(upd.Tags) > entities.MaxTags {
		return nil, fmt.Errorf("%w: at most %d tags allowed", entities.ErrInvalidInput, entities.MaxTags)
	}
	if upd.ExpiresAt != nil && !upd.ExpiresAt.After(now) {
		return nil, entities.ErrInvalidTime
	}

	var updated *entities.FileRecord
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		rec, err := tx.Files().Get(ctx, id)
		if err != nil {
			return err
		}
		if rec.Locked {
			return entities.ErrFileLocked
		}
		ok, err := tx.Permissions().Check(ctx, id, actor, entities.PermissionWrite, now)
		if err != nil {
			return err
		}
		if !ok {
			return entities.ErrUnauthorized
		}

		newVersion, err := tx.Files().UpdateFields(ctx, id, upd, now)
		if err != nil {
			return err
		}
		if err := tx.Versions().Append(ctx, &entities.VersionSnapshot{
			FileID:    id,
			Version:   newVersion,
			CID:       rec.CID,
			UpdatedBy: actor,
			CreatedAt: now,
			Note:      upd.Note,
			Size:      rec.Size,
		}); err != nil {
			return err
		}

		updated, err = tx.Files().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.cache.Remove(id)
	u.emit(ctx, entities.ActionUpdate, id, actor, fmt.Sprintf("version %d", updated.Version))
	return updated, nil
}

// Transfer reassigns ownership. It requires ownership itself, not merely
// an admin grant. Quota moves with the file: the old owner is released
// first, then the new owner reserved; a failed reservation rolls the
// whole transfer back.
func (u *RegistryUseCase) Transfer(ctx context.Context, actor string, id uint64, newOwner string) error {
	if err := u.checkPaused(); err != nil {
		return err
	}
	if strings.TrimSpace(newOwner) == "" {
		return fmt.Errorf("%w: new owner is required", entities.ErrInvalidInput)
	}

	now := u.now()
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		rec, err := tx.Files().Get(ctx, id)
		if err != nil {
			return err
		}
		owner, err := tx.Permissions().Owner(ctx, id)
		if err != nil {
			return err
		}
		if owner != actor {
			return entities.ErrUnauthorized
		}
		if rec.Locked {
			return entities.ErrFileLocked
		}
		if newOwner == owner {
			return fmt.Errorf("%w: file already owned by %s", entities.ErrInvalidInput, newOwner)
		}

		if err := tx.Quotas().Release(ctx, owner, rec.Size, now); err != nil {
			return err
		}
		if err := tx.Quotas().AddFiles(ctx, owner, -1, now); err != nil {
			return err
		}
		if err := tx.Quotas().Reserve(ctx, newOwner, rec.Size, now); err != nil {
			return err
		}
		if err := tx.Quotas().AddFiles(ctx, newOwner, 1, now); err != nil {
			return err
		}
		return tx.Permissions().SetOwner(ctx, id, newOwner)
	})
	if err != nil {
		return err
	}

	u.cache.Remove(id)
	u.emit(ctx, entities.ActionTransfer, id, actor, "to "+newOwner)
	return nil
}

// Delete removes the file record, its content-address index entry and the
// ownership entry, releases the owner's quota and decrements the category
// count, all in one transaction. Version history and permission grants for
// the id are left orphaned on purpose: they stay addressable by key but
// are unreachable through the registry.
func (u *RegistryUseCase) Delete(ctx context.Context, actor string, id uint64) error {
	if err := u.checkPaused(); err != nil {
		return err
	}

	now := u.now()
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		rec, err := tx.Files().Get(ctx, id)
		if err != nil {
			return err
		}
		owner, err := tx.Permissions().Owner(ctx, id)
		if err != nil {
			return err
		}
		if owner != actor {
			return entities.ErrUnauthorized
		}
		if rec.Locked {
			return entities.ErrFileLocked
		}

		if err := tx.Quotas().Release(ctx, owner, rec.Size, now); err != nil {
			return err
		}
		if err := tx.Quotas().AddFiles(ctx, owner, -1, now); err != nil {
			return err
		}
		if err := tx.Categories().Decrement(ctx, rec.CategoryID); err != nil {
			return err
		}
		if err := tx.Files().Delete(ctx, id); err != nil {
			return err
		}
		return tx.Permissions().DeleteOwner(ctx, id)
	})
	if err != nil {
		return err
	}

	u.cache.Remove(id)
	u.emit(ctx, entities.ActionDelete, id, actor, "")
	return nil
}

// SetLocked flips the lock flag. Only the owner may lock or unlock. While
// locked, update, transfer, delete and download are rejected; permission
// grant and revoke still work.
func (u *RegistryUseCase) SetLocked(ctx context.Context, actor string, id uint64, locked bool) error {
	if err := u.checkPaused(); err != nil {
		return err
	}

	now := u.now()
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		if _, err := tx.Files().Get(ctx, id); err != nil {
			return err
		}
		owner, err := tx.Permissions().Owner(ctx, id)
		if err != nil {
			return err
		}
		if owner != actor {
			return entities.ErrUnauthorized
		}
		return tx.Files().SetLocked(ctx, id, locked, now)
	})
	if err != nil {
		return err
	}

	u.cache.Remove(id)
	action := entities.ActionLock
	if !locked {
		action = entities.ActionUnlock
	}
	u.emit(ctx, action, id, actor, "")
	return nil
}

// Download is the one read path with a persisted side effect: it checks
// access, lock and lazy expiry, increments the download counter and
// returns the content address.
func (u *RegistryUseCase) Download(ctx context.Context, actor string, id uint64) (string, error) {
	now := u.now()

	var cid string
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		rec, err := tx.Files().Get(ctx, id)
		if err != nil {
			return err
		}

		if rec.AccessLevel != entities.AccessPublic {
			ok, err := tx.Permissions().Check(ctx, id, actor, entities.PermissionRead, now)
			if err != nil {
				return err
			}
			if !ok {
				return entities.ErrUnauthorized
			}
		}
		if rec.Locked {
			return entities.ErrFileLocked
		}
		if rec.Expired(now) {
			return fmt.Errorf("%w: file expired", entities.ErrNotFound)
		}

		cid = rec.CID
		return tx.Files().IncrementDownloads(ctx, id, now)
	})
	if err != nil {
		return "", err
	}

	u.cache.Remove(id)
	u.emit(ctx, entities.ActionDownload, id, actor, "")
	return cid, nil
}

// Grant delegates access to a file. The caller must hold admin-equivalent
// access (ownership or an active admin grant). An expiry, when given, must
// be strictly in the future; a grant without one never lapses. Granting
// works on locked files.
func (u *RegistryUseCase) Grant(ctx context.Context, actor string, id uint64, grantee string, level entities.PermissionLevel, expiresAt *time.Time) error {
	now := u.now()
	if strings.TrimSpace(grantee) == "" {
		return fmt.Errorf("%w: grantee is required", entities.ErrInvalidInput)
	}
	if !level.Valid() {
		return fmt.Errorf("%w: unknown permission level %q", entities.ErrInvalidInput, level)
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return entities.ErrInvalidTime
	}

	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		if _, err := tx.Files().Get(ctx, id); err != nil {
			return err
		}
		ok, err := tx.Permissions().Check(ctx, id, actor, entities.PermissionAdmin, now)
		if err != nil {
			return err
		}
		if !ok {
			return entities.ErrUnauthorized
		}
		return tx.Permissions().Upsert(ctx, &entities.Grant{
			FileID:    id,
			Grantee:   grantee,
			Level:     level,
			GrantedBy: actor,
			GrantedAt: now,
			ExpiresAt: expiresAt,
		})
	})
	if err != nil {
		return err
	}

	u.emit(ctx, entities.ActionGrant, id, actor, fmt.Sprintf("%s to %s", level, grantee))
	return nil
}

// Revoke removes a delegated grant. Like Grant it needs admin-equivalent
// access and works on locked files.
func (u *RegistryUseCase) Revoke(ctx context.Context, actor string, id uint64, grantee string) error {
	now := u.now()
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		if _, err := tx.Files().Get(ctx, id); err != nil {
			return err
		}
		ok, err := tx.Permissions().Check(ctx, id, actor, entities.PermissionAdmin, now)
		if err != nil {
			return err
		}
		if !ok {
			return entities.ErrUnauthorized
		}
		return tx.Permissions().Revoke(ctx, id, grantee)
	})
	if err != nil {
		return err
	}

	u.emit(ctx, entities.ActionRevoke, id, actor, grantee)
	return nil
}

// CheckAccess answers the authorization question without side effects.
func (u *RegistryUseCase) CheckAccess(ctx context.Context, id uint64, requester string, level entities.PermissionLevel) (bool, error) {
	if !level.Valid() {
		return false, fmt.Errorf("%w: unknown permission level %q", entities.ErrInvalidInput, level)
	}
	return u.store.View().Permissions().Check(ctx, id, requester, level, u.now())
}

// CreateCategory appends a category under the next monotonic id.
func (u *RegistryUseCase) CreateCategory(ctx context.Context, actor, name, description string) (*entities.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", entities.ErrInvalidInput)
	}

	cat := &entities.Category{
		Name:        name,
		Description: description,
		CreatedBy:   actor,
	}
	err := u.store.WithTx(ctx, func(tx repository.RepositorySet) error {
		_, err := tx.Categories().Create(ctx, cat, u.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// GetCategory returns a category with its live file count.
func (u *RegistryUseCase) GetCategory(ctx context.Context, id uint64) (*entities.Category, error) {
	return u.store.View().Categories().Get(ctx, id)
}

// GetQuota returns the quota ledger row for an identity.
func (u *RegistryUseCase) GetQuota(ctx context.Context, identity string) (*entities.Quota, error) {
	return u.store.View().Quotas().Get(ctx, identity)
}

// GetVersion returns one version snapshot. Snapshots survive deletion of
// the owning file, so this works for orphaned history too.
func (u *RegistryUseCase) GetVersion(ctx context.Context, fileID uint64, version int) (*entities.VersionSnapshot, error) {
	return u.store.View().Versions().Get(ctx, fileID, version)
}

// ListVersions returns the full history of a file, oldest first.
func (u *RegistryUseCase) ListVersions(ctx context.Context, fileID uint64) ([]*entities.VersionSnapshot, error) {
	return u.store.View().Versions().List(ctx, fileID)
}

// ListOwned enumerates file ids owned by an identity.
func (u *RegistryUseCase) ListOwned(ctx context.Context, owner string) ([]uint64, error) {
	return u.store.View().Permissions().ListOwned(ctx, owner)
}

// Stats reports live file count and cumulative bytes.
func (u *RegistryUseCase) Stats(ctx context.Context) (map[string]interface{}, error) {
	files, bytes, err := u.store.View().Files().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_files": files,
		"total_bytes": bytes,
	}, nil
}

// SetPaused flips the administrative pause switch. While paused every
// mutating operation is rejected.
func (u *RegistryUseCase) SetPaused(paused bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paused = paused
	u.logger.Printf("Registry paused flag set to %v", paused)
}

// Paused reports the pause switch.
func (u *RegistryUseCase) Paused() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.paused
}

// SetRegistrationFee updates the fee collected on registration.
func (u *RegistryUseCase) SetRegistrationFee(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: fee cannot be negative", entities.ErrInvalidInput)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fee = amount
	return nil
}

// RegistrationFee returns the current fee.
func (u *RegistryUseCase) RegistrationFee() int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.fee
}

// SetMaxFileSize updates the single-file size ceiling.
func (u *RegistryUseCase) SetMaxFileSize(bytes int64) error {
	if bytes <= 0 {
		return fmt.Errorf("%w: max file size must be positive", entities.ErrInvalidInput)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.maxFileSize = bytes
	return nil
}

// MaxFileSize returns the single-file size ceiling.
func (u *RegistryUseCase) MaxFileSize() int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.maxFileSize
}

func (u *RegistryUseCase) checkPaused() error {
	if u.Paused() {
		return entities.ErrPaused
	}
	return nil
}

// emit sends the domain event to the audit sink. The sink is
// fire-and-forget: a write failure is logged and never fails the
// operation that produced the event.
func (u *RegistryUseCase) emit(ctx context.Context, action entities.Action, fileID uint64, actor, detail string) {
	ev := &entities.Event{
		ID:        uuid.NewString(),
		FileID:    fileID,
		Actor:     actor,
		Action:    action,
		Detail:    detail,
		CreatedAt: u.now(),
	}
	if err := u.audit.Record(ctx, ev); err != nil {
		u.logger.Printf("Warning: failed to record audit event: %v", err)
	}
}
