package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zots0127/registry/internal/domain/entities"
	infra "github.com/zots0127/registry/internal/infrastructure/repository"
	"github.com/zots0127/registry/internal/usecase/mocks"
)

type registryFixture struct {
	uc      *RegistryUseCase
	payment *mocks.MockPaymentService
	clock   *time.Time
	catID   uint64
}

func newRegistryFixture(t *testing.T, defaults infra.QuotaDefaults) *registryFixture {
	t.Helper()

	if defaults.MaxBytes == 0 {
		defaults.MaxBytes = 1 << 20
	}
	if defaults.MaxFiles == 0 {
		defaults.MaxFiles = 100
	}

	store, err := infra.NewStore(filepath.Join(t.TempDir(), "registry.db"), defaults)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	payment := new(mocks.MockPaymentService)
	audit := new(mocks.MockAuditSink)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()

	uc := NewRegistryUseCase(store, payment, audit, RegistryConfig{})

	now := time.Now().UTC().Truncate(time.Second)
	clock := &now
	uc.now = func() time.Time { return *clock }

	cat, err := uc.CreateCategory(context.Background(), "admin", "documents", "test documents")
	require.NoError(t, err)

	return &registryFixture{uc: uc, payment: payment, clock: clock, catID: cat.ID}
}

func (f *registryFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *registryFixture) allowPayments() {
	f.payment.On("CollectRegistrationFee", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func (f *registryFixture) register(t *testing.T, actor, name, cid string, size int64) *entities.FileRecord {
	t.Helper()
	rec, err := f.uc.Register(context.Background(), &RegisterRequest{
		Actor:       actor,
		FileName:    name,
		CID:         cid,
		Size:        size,
		AccessLevel: entities.AccessPrivate,
		CategoryID:  f.catID,
	})
	require.NoError(t, err)
	return rec
}

func TestRegistryUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns monotonic ids and records every side effect", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()

		rec := f.register(t, "alice", "report.pdf", "bafy-report", 1000)
		assert.Equal(t, uint64(1), rec.ID)
		assert.Equal(t, 1, rec.Version)

		rec2 := f.register(t, "alice", "notes.txt", "bafy-notes", 500)
		assert.Equal(t, uint64(2), rec2.ID)

		quota, err := f.uc.GetQuota(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1500), quota.UsedBytes)
		assert.Equal(t, int64(2), quota.FileCount)

		cat, err := f.uc.GetCategory(ctx, f.catID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), cat.FileCount)

		versions, err := f.uc.ListVersions(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, "bafy-report", versions[0].CID)

		owned, err := f.uc.ListOwned(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2}, owned)
	})

	t.Run("rejects a duplicate content address among live files", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		f.register(t, "alice", "report.pdf", "bafy-dup", 100)

		_, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "bob", FileName: "copy.pdf", CID: "bafy-dup", Size: 100,
			AccessLevel: entities.AccessPrivate, CategoryID: f.catID,
		})
		assert.ErrorIs(t, err, entities.ErrAlreadyExists)

		quota, err := f.uc.GetQuota(ctx, "bob")
		require.NoError(t, err)
		assert.Zero(t, quota.UsedBytes)
	})

	t.Run("enforces the byte quota", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{MaxBytes: 1000})
		f.allowPayments()
		f.register(t, "alice", "big.bin", "bafy-big", 900)

		_, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "alice", FileName: "more.bin", CID: "bafy-more", Size: 200,
			AccessLevel: entities.AccessPrivate, CategoryID: f.catID,
		})
		assert.ErrorIs(t, err, entities.ErrQuotaExceeded)
	})

	t.Run("enforces the file count quota", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{MaxFiles: 1})
		f.allowPayments()
		f.register(t, "alice", "one.bin", "bafy-one", 10)

		_, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "alice", FileName: "two.bin", CID: "bafy-two", Size: 10,
			AccessLevel: entities.AccessPrivate, CategoryID: f.catID,
		})
		assert.ErrorIs(t, err, entities.ErrQuotaExceeded)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()

		_, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "alice", FileName: "a.bin", CID: "bafy-a", Size: 10,
			AccessLevel: entities.AccessPrivate, CategoryID: 999,
		})
		assert.ErrorIs(t, err, entities.ErrInvalidCategory)
	})

	t.Run("aborts with no state change when payment fails", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.payment.On("CollectRegistrationFee", mock.Anything, "alice", mock.Anything).
			Return(entities.ErrPaymentFailed)

		_, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "alice", FileName: "a.bin", CID: "bafy-a", Size: 10,
			AccessLevel: entities.AccessPrivate, CategoryID: f.catID,
		})
		assert.ErrorIs(t, err, entities.ErrPaymentFailed)

		_, err = f.uc.GetFileByCID(ctx, "bafy-a")
		assert.ErrorIs(t, err, entities.ErrNotFound)
		quota, err := f.uc.GetQuota(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, quota.UsedBytes)
		assert.Zero(t, quota.FileCount)
	})

	t.Run("passes the configured fee to the ledger", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		require.NoError(t, f.uc.SetRegistrationFee(250))
		f.payment.On("CollectRegistrationFee", mock.Anything, "alice", int64(250)).Return(nil)

		f.register(t, "alice", "a.bin", "bafy-a", 10)
		f.payment.AssertExpectations(t)
	})

	t.Run("validates the request", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		past := f.clock.Add(-time.Hour)
		manyTags := make([]string, entities.MaxTags+1)

		tests := []struct {
			name    string
			req     *RegisterRequest
			wantErr error
		}{
			{
				name:    "empty filename",
				req:     &RegisterRequest{Actor: "alice", CID: "c", Size: 1, AccessLevel: entities.AccessPrivate, CategoryID: f.catID},
				wantErr: entities.ErrInvalidInput,
			},
			{
				name:    "empty content address",
				req:     &RegisterRequest{Actor: "alice", FileName: "a", Size: 1, AccessLevel: entities.AccessPrivate, CategoryID: f.catID},
				wantErr: entities.ErrInvalidInput,
			},
			{
				name:    "zero size",
				req:     &RegisterRequest{Actor: "alice", FileName: "a", CID: "c", AccessLevel: entities.AccessPrivate, CategoryID: f.catID},
				wantErr: entities.ErrInvalidInput,
			},
			{
				name:    "unknown access level",
				req:     &RegisterRequest{Actor: "alice", FileName: "a", CID: "c", Size: 1, AccessLevel: "secret", CategoryID: f.catID},
				wantErr: entities.ErrInvalidInput,
			},
			{
				name:    "too many tags",
				req:     &RegisterRequest{Actor: "alice", FileName: "a", CID: "c", Size: 1, AccessLevel: entities.AccessPrivate, CategoryID: f.catID, Tags: manyTags},
				wantErr: entities.ErrInvalidInput,
			},
			{
				name:    "expiry in the past",
				req:     &RegisterRequest{Actor: "alice", FileName: "a", CID: "c", Size: 1, AccessLevel: entities.AccessPrivate, CategoryID: f.catID, ExpiresAt: &past},
				wantErr: entities.ErrInvalidTime,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.uc.Register(ctx, tt.req)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestRegistryUseCase_Update(t *testing.T) {
	ctx := context.Background()

	newDesc := func(s string) *string { return &s }

	t.Run("owner edit bumps the version and appends a snapshot", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		updated, err := f.uc.Update(ctx, "alice", rec.ID, &entities.FileUpdate{
			Description: newDesc("quarterly report"),
			Note:        "describe contents",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "quarterly report", updated.Description)
		assert.Equal(t, rec.CID, updated.CID)
		assert.Equal(t, rec.Size, updated.Size)

		versions, err := f.uc.ListVersions(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 2, versions[1].Version)
		assert.Equal(t, "describe contents", versions[1].Note)

		snap, err := f.uc.GetVersion(ctx, rec.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "bafy-a", snap.CID)
	})

	t.Run("write grantee may edit, read grantee may not", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionWrite, nil))
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "carol", entities.PermissionRead, nil))

		_, err := f.uc.Update(ctx, "bob", rec.ID, &entities.FileUpdate{Description: newDesc("edited")})
		assert.NoError(t, err)

		_, err = f.uc.Update(ctx, "carol", rec.ID, &entities.FileUpdate{Description: newDesc("nope")})
		assert.ErrorIs(t, err, entities.ErrUnauthorized)

		_, err = f.uc.Update(ctx, "mallory", rec.ID, &entities.FileUpdate{Description: newDesc("nope")})
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("an expired grant no longer authorizes edits", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		expiry := f.clock.Add(time.Hour)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionWrite, &expiry))

		_, err := f.uc.Update(ctx, "bob", rec.ID, &entities.FileUpdate{Description: newDesc("in time")})
		assert.NoError(t, err)

		f.advance(2 * time.Hour)
		_, err = f.uc.Update(ctx, "bob", rec.ID, &entities.FileUpdate{Description: newDesc("too late")})
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("locked files reject edits", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, true))

		_, err := f.uc.Update(ctx, "alice", rec.ID, &entities.FileUpdate{Description: newDesc("frozen")})
		assert.ErrorIs(t, err, entities.ErrFileLocked)
	})

	t.Run("empty updates are rejected", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		_, err := f.uc.Update(ctx, "alice", rec.ID, &entities.FileUpdate{})
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})
}

func TestRegistryUseCase_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves quota with the file", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 400)

		require.NoError(t, f.uc.Transfer(ctx, "alice", rec.ID, "bob"))

		aliceQ, err := f.uc.GetQuota(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, aliceQ.UsedBytes)
		assert.Zero(t, aliceQ.FileCount)

		bobQ, err := f.uc.GetQuota(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(400), bobQ.UsedBytes)
		assert.Equal(t, int64(1), bobQ.FileCount)

		owned, err := f.uc.ListOwned(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, []uint64{rec.ID}, owned)
	})

	t.Run("only the owner may transfer, admin grants are not enough", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionAdmin, nil))

		err := f.uc.Transfer(ctx, "bob", rec.ID, "bob")
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("rolls back fully when the target quota cannot take the file", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{MaxBytes: 500})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 400)
		f.register(t, "bob", "b.bin", "bafy-b", 300)

		err := f.uc.Transfer(ctx, "alice", rec.ID, "bob")
		assert.ErrorIs(t, err, entities.ErrQuotaExceeded)

		// Source quota and ownership are untouched.
		aliceQ, err := f.uc.GetQuota(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(400), aliceQ.UsedBytes)
		assert.Equal(t, int64(1), aliceQ.FileCount)

		owned, err := f.uc.ListOwned(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []uint64{rec.ID}, owned)
	})

	t.Run("rejects a transfer to the current owner", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		err := f.uc.Transfer(ctx, "alice", rec.ID, "alice")
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})

	t.Run("locked files reject transfer", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, true))

		err := f.uc.Transfer(ctx, "alice", rec.ID, "bob")
		assert.ErrorIs(t, err, entities.ErrFileLocked)
	})
}

func TestRegistryUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("releases quota, frees the content address and keeps history", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 100)

		require.NoError(t, f.uc.Delete(ctx, "alice", rec.ID))

		_, err := f.uc.GetFile(ctx, rec.ID)
		assert.ErrorIs(t, err, entities.ErrNotFound)

		quota, err := f.uc.GetQuota(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, quota.UsedBytes)

		cat, err := f.uc.GetCategory(ctx, f.catID)
		require.NoError(t, err)
		assert.Zero(t, cat.FileCount)

		// Orphaned history stays addressable.
		versions, err := f.uc.ListVersions(ctx, rec.ID)
		require.NoError(t, err)
		assert.Len(t, versions, 1)

		// The content address is free again and ids keep climbing.
		rec2 := f.register(t, "bob", "again.bin", "bafy-a", 100)
		assert.Greater(t, rec2.ID, rec.ID)
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionAdmin, nil))

		assert.ErrorIs(t, f.uc.Delete(ctx, "bob", rec.ID), entities.ErrUnauthorized)
	})

	t.Run("locked files reject deletion", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, true))

		assert.ErrorIs(t, f.uc.Delete(ctx, "alice", rec.ID), entities.ErrFileLocked)
	})
}

func TestRegistryUseCase_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("public files are readable by anyone and count downloads", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "alice", FileName: "pub.bin", CID: "bafy-pub", Size: 10,
			AccessLevel: entities.AccessPublic, CategoryID: f.catID,
		})
		require.NoError(t, err)

		cid, err := f.uc.Download(ctx, "stranger", rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "bafy-pub", cid)

		got, err := f.uc.GetFile(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.DownloadCount)
	})

	t.Run("private files need ownership or a read-capable grant", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "reader", entities.PermissionRead, nil))
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "writer", entities.PermissionWrite, nil))
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "admin", entities.PermissionAdmin, nil))

		_, err := f.uc.Download(ctx, "alice", rec.ID)
		assert.NoError(t, err)
		_, err = f.uc.Download(ctx, "reader", rec.ID)
		assert.NoError(t, err)
		_, err = f.uc.Download(ctx, "admin", rec.ID)
		assert.NoError(t, err)

		// A write grant does not imply read.
		_, err = f.uc.Download(ctx, "writer", rec.ID)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
		_, err = f.uc.Download(ctx, "stranger", rec.ID)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("locked files reject download", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, true))

		_, err := f.uc.Download(ctx, "alice", rec.ID)
		assert.ErrorIs(t, err, entities.ErrFileLocked)
	})

	t.Run("expired files behave as missing", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		expiry := f.clock.Add(time.Hour)
		rec, err := f.uc.Register(ctx, &RegisterRequest{
			Actor: "alice", FileName: "a.bin", CID: "bafy-a", Size: 10,
			AccessLevel: entities.AccessPrivate, CategoryID: f.catID, ExpiresAt: &expiry,
		})
		require.NoError(t, err)

		_, err = f.uc.Download(ctx, "alice", rec.ID)
		assert.NoError(t, err)

		f.advance(2 * time.Hour)
		_, err = f.uc.Download(ctx, "alice", rec.ID)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRegistryUseCase_Permissions(t *testing.T) {
	ctx := context.Background()

	t.Run("admin grantees may manage grants, lesser grantees may not", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionAdmin, nil))
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "carol", entities.PermissionWrite, nil))

		// bob holds admin and may delegate further.
		assert.NoError(t, f.uc.Grant(ctx, "bob", rec.ID, "dave", entities.PermissionRead, nil))

		// carol holds write only.
		err := f.uc.Grant(ctx, "carol", rec.ID, "eve", entities.PermissionRead, nil)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("revocation removes access immediately", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionRead, nil))

		allowed, err := f.uc.CheckAccess(ctx, rec.ID, "bob", entities.PermissionRead)
		require.NoError(t, err)
		assert.True(t, allowed)

		require.NoError(t, f.uc.Revoke(ctx, "alice", rec.ID, "bob"))

		allowed, err = f.uc.CheckAccess(ctx, rec.ID, "bob", entities.PermissionRead)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("revoking a grant that does not exist fails", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		assert.ErrorIs(t, f.uc.Revoke(ctx, "alice", rec.ID, "nobody"), entities.ErrNotFound)
	})

	t.Run("a grant expiry must be strictly in the future", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		past := f.clock.Add(-time.Minute)
		err := f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionRead, &past)
		assert.ErrorIs(t, err, entities.ErrInvalidTime)

		exact := *f.clock
		err = f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionRead, &exact)
		assert.ErrorIs(t, err, entities.ErrInvalidTime)
	})

	t.Run("grants lapse at their expiry without any sweep", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		expiry := f.clock.Add(time.Hour)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionRead, &expiry))

		allowed, err := f.uc.CheckAccess(ctx, rec.ID, "bob", entities.PermissionRead)
		require.NoError(t, err)
		assert.True(t, allowed)

		f.advance(2 * time.Hour)
		allowed, err = f.uc.CheckAccess(ctx, rec.ID, "bob", entities.PermissionRead)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("re-granting overwrites the previous grant", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionRead, nil))
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionWrite, nil))

		allowed, err := f.uc.CheckAccess(ctx, rec.ID, "bob", entities.PermissionWrite)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = f.uc.CheckAccess(ctx, rec.ID, "bob", entities.PermissionRead)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("grant and revoke still work while the file is locked", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, true))

		assert.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionRead, nil))
		assert.NoError(t, f.uc.Revoke(ctx, "alice", rec.ID, "bob"))
	})
}

func TestRegistryUseCase_Lock(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner may lock and unlock", func(t *testing.T) {
		f := newRegistryFixture(t, infra.QuotaDefaults{})
		f.allowPayments()
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		require.NoError(t, f.uc.Grant(ctx, "alice", rec.ID, "bob", entities.PermissionAdmin, nil))

		assert.ErrorIs(t, f.uc.SetLocked(ctx, "bob", rec.ID, true), entities.ErrUnauthorized)

		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, true))
		require.NoError(t, f.uc.SetLocked(ctx, "alice", rec.ID, false))

		_, err := f.uc.Download(ctx, "alice", rec.ID)
		assert.NoError(t, err)
	})
}

func TestRegistryUseCase_Pause(t *testing.T) {
	ctx := context.Background()

	f := newRegistryFixture(t, infra.QuotaDefaults{})
	f.allowPayments()
	rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

	f.uc.SetPaused(true)

	_, err := f.uc.Register(ctx, &RegisterRequest{
		Actor: "alice", FileName: "b.bin", CID: "bafy-b", Size: 10,
		AccessLevel: entities.AccessPrivate, CategoryID: f.catID,
	})
	assert.ErrorIs(t, err, entities.ErrPaused)

	desc := "paused"
	_, err = f.uc.Update(ctx, "alice", rec.ID, &entities.FileUpdate{Description: &desc})
	assert.ErrorIs(t, err, entities.ErrPaused)
	assert.ErrorIs(t, f.uc.Transfer(ctx, "alice", rec.ID, "bob"), entities.ErrPaused)
	assert.ErrorIs(t, f.uc.Delete(ctx, "alice", rec.ID), entities.ErrPaused)

	// Reads keep working while paused.
	_, err = f.uc.GetFile(ctx, rec.ID)
	assert.NoError(t, err)

	f.uc.SetPaused(false)
	_, err = f.uc.Update(ctx, "alice", rec.ID, &entities.FileUpdate{Description: &desc})
	assert.NoError(t, err)
}

func TestRegistryUseCase_AdminSwitches(t *testing.T) {
	f := newRegistryFixture(t, infra.QuotaDefaults{})

	assert.ErrorIs(t, f.uc.SetRegistrationFee(-1), entities.ErrInvalidInput)
	assert.NoError(t, f.uc.SetRegistrationFee(0))

	assert.ErrorIs(t, f.uc.SetMaxFileSize(0), entities.ErrInvalidInput)
	assert.NoError(t, f.uc.SetMaxFileSize(1024))
	assert.Equal(t, int64(1024), f.uc.MaxFileSize())

	_, err := f.uc.Register(context.Background(), &RegisterRequest{
		Actor: "alice", FileName: "big.bin", CID: "bafy-big", Size: 2048,
		AccessLevel: entities.AccessPrivate, CategoryID: f.catID,
	})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}
