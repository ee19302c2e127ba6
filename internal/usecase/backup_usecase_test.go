package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zots0127/registry/internal/domain/entities"
	infra "github.com/zots0127/registry/internal/infrastructure/repository"
	"github.com/zots0127/registry/internal/usecase/mocks"
)

func newBackupFixture(t *testing.T) (*registryFixture, *BackupUseCase, *mocks.MockBackupVerifier) {
	t.Helper()

	f := newRegistryFixture(t, infra.QuotaDefaults{})
	f.allowPayments()

	verifier := new(mocks.MockBackupVerifier)
	audit := new(mocks.MockAuditSink)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()

	b := NewBackupUseCase(f.uc.store, verifier, audit)
	b.now = f.uc.now
	return f, b, verifier
}

func TestBackupUseCase_CreateBackup(t *testing.T) {
	ctx := context.Background()

	t.Run("owner records a backup copy", func(t *testing.T) {
		f, b, _ := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		copy, err := b.CreateBackup(ctx, "alice", rec.ID, "backups/a.bin", "sha256:abc")
		require.NoError(t, err)
		assert.NotEmpty(t, copy.BackupID)
		assert.Nil(t, copy.VerifiedAt)

		copies, err := b.ListBackups(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, copies, 1)
		assert.Equal(t, "backups/a.bin", copies[0].Location)
	})

	t.Run("only the owner may record backups", func(t *testing.T) {
		f, b, _ := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		_, err := b.CreateBackup(ctx, "bob", rec.ID, "backups/a.bin", "")
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("rejects an empty location", func(t *testing.T) {
		f, b, _ := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)

		_, err := b.CreateBackup(ctx, "alice", rec.ID, "  ", "")
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})

	t.Run("rejects an unknown file", func(t *testing.T) {
		_, b, _ := newBackupFixture(t)

		_, err := b.CreateBackup(ctx, "alice", 42, "backups/x", "")
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestBackupUseCase_VerifyBackup(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the record when the object exists", func(t *testing.T) {
		f, b, verifier := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		copy, err := b.CreateBackup(ctx, "alice", rec.ID, "backups/a.bin", "")
		require.NoError(t, err)

		verifier.On("Exists", mock.Anything, "backups/a.bin").Return(true, nil)

		verified, err := b.VerifyBackup(ctx, "alice", rec.ID, copy.BackupID)
		require.NoError(t, err)
		require.NotNil(t, verified.VerifiedAt)

		copies, err := b.ListBackups(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, copies, 1)
		assert.True(t, copies[0].Verified())
		verifier.AssertExpectations(t)
	})

	t.Run("a missing object fails verification", func(t *testing.T) {
		f, b, verifier := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		copy, err := b.CreateBackup(ctx, "alice", rec.ID, "backups/gone", "")
		require.NoError(t, err)

		verifier.On("Exists", mock.Anything, "backups/gone").Return(false, nil)

		_, err = b.VerifyBackup(ctx, "alice", rec.ID, copy.BackupID)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("verification requires a configured store", func(t *testing.T) {
		f, b, _ := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		copy, err := b.CreateBackup(ctx, "alice", rec.ID, "backups/a.bin", "")
		require.NoError(t, err)

		audit := new(mocks.MockAuditSink)
		audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
		noStore := NewBackupUseCase(f.uc.store, nil, audit)

		_, err = noStore.VerifyBackup(ctx, "alice", rec.ID, copy.BackupID)
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})

	t.Run("only the owner may verify", func(t *testing.T) {
		f, b, _ := newBackupFixture(t)
		rec := f.register(t, "alice", "a.bin", "bafy-a", 10)
		copy, err := b.CreateBackup(ctx, "alice", rec.ID, "backups/a.bin", "")
		require.NoError(t, err)

		_, err = b.VerifyBackup(ctx, "bob", rec.ID, copy.BackupID)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})
}
