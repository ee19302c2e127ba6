package repository

import (
	"context"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// QuotaRepository is the per-identity used-storage and file-count ledger.
// Quota rows are created with configured defaults the first time an
// identity is touched.
type QuotaRepository interface {
	// Get returns the ledger row for an identity. Identities never seen
	// before get a defaulted row.
	Get(ctx context.Context, identity string) (*entities.Quota, error)

	// Reserve checks used+bytes against the byte ceiling and count+1
	// against the file ceiling, then commits the byte increment. Fails
	// with entities.ErrQuotaExceeded without side effects.
	Reserve(ctx context.Context, identity string, bytes int64, now time.Time) error

	// Release subtracts bytes from the used counter, clamping at zero.
	Release(ctx context.Context, identity string, bytes int64, now time.Time) error

	// AddFiles moves the file counter by delta, clamping at zero.
	AddFiles(ctx context.Context, identity string, delta int64, now time.Time) error
}
