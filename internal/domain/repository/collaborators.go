package repository

import (
	"context"

	"github.com/zots0127/registry/internal/domain/entities"
)

// PaymentService is the external fee ledger invoked synchronously during
// registration, before any registry state is committed.
type PaymentService interface {
	// CollectRegistrationFee moves the fee from the payer to the configured
	// collector. Insufficient funds surface as entities.ErrPaymentFailed.
	CollectRegistrationFee(ctx context.Context, payer string, amount int64) error
}

// AuditSink receives one event per successful mutating operation. Writes
// are fire-and-forget; the core never reads events back.
type AuditSink interface {
	Record(ctx context.Context, ev *entities.Event) error
}
