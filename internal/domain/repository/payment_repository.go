package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
)

type PaymentRepository interface {
	// Create inserts the payment. A payment whose ExternalPaymentID already
	// exists is rejected with errors.ErrDuplicatePayment and nothing is written.
	Create(ctx context.Context, payment *entity.Payment) error
	GetByExternalID(ctx context.Context, externalPaymentID string) (*entity.Payment, error)
	ListByUserID(ctx context.Context, userID string, params entity.PaginationParams) ([]*entity.Payment, int64, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}
