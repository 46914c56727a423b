package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
)

// BillingCustomerRepository stores BillingCustomer records. Lookups return
// (nil, nil) when no record matches.
type BillingCustomerRepository interface {
	Create(ctx context.Context, customer *entity.BillingCustomer) error
	GetByExternalCustomerID(ctx context.Context, externalCustomerID string) (*entity.BillingCustomer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.BillingCustomer, error)
	// UpdateSubscription overwrites every subscription column with the values on customer
	UpdateSubscription(ctx context.Context, customer *entity.BillingCustomer) error
	// UpdateStatus sets only the subscription status
	UpdateStatus(ctx context.Context, externalCustomerID string, status entity.SubscriptionStatus) error
	SetCancelAtPeriodEnd(ctx context.Context, externalCustomerID string, cancel bool) error
}
