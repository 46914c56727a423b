package usecase

import (
	"context"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// AccountSummary is the dashboard view of a user's billing state
type AccountSummary struct {
	Customer              *entity.BillingCustomer `json:"customer"`
	HasActiveSubscription bool                    `json:"has_active_subscription"`
	PaymentCount          int64                   `json:"payment_count"`
}

// AccountService reads billing state for the account pages
type AccountService struct {
	customers repository.BillingCustomerRepository
	payments  repository.PaymentRepository
	logger    *zap.Logger
}

func NewAccountService(customers repository.BillingCustomerRepository, payments repository.PaymentRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		customers: customers,
		payments:  payments,
		logger:    logger,
	}
}

// GetAccount returns the summary. Customer is nil for users who never started a purchase.
func (s *AccountService) GetAccount(ctx context.Context, userID string) (*AccountSummary, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.payments.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		Customer:     customer,
		PaymentCount: count,
	}
	if customer != nil {
		summary.HasActiveSubscription = customer.HasActiveSubscription()
	}
	return summary, nil
}

// ListPayments returns the user's payment history, newest first
func (s *AccountService) ListPayments(ctx context.Context, userID string, params entity.PaginationParams) (*entity.Page[*entity.Payment], error) {
	params.Validate()

	payments, total, err := s.payments.ListByUserID(ctx, userID, params)
	if err != nil {
		s.logger.Error("Failed to list payments",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	return entity.NewPage(payments, params, total), nil
}
