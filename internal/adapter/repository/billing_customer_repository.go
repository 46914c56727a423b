package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type billingCustomerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBillingCustomerRepository creates a new billing customer repository
func NewBillingCustomerRepository(db *gorm.DB, logger *zap.Logger) repository.BillingCustomerRepository {
	return &billingCustomerRepository{
		db:     db,
		logger: logger,
	}
}

// modelToEntity converts a model.BillingCustomer to entity.BillingCustomer
func (r *billingCustomerRepository) modelToEntity(m *model.BillingCustomer) *entity.BillingCustomer {
	if m == nil {
		return nil
	}
	return &entity.BillingCustomer{
		ID:                     m.ID,
		UserID:                 m.UserID.String(),
		Email:                  m.Email,
		ExternalCustomerID:     m.ExternalCustomerID,
		ExternalSubscriptionID: m.ExternalSubscriptionID,
		SubscriptionStatus:     entity.SubscriptionStatus(m.SubscriptionStatus),
		SubscriptionPlan:       m.SubscriptionPlan,
		CurrentPeriodEnd:       m.CurrentPeriodEnd,
		CancelAtPeriodEnd:      m.CancelAtPeriodEnd,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// entityToModel converts an entity.BillingCustomer to model.BillingCustomer
func (r *billingCustomerRepository) entityToModel(e *entity.BillingCustomer) (*model.BillingCustomer, error) {
	userUUID, err := uuid.Parse(e.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", e.UserID, err)
	}

	return &model.BillingCustomer{
		ID:                     e.ID,
		UserID:                 userUUID,
		Email:                  e.Email,
		ExternalCustomerID:     e.ExternalCustomerID,
		ExternalSubscriptionID: e.ExternalSubscriptionID,
		SubscriptionStatus:     string(e.SubscriptionStatus),
		SubscriptionPlan:       e.SubscriptionPlan,
		CurrentPeriodEnd:       e.CurrentPeriodEnd,
		CancelAtPeriodEnd:      e.CancelAtPeriodEnd,
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
	}, nil
}

func (r *billingCustomerRepository) Create(ctx context.Context, customer *entity.BillingCustomer) error {
	m, err := r.entityToModel(customer)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		r.logger.Error("Failed to create billing customer",
			zap.String("user_id", customer.UserID),
			zap.String("customer_id", customer.ExternalCustomerID),
			zap.Error(err))
		return fmt.Errorf("failed to create billing customer: %w", err)
	}

	customer.ID = m.ID
	customer.CreatedAt = m.CreatedAt
	customer.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByExternalCustomerID retrieves a billing customer by provider customer ID
func (r *billingCustomerRepository) GetByExternalCustomerID(ctx context.Context, externalCustomerID string) (*entity.BillingCustomer, error) {
	var m model.BillingCustomer

	err := r.db.WithContext(ctx).
		Where("external_customer_id = ?", externalCustomerID).
		First(&m).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get billing customer",
			zap.String("customer_id", externalCustomerID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get billing customer: %w", err)
	}

	return r.modelToEntity(&m), nil
}

// GetByUserID retrieves a billing customer by internal user ID
func (r *billingCustomerRepository) GetByUserID(ctx context.Context, userID string) (*entity.BillingCustomer, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	var m model.BillingCustomer
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userUUID).
		First(&m).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get billing customer by user",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get billing customer: %w", err)
	}

	return r.modelToEntity(&m), nil
}

// UpdateSubscription overwrites the subscription columns of the customer
func (r *billingCustomerRepository) UpdateSubscription(ctx context.Context, customer *entity.BillingCustomer) error {
	updates := map[string]interface{}{
		"external_subscription_id": customer.ExternalSubscriptionID,
		"subscription_status":      string(customer.SubscriptionStatus),
		"subscription_plan":        customer.SubscriptionPlan,
		"current_period_end":       customer.CurrentPeriodEnd,
		"cancel_at_period_end":     customer.CancelAtPeriodEnd,
		"updated_at":               time.Now(),
	}

	return r.update(ctx, customer.ExternalCustomerID, updates)
}

func (r *billingCustomerRepository) UpdateStatus(ctx context.Context, externalCustomerID string, status entity.SubscriptionStatus) error {
	return r.update(ctx, externalCustomerID, map[string]interface{}{
		"subscription_status": string(status),
		"updated_at":          time.Now(),
	})
}

func (r *billingCustomerRepository) SetCancelAtPeriodEnd(ctx context.Context, externalCustomerID string, cancel bool) error {
	return r.update(ctx, externalCustomerID, map[string]interface{}{
		"cancel_at_period_end": cancel,
		"updated_at":           time.Now(),
	})
}

func (r *billingCustomerRepository) update(ctx context.Context, externalCustomerID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.BillingCustomer{}).
		Where("external_customer_id = ?", externalCustomerID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update billing customer",
			zap.String("customer_id", externalCustomerID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update billing customer: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domainErrors.ErrCustomerNotFound
	}

	return nil
}
