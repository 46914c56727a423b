package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) modelToEntity(m *model.Payment) *entity.Payment {
	p := &entity.Payment{
		ID:                m.ID,
		UserID:            m.UserID.String(),
		ExternalPaymentID: m.ExternalPaymentID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            entity.PaymentStatus(m.Status),
		Type:              entity.PaymentType(m.PaymentType),
		Description:       m.Description,
		CreatedAt:         m.CreatedAt,
	}
	if m.InvoiceURL != nil {
		p.InvoiceURL = *m.InvoiceURL
	}
	return p
}

// Create inserts a payment unless its external id is already recorded.
// The unique index on external_payment_id decides races between concurrent deliveries.
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	userUUID, err := uuid.Parse(payment.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", payment.UserID, err)
	}

	m := &model.Payment{
		UserID:            userUUID,
		ExternalPaymentID: payment.ExternalPaymentID,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		Status:            string(payment.Status),
		PaymentType:       string(payment.Type),
		Description:       payment.Description,
	}
	if payment.InvoiceURL != "" {
		m.InvoiceURL = &payment.InvoiceURL
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_payment_id"}},
			DoNothing: true,
		}).
		Create(m)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicatePayment
		}
		r.logger.Error("Failed to create payment",
			zap.String("payment_id", payment.ExternalPaymentID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to create payment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domainErrors.ErrDuplicatePayment
	}

	payment.ID = m.ID
	payment.CreatedAt = m.CreatedAt
	return nil
}

// GetByExternalID retrieves a payment by provider payment ID
func (r *paymentRepository) GetByExternalID(ctx context.Context, externalPaymentID string) (*entity.Payment, error) {
	var m model.Payment

	err := r.db.WithContext(ctx).
		Where("external_payment_id = ?", externalPaymentID).
		First(&m).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment",
			zap.String("payment_id", externalPaymentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return r.modelToEntity(&m), nil
}

// ListByUserID returns a page of the user's payments, newest first, and the total count
func (r *paymentRepository) ListByUserID(ctx context.Context, userID string, params entity.PaginationParams) ([]*entity.Payment, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	total, err := r.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var rows []model.Payment
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userUUID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]*entity.Payment, 0, len(rows))
	for i := range rows {
		payments = append(payments, r.modelToEntity(&rows[i]))
	}

	return payments, total, nil
}

func (r *paymentRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("user_id = ?", userUUID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return total, nil
}
