package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a new webhook event journal
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) repository.WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

// RecordDelivery saves a new webhook event. A redelivered event keeps its
// row and only has its attempt counter bumped and its status reset.
func (r *webhookEventRepository) RecordDelivery(ctx context.Context, eventID, eventType, apiVersion string, createdAt time.Time, data json.RawMessage) error {
	event := &model.StripeWebhookEvent{
		StripeEventID:    eventID,
		EventType:        eventType,
		Status:           model.WebhookStatusReceived,
		Data:             datatypes.JSON(data),
		APIVersion:       apiVersion,
		DeliveryAttempts: 1,
	}
	if !createdAt.IsZero() {
		event.StripeCreatedAt = &createdAt
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_event_id"}},
			DoNothing: true,
		}).
		Create(event)

	if result.Error != nil && !errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		r.logger.Error("Failed to save webhook event",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(result.Error))
		return fmt.Errorf("failed to save webhook event: %w", result.Error)
	}
	if result.Error == nil && result.RowsAffected > 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&model.StripeWebhookEvent{}).
		Where("stripe_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"delivery_attempts": gorm.Expr("delivery_attempts + 1"),
			"status":            model.WebhookStatusReceived,
		}).Error
	if err != nil {
		r.logger.Error("Failed to record webhook redelivery",
			zap.String("event_id", eventID),
			zap.Error(err))
		return fmt.Errorf("failed to record webhook redelivery: %w", err)
	}

	return nil
}

// MarkOutcome stores the dispatch result of an event
func (r *webhookEventRepository) MarkOutcome(ctx context.Context, eventID string, status model.WebhookStatus, cause error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       status,
		"processed_at": &now,
		"last_error":   nil,
	}
	if cause != nil {
		msg := cause.Error()
		updates["last_error"] = &msg
	}

	result := r.db.WithContext(ctx).
		Model(&model.StripeWebhookEvent{}).
		Where("stripe_event_id = ?", eventID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook outcome",
			zap.String("event_id", eventID),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook outcome: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}

	return nil
}

// GetEvent retrieves a webhook event by ID
func (r *webhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.StripeWebhookEvent, error) {
	var event model.StripeWebhookEvent

	err := r.db.WithContext(ctx).
		Where("stripe_event_id = ?", eventID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}
