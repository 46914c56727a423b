package database

import (
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...",
		zap.String("driver", db.Dialector.Name()))

	err := db.AutoMigrate(
		&model.BillingCustomer{},
		&model.Payment{},
		&model.StripeWebhookEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes GORM can't express. Postgres only.
func createCustomIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_stripe_webhook_events_failed ON stripe_webhook_events (created_at) WHERE status = 'failed'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_billing_customers_past_due ON billing_customers (updated_at) WHERE subscription_status = 'past_due'`).Error; err != nil {
		return err
	}

	return nil
}
