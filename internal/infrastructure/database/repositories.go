package database

import (
	"github.com/wekeepgrowing/semo-billing/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	BillingCustomer domainRepo.BillingCustomerRepository
	Payment         domainRepo.PaymentRepository
	WebhookEvent    domainRepo.WebhookEventRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		BillingCustomer: repository.NewBillingCustomerRepository(db, logger),
		Payment:         repository.NewPaymentRepository(db, logger),
		WebhookEvent:    repository.NewWebhookEventRepository(db, logger),
	}
}
