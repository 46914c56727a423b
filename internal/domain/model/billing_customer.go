package model

import (
	"time"

	"github.com/google/uuid"
)

// BillingCustomer maps a user to a provider customer and caches the
// subscription state reported by webhooks
type BillingCustomer struct {
	ID                     int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                 uuid.UUID  `gorm:"column:user_id;type:char(36);not null;uniqueIndex" json:"user_id"`
	Email                  string     `gorm:"size:255" json:"email"`
	ExternalCustomerID     string     `gorm:"column:external_customer_id;size:255;not null;uniqueIndex" json:"external_customer_id"`
	ExternalSubscriptionID *string    `gorm:"column:external_subscription_id;size:255" json:"external_subscription_id,omitempty"`
	SubscriptionStatus     string     `gorm:"size:20" json:"subscription_status"`
	SubscriptionPlan       string     `gorm:"size:255" json:"subscription_plan"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (BillingCustomer) TableName() string {
	return "billing_customers"
}
