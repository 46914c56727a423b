package model

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookStatus represents the processing outcome of a webhook event
type WebhookStatus string

const (
	WebhookStatusReceived  WebhookStatus = "received"
	WebhookStatusCompleted WebhookStatus = "completed"
	WebhookStatusIgnored   WebhookStatus = "ignored"
	WebhookStatusFailed    WebhookStatus = "failed"
)

// StripeWebhookEvent is a journal entry for one delivered provider event.
// Redeliveries of the same event share a row.
type StripeWebhookEvent struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	StripeEventID    string         `gorm:"column:stripe_event_id;size:255;not null;uniqueIndex" json:"stripe_event_id"`
	EventType        string         `gorm:"size:100;not null;index" json:"event_type"`
	Status           WebhookStatus  `gorm:"size:20;not null;default:'received';index" json:"status"`
	Data             datatypes.JSON `json:"data"`
	APIVersion       string         `gorm:"size:20" json:"api_version,omitempty"`
	DeliveryAttempts int            `gorm:"not null;default:0" json:"delivery_attempts"`
	LastError        *string        `gorm:"type:text" json:"last_error,omitempty"`
	ProcessedAt      *time.Time     `json:"processed_at,omitempty"`
	StripeCreatedAt  *time.Time     `json:"stripe_created_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (StripeWebhookEvent) TableName() string {
	return "stripe_webhook_events"
}
