package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment represents a payment record. Rows are written once and never updated.
type Payment struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:char(36);not null;index" json:"user_id"`
	ExternalPaymentID string          `gorm:"column:external_payment_id;size:255;not null;uniqueIndex" json:"external_payment_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency          string          `gorm:"size:3;not null;default:'usd'" json:"currency"`
	Status            string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentType       string          `gorm:"size:20;not null;default:'one_time'" json:"payment_type"`
	Description       string          `gorm:"type:text" json:"description"`
	InvoiceURL        *string         `gorm:"size:500" json:"invoice_url,omitempty"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
