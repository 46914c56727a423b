package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentType string

const (
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeOneTime      PaymentType = "one_time"
)

// Payment is one recorded payment attempt. ExternalPaymentID is the provider's
// identifier and is unique across all payments.
type Payment struct {
	ID                int64           `json:"id"`
	UserID            string          `json:"user_id"`
	ExternalPaymentID string          `json:"external_payment_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            PaymentStatus   `json:"status"`
	Type              PaymentType     `json:"payment_type"`
	Description       string          `json:"description"`
	InvoiceURL        string          `json:"invoice_url,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// AmountFromMinorUnits converts a provider amount in minor units (cents) to a
// two-decimal amount.
func AmountFromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
