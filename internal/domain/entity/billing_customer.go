package entity

import "time"

// SubscriptionStatus mirrors the provider's subscription status. The empty
// value means the customer has no subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusAbsent     SubscriptionStatus = ""
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
	SubscriptionStatusTrialing   SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid     SubscriptionStatus = "unpaid"
)

// BillingCustomer links an internal user to the provider's customer and caches
// the state of that customer's subscription.
type BillingCustomer struct {
	ID                     int64              `json:"id"`
	UserID                 string             `json:"user_id"`
	Email                  string             `json:"email"`
	ExternalCustomerID     string             `json:"external_customer_id"`
	ExternalSubscriptionID *string            `json:"external_subscription_id,omitempty"`
	SubscriptionStatus     SubscriptionStatus `json:"subscription_status"`
	SubscriptionPlan       string             `json:"subscription_plan"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool               `json:"cancel_at_period_end"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// HasActiveSubscription reports whether the subscription currently grants access.
func (c *BillingCustomer) HasActiveSubscription() bool {
	return c.SubscriptionStatus == SubscriptionStatusActive ||
		c.SubscriptionStatus == SubscriptionStatusTrialing
}

// HasSubscription reports whether a provider subscription is linked.
func (c *BillingCustomer) HasSubscription() bool {
	return c.ExternalSubscriptionID != nil && *c.ExternalSubscriptionID != ""
}
