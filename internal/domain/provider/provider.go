package provider

import (
	"context"
	"fmt"
)

// CheckoutMode is the kind of purchase a checkout session is for
type CheckoutMode string

const (
	CheckoutModeSubscription CheckoutMode = "subscription"
	CheckoutModeOneTime      CheckoutMode = "one_time"
)

// BillingGateway is the outbound boundary to the billing provider
type BillingGateway interface {
	// CreateCustomer creates a provider customer and returns its id
	CreateCustomer(ctx context.Context, email, name string) (string, error)

	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)

	// CreatePortalSession returns the URL of a self-service billing portal session
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// ScheduleCancellation cancels the subscription at the end of the current period
	ScheduleCancellation(ctx context.Context, subscriptionID string) error
}

type CheckoutSessionRequest struct {
	CustomerID string       `json:"customer_id"`
	PriceID    string       `json:"price_id"`
	Mode       CheckoutMode `json:"mode"`
	SuccessURL string       `json:"success_url"`
	CancelURL  string       `json:"cancel_url"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProviderError wraps a failed provider call
type ProviderError struct {
	Op      string `json:"op"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
