package stripe

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
)

// WebhookVerifier authenticates webhook deliveries with the endpoint's signing secret
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
}

// NewWebhookVerifier creates a verifier using the provider's default timestamp tolerance
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    secret,
		tolerance: webhook.DefaultTolerance,
	}
}

// Verify parses the payload and checks its signature header.
// A body that is not an event envelope fails with ErrInvalidPayload before the
// signature is looked at; a bad or stale signature fails with ErrInvalidSignature.
func (v *WebhookVerifier) Verify(payload []byte, signatureHeader string) (*stripe.Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPayload, err)
	}

	if err := webhook.ValidatePayloadWithTolerance(payload, signatureHeader, v.secret, v.tolerance); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidSignature, err)
	}

	return &event, nil
}
