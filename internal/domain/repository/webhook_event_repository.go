package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
)

// WebhookEventRepository journals delivered provider events
type WebhookEventRepository interface {
	// RecordDelivery inserts the event or, for a redelivery, bumps its attempt counter
	RecordDelivery(ctx context.Context, eventID, eventType, apiVersion string, createdAt time.Time, data json.RawMessage) error
	MarkOutcome(ctx context.Context, eventID string, status model.WebhookStatus, cause error) error
	GetEvent(ctx context.Context, eventID string) (*model.StripeWebhookEvent, error)
}
