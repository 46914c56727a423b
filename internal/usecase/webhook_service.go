package usecase

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// EventVerifier authenticates a raw webhook delivery
type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (*stripe.Event, error)
}

// WebhookService runs one delivery through verification, journaling and dispatch
type WebhookService struct {
	verifier   EventVerifier
	dispatcher *WebhookDispatcher
	journal    repository.WebhookEventRepository
	logger     *zap.Logger
}

// NewWebhookService creates the service. The journal is optional.
func NewWebhookService(
	verifier EventVerifier,
	dispatcher *WebhookDispatcher,
	journal repository.WebhookEventRepository,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		verifier:   verifier,
		dispatcher: dispatcher,
		journal:    journal,
		logger:     logger,
	}
}

// Process verifies and dispatches a delivery. A returned error means the
// delivery was rejected (invalid payload, invalid signature or malformed event);
// every other outcome is reported through the result.
func (s *WebhookService) Process(ctx context.Context, payload []byte, signatureHeader string) (DispatchResult, error) {
	event, err := s.verifier.Verify(payload, signatureHeader)
	if err != nil {
		return DispatchResult{Status: DispatchFailed, Err: err}, err
	}

	s.recordDelivery(ctx, event)

	result, err := s.dispatcher.Dispatch(ctx, event)
	if err != nil {
		s.markOutcome(ctx, event.ID, model.WebhookStatusFailed, err)
		return result, err
	}

	switch result.Status {
	case DispatchHandled:
		s.markOutcome(ctx, event.ID, model.WebhookStatusCompleted, nil)
	case DispatchIgnored:
		s.markOutcome(ctx, event.ID, model.WebhookStatusIgnored, nil)
	default:
		s.markOutcome(ctx, event.ID, model.WebhookStatusFailed, result.Err)
	}

	return result, nil
}

// journal failures are logged and never change the outcome of a delivery
func (s *WebhookService) recordDelivery(ctx context.Context, event *stripe.Event) {
	if s.journal == nil || event.ID == "" {
		return
	}

	var createdAt time.Time
	if event.Created > 0 {
		createdAt = time.Unix(event.Created, 0).UTC()
	}

	var data []byte
	if event.Data != nil {
		data = event.Data.Raw
	}

	if err := s.journal.RecordDelivery(ctx, event.ID, string(event.Type), event.APIVersion, createdAt, data); err != nil {
		s.logger.Warn("Failed to journal webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func (s *WebhookService) markOutcome(ctx context.Context, eventID string, status model.WebhookStatus, cause error) {
	if s.journal == nil || eventID == "" {
		return
	}

	if err := s.journal.MarkOutcome(ctx, eventID, status, cause); err != nil {
		s.logger.Warn("Failed to update webhook journal",
			zap.String("event_id", eventID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
