package usecase

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/stripe/stripe-go/v79"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"go.uber.org/zap"
)

// EventHandler reconciles one provider event
type EventHandler func(ctx context.Context, event *stripe.Event) error

// DispatchStatus is the outcome of dispatching a single event
type DispatchStatus string

const (
	DispatchHandled DispatchStatus = "handled"
	DispatchIgnored DispatchStatus = "ignored"
	DispatchFailed  DispatchStatus = "failed"
)

// DispatchResult describes what happened to a dispatched event
type DispatchResult struct {
	EventID   string
	EventType string
	Status    DispatchStatus
	// Err is the handler failure when Status is DispatchFailed
	Err error
}

// WebhookDispatcher routes verified events to the handler registered for their type
type WebhookDispatcher struct {
	handlers map[stripe.EventType]EventHandler
	logger   *zap.Logger
}

// NewWebhookDispatcher creates an empty dispatcher
func NewWebhookDispatcher(logger *zap.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		handlers: make(map[stripe.EventType]EventHandler),
		logger:   logger,
	}
}

// Register binds a handler to an event type, replacing any previous binding
func (d *WebhookDispatcher) Register(eventType stripe.EventType, handler EventHandler) {
	d.handlers[eventType] = handler
}

// Handles reports whether a handler is registered for the event type
func (d *WebhookDispatcher) Handles(eventType stripe.EventType) bool {
	_, ok := d.handlers[eventType]
	return ok
}

// Dispatch runs the handler for the event's type.
//
// Only a structurally malformed event is returned as an error. Unknown types
// are ignored, and handler errors or panics are logged and reported through
// the result so the caller can still acknowledge the delivery.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *stripe.Event) (DispatchResult, error) {
	if err := validateEvent(event); err != nil {
		return DispatchResult{Status: DispatchFailed, Err: err}, err
	}

	result := DispatchResult{
		EventID:   event.ID,
		EventType: string(event.Type),
	}

	handler, ok := d.handlers[event.Type]
	if !ok {
		d.logger.Info("Unhandled webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		result.Status = DispatchIgnored
		return result, nil
	}

	if err := d.invoke(ctx, handler, event); err != nil {
		d.logger.Error("Webhook event handling failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Status = DispatchFailed
		result.Err = err
		return result, nil
	}

	d.logger.Info("Webhook event handled",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	result.Status = DispatchHandled
	return result, nil
}

func (d *WebhookDispatcher) invoke(ctx context.Context, handler EventHandler, event *stripe.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Webhook handler panicked",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

func validateEvent(event *stripe.Event) error {
	if event == nil {
		return fmt.Errorf("%w: empty event", domainErrors.ErrMalformedEvent)
	}
	if event.Type == "" {
		return fmt.Errorf("%w: missing type", domainErrors.ErrMalformedEvent)
	}
	if event.Data == nil || len(event.Data.Raw) == 0 || string(event.Data.Raw) == "null" {
		return fmt.Errorf("%w: missing data.object", domainErrors.ErrMalformedEvent)
	}
	return nil
}
