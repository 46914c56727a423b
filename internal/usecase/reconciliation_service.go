package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"github.com/wekeepgrowing/semo-billing/pkg/messaging"
	"go.uber.org/zap"
)

// Event types reconciled against the local stores
const (
	EventSubscriptionCreated     stripe.EventType = "customer.subscription.created"
	EventSubscriptionUpdated     stripe.EventType = "customer.subscription.updated"
	EventSubscriptionDeleted     stripe.EventType = "customer.subscription.deleted"
	EventInvoicePaymentSucceeded stripe.EventType = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    stripe.EventType = "invoice.payment_failed"
)

// Notification channels
const (
	ChannelCustomerUpdated = "billing.customer.updated"
	ChannelPaymentRecorded = "billing.payment.recorded"
)

// CustomerUpdatedMessage is published after a subscription change is stored
type CustomerUpdatedMessage struct {
	UserID             string `json:"user_id"`
	ExternalCustomerID string `json:"external_customer_id"`
	SubscriptionStatus string `json:"subscription_status"`
	SubscriptionPlan   string `json:"subscription_plan"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	EventType          string `json:"event_type"`
}

// PaymentRecordedMessage is published after a new payment is stored
type PaymentRecordedMessage struct {
	UserID            string `json:"user_id"`
	ExternalPaymentID string `json:"external_payment_id"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	PaymentType       string `json:"payment_type"`
}

// ReconciliationService applies provider events to the customer and payment stores
type ReconciliationService struct {
	customers repository.BillingCustomerRepository
	payments  repository.PaymentRepository
	publisher messaging.Publisher
	logger    *zap.Logger
}

// NewReconciliationService creates the service. A nil publisher disables notifications.
func NewReconciliationService(
	customers repository.BillingCustomerRepository,
	payments repository.PaymentRepository,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *ReconciliationService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &ReconciliationService{
		customers: customers,
		payments:  payments,
		publisher: publisher,
		logger:    logger,
	}
}

// RegisterHandlers binds every reconciled event type on the dispatcher
func (s *ReconciliationService) RegisterHandlers(d *WebhookDispatcher) {
	d.Register(EventSubscriptionCreated, s.HandleSubscriptionCreated)
	d.Register(EventSubscriptionUpdated, s.HandleSubscriptionUpdated)
	d.Register(EventSubscriptionDeleted, s.HandleSubscriptionDeleted)
	d.Register(EventInvoicePaymentSucceeded, s.HandleInvoicePaymentSucceeded)
	d.Register(EventInvoicePaymentFailed, s.HandleInvoicePaymentFailed)
}

func (s *ReconciliationService) HandleSubscriptionCreated(ctx context.Context, event *stripe.Event) error {
	return s.syncSubscription(ctx, event)
}

func (s *ReconciliationService) HandleSubscriptionUpdated(ctx context.Context, event *stripe.Event) error {
	return s.syncSubscription(ctx, event)
}

// syncSubscription overwrites the cached subscription with the event's state.
// Events are applied in delivery order; the last one stored wins.
func (s *ReconciliationService) syncSubscription(ctx context.Context, event *stripe.Event) error {
	var sub stripe.Subscription
	if err := decodeObject(event, &sub); err != nil {
		return err
	}

	customerID := customerIDOf(sub.Customer)
	customer, err := s.lookupCustomer(ctx, event, customerID)
	if err != nil {
		return err
	}

	customer.ExternalSubscriptionID = nil
	if sub.ID != "" {
		subID := sub.ID
		customer.ExternalSubscriptionID = &subID
	}
	customer.SubscriptionStatus = entity.SubscriptionStatus(sub.Status)
	customer.SubscriptionPlan = planOf(&sub)
	customer.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
	if end := periodEndOf(&sub); end != nil {
		customer.CurrentPeriodEnd = end
	}

	if err := s.customers.UpdateSubscription(ctx, customer); err != nil {
		return fmt.Errorf("failed to update subscription for %s: %w", customerID, err)
	}

	s.logger.Info("Subscription synchronized",
		zap.String("event_type", string(event.Type)),
		zap.String("customer_id", customerID),
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd))

	s.notifyCustomer(ctx, event, customer)
	return nil
}

// HandleSubscriptionDeleted marks the subscription canceled and unlinks it
func (s *ReconciliationService) HandleSubscriptionDeleted(ctx context.Context, event *stripe.Event) error {
	var sub stripe.Subscription
	if err := decodeObject(event, &sub); err != nil {
		return err
	}

	customerID := customerIDOf(sub.Customer)
	customer, err := s.lookupCustomer(ctx, event, customerID)
	if err != nil {
		return err
	}

	customer.SubscriptionStatus = entity.SubscriptionStatusCanceled
	customer.ExternalSubscriptionID = nil

	if err := s.customers.UpdateSubscription(ctx, customer); err != nil {
		return fmt.Errorf("failed to cancel subscription for %s: %w", customerID, err)
	}

	s.logger.Info("Subscription canceled",
		zap.String("customer_id", customerID),
		zap.String("subscription_id", sub.ID))

	s.notifyCustomer(ctx, event, customer)
	return nil
}

func (s *ReconciliationService) HandleInvoicePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	var invoice stripe.Invoice
	if err := decodeObject(event, &invoice); err != nil {
		return err
	}

	customer, err := s.lookupCustomer(ctx, event, customerIDOf(invoice.Customer))
	if err != nil {
		return err
	}

	return s.recordPayment(ctx, event, customer, &invoice, entity.PaymentStatusSucceeded, invoice.AmountPaid)
}

// HandleInvoicePaymentFailed moves the customer to past_due, then records the
// failed attempt. The status change applies even when the payment is a duplicate.
func (s *ReconciliationService) HandleInvoicePaymentFailed(ctx context.Context, event *stripe.Event) error {
	var invoice stripe.Invoice
	if err := decodeObject(event, &invoice); err != nil {
		return err
	}

	customerID := customerIDOf(invoice.Customer)
	customer, err := s.lookupCustomer(ctx, event, customerID)
	if err != nil {
		return err
	}

	if err := s.customers.UpdateStatus(ctx, customerID, entity.SubscriptionStatusPastDue); err != nil {
		return fmt.Errorf("failed to mark %s past due: %w", customerID, err)
	}
	customer.SubscriptionStatus = entity.SubscriptionStatusPastDue

	s.logger.Warn("Invoice payment failed",
		zap.String("customer_id", customerID),
		zap.String("invoice_id", invoice.ID),
		zap.Int64("amount_due", invoice.AmountDue))

	s.notifyCustomer(ctx, event, customer)

	return s.recordPayment(ctx, event, customer, &invoice, entity.PaymentStatusFailed, invoice.AmountDue)
}

// recordPayment creates the invoice's payment unless one is already stored.
// The existence check is a shortcut; the unique key on the store is what
// rejects a racing duplicate.
func (s *ReconciliationService) recordPayment(
	ctx context.Context,
	event *stripe.Event,
	customer *entity.BillingCustomer,
	invoice *stripe.Invoice,
	status entity.PaymentStatus,
	minorAmount int64,
) error {
	if invoice.ID == "" {
		return fmt.Errorf("%w: invoice without id", domainErrors.ErrInvalidEventObject)
	}

	existing, err := s.payments.GetByExternalID(ctx, invoice.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logDuplicate(event, invoice.ID, customer.ExternalCustomerID)
		return nil
	}

	paymentType := entity.PaymentTypeOneTime
	if invoice.Subscription != nil && invoice.Subscription.ID != "" {
		paymentType = entity.PaymentTypeSubscription
	}

	payment := &entity.Payment{
		UserID:            customer.UserID,
		ExternalPaymentID: invoice.ID,
		Amount:            entity.AmountFromMinorUnits(minorAmount),
		Currency:          string(invoice.Currency),
		Status:            status,
		Type:              paymentType,
		Description:       invoice.Description,
		InvoiceURL:        invoice.HostedInvoiceURL,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicatePayment) {
			s.logDuplicate(event, invoice.ID, customer.ExternalCustomerID)
			return nil
		}
		return fmt.Errorf("failed to record payment %s: %w", invoice.ID, err)
	}

	s.logger.Info("Payment recorded",
		zap.String("event_type", string(event.Type)),
		zap.String("customer_id", customer.ExternalCustomerID),
		zap.String("payment_id", invoice.ID),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("currency", payment.Currency),
		zap.String("status", string(status)))

	s.publish(ctx, ChannelPaymentRecorded, PaymentRecordedMessage{
		UserID:            payment.UserID,
		ExternalPaymentID: payment.ExternalPaymentID,
		Amount:            payment.Amount.StringFixed(2),
		Currency:          payment.Currency,
		Status:            string(payment.Status),
		PaymentType:       string(payment.Type),
	})
	return nil
}

func (s *ReconciliationService) logDuplicate(event *stripe.Event, paymentID, customerID string) {
	s.logger.Info("Payment already recorded, skipping",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("customer_id", customerID),
		zap.String("payment_id", paymentID))
}

// lookupCustomer resolves the customer an event refers to. An unknown
// customer is never created here; the event is dropped instead.
func (s *ReconciliationService) lookupCustomer(ctx context.Context, event *stripe.Event, customerID string) (*entity.BillingCustomer, error) {
	customer, err := s.customers.GetByExternalCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		s.logger.Error("Billing customer not found",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("customer_id", customerID))
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrCustomerNotFound, customerID)
	}
	return customer, nil
}

func (s *ReconciliationService) notifyCustomer(ctx context.Context, event *stripe.Event, customer *entity.BillingCustomer) {
	s.publish(ctx, ChannelCustomerUpdated, CustomerUpdatedMessage{
		UserID:             customer.UserID,
		ExternalCustomerID: customer.ExternalCustomerID,
		SubscriptionStatus: string(customer.SubscriptionStatus),
		SubscriptionPlan:   customer.SubscriptionPlan,
		CancelAtPeriodEnd:  customer.CancelAtPeriodEnd,
		EventType:          string(event.Type),
	})
}

// publish is best-effort; a failed notification never fails the event
func (s *ReconciliationService) publish(ctx context.Context, channel string, message interface{}) {
	if err := s.publisher.Publish(ctx, channel, message); err != nil {
		s.logger.Warn("Failed to publish billing notification",
			zap.String("channel", channel),
			zap.Error(err))
	}
}

func decodeObject(event *stripe.Event, target interface{}) error {
	if err := json.Unmarshal(event.Data.Raw, target); err != nil {
		return fmt.Errorf("%w: %s: %v", domainErrors.ErrInvalidEventObject, event.Type, err)
	}
	return nil
}

func customerIDOf(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// planOf returns the price id of the subscription's first line item
func planOf(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return ""
	}
	item := sub.Items.Data[0]
	if item == nil || item.Price == nil {
		return ""
	}
	return item.Price.ID
}

// periodEndOf picks the scheduled cancellation time when a cancellation is
// pending, the renewal boundary otherwise. Nil when the event carries neither.
func periodEndOf(sub *stripe.Subscription) *time.Time {
	ts := sub.CurrentPeriodEnd
	if sub.CancelAtPeriodEnd && sub.CancelAt != 0 {
		ts = sub.CancelAt
	}
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
