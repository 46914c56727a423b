package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockBillingCustomerRepository is a mock implementation of BillingCustomerRepository
type MockBillingCustomerRepository struct {
	mock.Mock
}

func (m *MockBillingCustomerRepository) Create(ctx context.Context, customer *entity.BillingCustomer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockBillingCustomerRepository) GetByExternalCustomerID(ctx context.Context, externalCustomerID string) (*entity.BillingCustomer, error) {
	args := m.Called(ctx, externalCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingCustomer), args.Error(1)
}

func (m *MockBillingCustomerRepository) GetByUserID(ctx context.Context, userID string) (*entity.BillingCustomer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingCustomer), args.Error(1)
}

func (m *MockBillingCustomerRepository) UpdateSubscription(ctx context.Context, customer *entity.BillingCustomer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockBillingCustomerRepository) UpdateStatus(ctx context.Context, externalCustomerID string, status entity.SubscriptionStatus) error {
	args := m.Called(ctx, externalCustomerID, status)
	return args.Error(0)
}

func (m *MockBillingCustomerRepository) SetCancelAtPeriodEnd(ctx context.Context, externalCustomerID string, cancel bool) error {
	args := m.Called(ctx, externalCustomerID, cancel)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByExternalID(ctx context.Context, externalPaymentID string) (*entity.Payment, error) {
	args := m.Called(ctx, externalPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUserID(ctx context.Context, userID string, params entity.PaginationParams) ([]*entity.Payment, int64, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockWebhookEventRepository is a mock implementation of WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) RecordDelivery(ctx context.Context, eventID, eventType, apiVersion string, createdAt time.Time, data json.RawMessage) error {
	args := m.Called(ctx, eventID, eventType, apiVersion, createdAt, data)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkOutcome(ctx context.Context, eventID string, status model.WebhookStatus, cause error) error {
	args := m.Called(ctx, eventID, status, cause)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.StripeWebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StripeWebhookEvent), args.Error(1)
}

// MockBillingGateway is a mock implementation of provider.BillingGateway
type MockBillingGateway struct {
	mock.Mock
}

func (m *MockBillingGateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	args := m.Called(ctx, email, name)
	return args.String(0), args.Error(1)
}

func (m *MockBillingGateway) CreateCheckoutSession(ctx context.Context, req *provider.CheckoutSessionRequest) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *MockBillingGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *MockBillingGateway) ScheduleCancellation(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

// MockPublisher is a mock implementation of messaging.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// MockVerifier is a mock implementation of usecase.EventVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(payload []byte, signatureHeader string) (*stripe.Event, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Event), args.Error(1)
}

const (
	testUserID     = "550e8400-e29b-41d4-a716-446655440000"
	testCustomerID = "cus_1"
)

// newEvent builds an event the same way the verifier does, through the
// provider's JSON envelope
func newEvent(t *testing.T, id string, eventType stripe.EventType, object map[string]interface{}) *stripe.Event {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"created":     1700000000,
		"api_version": "2024-06-20",
		"data":        map[string]interface{}{"object": object},
	})
	require.NoError(t, err)

	var event stripe.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	return &event
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func existingCustomer() *entity.BillingCustomer {
	return &entity.BillingCustomer{
		ID:                 1,
		UserID:             testUserID,
		Email:              "user@example.com",
		ExternalCustomerID: testCustomerID,
	}
}
