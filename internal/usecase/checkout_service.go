package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// CheckoutSettings holds the redirect targets and default price used for
// provider-hosted pages
type CheckoutSettings struct {
	ClientURL        string
	DefaultPriceID   string
	SuccessPath      string
	CancelPath       string
	PortalReturnPath string
}

func (s CheckoutSettings) url(path string) string {
	return strings.TrimRight(s.ClientURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// CheckoutService starts purchase, portal and cancellation flows with the provider
type CheckoutService struct {
	customers repository.BillingCustomerRepository
	gateway   provider.BillingGateway
	settings  CheckoutSettings
	logger    *zap.Logger
}

func NewCheckoutService(
	customers repository.BillingCustomerRepository,
	gateway provider.BillingGateway,
	settings CheckoutSettings,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		customers: customers,
		gateway:   gateway,
		settings:  settings,
		logger:    logger,
	}
}

// GetOrCreateCustomer returns the user's billing customer, creating the
// provider customer and the local record on first use
func (s *CheckoutService) GetOrCreateCustomer(ctx context.Context, user entity.User) (*entity.BillingCustomer, error) {
	customer, err := s.customers.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	externalID, err := s.gateway.CreateCustomer(ctx, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider customer: %w", err)
	}

	customer = &entity.BillingCustomer{
		UserID:             user.ID,
		Email:              user.Email,
		ExternalCustomerID: externalID,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Billing customer created",
		zap.String("user_id", user.ID),
		zap.String("customer_id", externalID))
	return customer, nil
}

// CreateCheckoutSession opens a hosted checkout for the given price, or the
// default price when priceID is empty
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, user entity.User, mode provider.CheckoutMode, priceID string) (*provider.CheckoutSession, error) {
	if mode == "" {
		mode = provider.CheckoutModeSubscription
	}
	if priceID == "" {
		priceID = s.settings.DefaultPriceID
	}

	customer, err := s.GetOrCreateCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, &provider.CheckoutSessionRequest{
		CustomerID: customer.ExternalCustomerID,
		PriceID:    priceID,
		Mode:       mode,
		SuccessURL: s.settings.url(s.settings.SuccessPath),
		CancelURL:  s.settings.url(s.settings.CancelPath),
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// CreatePortalSession returns a billing portal URL for a user who already has a customer
func (s *CheckoutService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if customer == nil {
		return "", domainErrors.ErrCustomerNotFound
	}

	return s.gateway.CreatePortalSession(ctx, customer.ExternalCustomerID, s.settings.url(s.settings.PortalReturnPath))
}

// CancelSubscription schedules cancellation at period end upstream and
// mirrors the flag locally. The webhook that follows confirms the final state.
func (s *CheckoutService) CancelSubscription(ctx context.Context, userID string, confirmed bool) error {
	if !confirmed {
		return domainErrors.ErrCancellationNotConfirmed
	}

	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if customer == nil || !customer.HasSubscription() {
		return domainErrors.ErrNoSubscription
	}

	if err := s.gateway.ScheduleCancellation(ctx, *customer.ExternalSubscriptionID); err != nil {
		return err
	}

	if err := s.customers.SetCancelAtPeriodEnd(ctx, customer.ExternalCustomerID, true); err != nil {
		return err
	}

	s.logger.Info("Subscription cancellation requested",
		zap.String("user_id", userID),
		zap.String("subscription_id", *customer.ExternalSubscriptionID))
	return nil
}
