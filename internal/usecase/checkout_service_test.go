package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

var testSettings = usecase.CheckoutSettings{
	ClientURL:        "https://app.example.com/",
	DefaultPriceID:   "price_default",
	SuccessPath:      "/account/checkout/success/",
	CancelPath:       "/account/checkout/cancel/",
	PortalReturnPath: "/account/settings/",
}

var testUser = entity.User{
	ID:    testUserID,
	Email: "user@example.com",
	Name:  "Test User",
}

func TestCheckoutService_CreateCheckoutSession(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the customer on first purchase", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		gateway := new(MockBillingGateway)
		service := usecase.NewCheckoutService(customers, gateway, testSettings, zap.NewNop())

		customers.On("GetByUserID", mock.Anything, testUserID).Return(nil, nil)
		gateway.On("CreateCustomer", mock.Anything, "user@example.com", "Test User").Return("cus_new", nil)
		customers.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.BillingCustomer) bool {
			return c.UserID == testUserID && c.ExternalCustomerID == "cus_new" && c.Email == "user@example.com"
		})).Return(nil)
		gateway.On("CreateCheckoutSession", mock.Anything, &provider.CheckoutSessionRequest{
			CustomerID: "cus_new",
			PriceID:    "price_default",
			Mode:       provider.CheckoutModeSubscription,
			SuccessURL: "https://app.example.com/account/checkout/success/",
			CancelURL:  "https://app.example.com/account/checkout/cancel/",
		}).Return(&provider.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"}, nil)

		session, err := service.CreateCheckoutSession(ctx, testUser, "", "")

		require.NoError(t, err)
		assert.Equal(t, "cs_1", session.ID)
		customers.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("reuses an existing customer", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		gateway := new(MockBillingGateway)
		service := usecase.NewCheckoutService(customers, gateway, testSettings, zap.NewNop())

		customers.On("GetByUserID", mock.Anything, testUserID).Return(existingCustomer(), nil)
		gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req *provider.CheckoutSessionRequest) bool {
			return req.CustomerID == testCustomerID && req.PriceID == "price_once" && req.Mode == provider.CheckoutModeOneTime
		})).Return(&provider.CheckoutSession{ID: "cs_2", URL: "https://checkout.stripe.com/cs_2"}, nil)

		session, err := service.CreateCheckoutSession(ctx, testUser, provider.CheckoutModeOneTime, "price_once")

		require.NoError(t, err)
		assert.Equal(t, "cs_2", session.ID)
		gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider failure while creating the customer", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		gateway := new(MockBillingGateway)
		service := usecase.NewCheckoutService(customers, gateway, testSettings, zap.NewNop())

		customers.On("GetByUserID", mock.Anything, testUserID).Return(nil, nil)
		gateway.On("CreateCustomer", mock.Anything, mock.Anything, mock.Anything).
			Return("", &provider.ProviderError{Op: "create customer", Message: "api key invalid"})

		_, err := service.CreateCheckoutSession(ctx, testUser, provider.CheckoutModeSubscription, "")

		var providerErr *provider.ProviderError
		assert.ErrorAs(t, err, &providerErr)
		customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_CreatePortalSession(t *testing.T) {
	ctx := context.Background()

	t.Run("no customer", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		service := usecase.NewCheckoutService(customers, new(MockBillingGateway), testSettings, zap.NewNop())
		customers.On("GetByUserID", mock.Anything, testUserID).Return(nil, nil)

		_, err := service.CreatePortalSession(ctx, testUserID)
		assert.ErrorIs(t, err, domainErrors.ErrCustomerNotFound)
	})

	t.Run("returns the portal url", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		gateway := new(MockBillingGateway)
		service := usecase.NewCheckoutService(customers, gateway, testSettings, zap.NewNop())
		customers.On("GetByUserID", mock.Anything, testUserID).Return(existingCustomer(), nil)
		gateway.On("CreatePortalSession", mock.Anything, testCustomerID, "https://app.example.com/account/settings/").
			Return("https://billing.stripe.com/p/session_1", nil)

		url, err := service.CreatePortalSession(ctx, testUserID)
		require.NoError(t, err)
		assert.Equal(t, "https://billing.stripe.com/p/session_1", url)
	})
}

func TestCheckoutService_CancelSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("requires confirmation", func(t *testing.T) {
		service := usecase.NewCheckoutService(new(MockBillingCustomerRepository), new(MockBillingGateway), testSettings, zap.NewNop())
		err := service.CancelSubscription(ctx, testUserID, false)
		assert.ErrorIs(t, err, domainErrors.ErrCancellationNotConfirmed)
	})

	t.Run("no subscription", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		service := usecase.NewCheckoutService(customers, new(MockBillingGateway), testSettings, zap.NewNop())
		customers.On("GetByUserID", mock.Anything, testUserID).Return(existingCustomer(), nil)

		err := service.CancelSubscription(ctx, testUserID, true)
		assert.ErrorIs(t, err, domainErrors.ErrNoSubscription)
	})

	t.Run("schedules cancellation and sets the local flag", func(t *testing.T) {
		customers := new(MockBillingCustomerRepository)
		gateway := new(MockBillingGateway)
		service := usecase.NewCheckoutService(customers, gateway, testSettings, zap.NewNop())

		subID := "sub_1"
		customer := existingCustomer()
		customer.ExternalSubscriptionID = &subID
		customer.SubscriptionStatus = entity.SubscriptionStatusActive
		customers.On("GetByUserID", mock.Anything, testUserID).Return(customer, nil)
		gateway.On("ScheduleCancellation", mock.Anything, "sub_1").Return(nil)
		customers.On("SetCancelAtPeriodEnd", mock.Anything, testCustomerID, true).Return(nil)

		require.NoError(t, service.CancelSubscription(ctx, testUserID, true))
		gateway.AssertExpectations(t)
		customers.AssertExpectations(t)
	})
}
