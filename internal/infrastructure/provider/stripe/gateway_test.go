package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"go.uber.org/zap"
)

// newTestGateway points a Stripe API client at a local handler
func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	api := client.New("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return NewGatewayWithClient(api, zap.NewNop())
}

func TestGateway_CreateCustomer(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/v1/customers", r.URL.Path)
		assert.Equal(t, "user@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "Test User", r.PostForm.Get("name"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_123","object":"customer","email":"user@example.com"}`))
	})

	id, err := gateway.CreateCustomer(context.Background(), "user@example.com", "Test User")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)
}

func TestGateway_CreateCheckoutSession(t *testing.T) {
	tests := []struct {
		name     string
		mode     provider.CheckoutMode
		expected string
	}{
		{name: "subscription", mode: provider.CheckoutModeSubscription, expected: "subscription"},
		{name: "one time", mode: provider.CheckoutModeOneTime, expected: "payment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
				assert.Equal(t, tt.expected, r.PostForm.Get("mode"))
				assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
				assert.Equal(t, "price_A", r.PostForm.Get("line_items[0][price]"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"cs_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_1"}`))
			})

			session, err := gateway.CreateCheckoutSession(context.Background(), &provider.CheckoutSessionRequest{
				CustomerID: "cus_1",
				PriceID:    "price_A",
				Mode:       tt.mode,
				SuccessURL: "https://app.example.com/account/checkout/success/",
				CancelURL:  "https://app.example.com/account/checkout/cancel/",
			})
			require.NoError(t, err)
			assert.Equal(t, "cs_1", session.ID)
			assert.Equal(t, "https://checkout.stripe.com/c/cs_1", session.URL)
		})
	}
}

func TestGateway_ScheduleCancellation(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)
		assert.Equal(t, "true", r.PostForm.Get("cancel_at_period_end"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","cancel_at_period_end":true}`))
	})

	require.NoError(t, gateway.ScheduleCancellation(context.Background(), "sub_1"))
}

func TestGateway_ProviderError(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such customer: 'cus_gone'"}}`))
	})

	_, err := gateway.CreatePortalSession(context.Background(), "cus_gone", "https://app.example.com/account/settings/")
	require.Error(t, err)

	var providerErr *provider.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "create portal session", providerErr.Op)
	assert.Equal(t, "resource_missing", providerErr.Code)
	assert.Contains(t, providerErr.Message, "No such customer")
}
