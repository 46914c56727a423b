package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"go.uber.org/zap"
)

// Gateway implements provider.BillingGateway on top of an injected Stripe API client
type Gateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewGateway creates a gateway with its own API client for the given secret key
func NewGateway(secretKey string, logger *zap.Logger) *Gateway {
	return NewGatewayWithClient(client.New(secretKey, nil), logger)
}

// NewGatewayWithClient creates a gateway around an existing API client
func NewGatewayWithClient(api *client.API, logger *zap.Logger) *Gateway {
	return &Gateway{
		api:    api,
		logger: logger,
	}
}

var _ provider.BillingGateway = (*Gateway)(nil)

func (g *Gateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.Context = ctx

	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", wrapError("create customer", err)
	}

	g.logger.Info("Stripe customer created",
		zap.String("customer_id", c.ID),
		zap.String("email", email))
	return c.ID, nil
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, req *provider.CheckoutSessionRequest) (*provider.CheckoutSession, error) {
	mode := stripe.CheckoutSessionModeSubscription
	if req.Mode == provider.CheckoutModeOneTime {
		mode = stripe.CheckoutSessionModePayment
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(req.CustomerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(mode)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapError("create checkout session", err)
	}

	g.logger.Info("Checkout session created",
		zap.String("session_id", s.ID),
		zap.String("customer_id", req.CustomerID),
		zap.String("mode", string(mode)))
	return &provider.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *Gateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	ps, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", wrapError("create portal session", err)
	}

	g.logger.Info("Portal session created",
		zap.String("portal_session_id", ps.ID),
		zap.String("customer_id", customerID))
	return ps.URL, nil
}

func (g *Gateway) ScheduleCancellation(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return wrapError("schedule cancellation", err)
	}

	g.logger.Info("Subscription cancellation scheduled",
		zap.String("subscription_id", sub.ID),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd))
	return nil
}

func wrapError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &provider.ProviderError{
			Op:      op,
			Code:    string(stripeErr.Code),
			Message: stripeErr.Msg,
			Err:     err,
		}
	}
	return &provider.ProviderError{
		Op:      op,
		Message: fmt.Sprintf("request failed: %v", err),
		Err:     err,
	}
}
