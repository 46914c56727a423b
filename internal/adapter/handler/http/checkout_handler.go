package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *usecase.CheckoutService
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout *usecase.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

type CreateCheckoutRequest struct {
	Mode    string `json:"mode" validate:"omitempty,oneof=subscription one_time"`
	PriceID string `json:"price_id" validate:"omitempty,max=255"`
}

type CreateCheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckout handles POST /api/v1/checkout
func (h *CheckoutHandler) CreateCheckout(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	var req CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be subscription or one_time"})
	}

	h.logger.Info("Creating checkout session",
		zap.String("user_id", user.UserID),
		zap.String("mode", req.Mode),
		zap.String("price_id", req.PriceID))

	session, err := h.checkout.CreateCheckoutSession(c.Request().Context(), user.Identity(), provider.CheckoutMode(req.Mode), req.PriceID)
	if err != nil {
		return toHTTPError(h.logger, err, "failed to create checkout session", zap.String("user_id", user.UserID))
	}

	return c.JSON(http.StatusCreated, CreateCheckoutResponse{
		ID:  session.ID,
		URL: session.URL,
	})
}

// CheckoutSuccess handles GET /api/v1/checkout/success.
// Subscription state arrives by webhook, so this only acknowledges the redirect.
func (h *CheckoutHandler) CheckoutSuccess(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Payment successful! Your subscription is now active.",
	})
}

// CheckoutCancel handles GET /api/v1/checkout/cancel
func (h *CheckoutHandler) CheckoutCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "canceled",
		"message": "Payment was canceled. You can try again anytime.",
	})
}

// CreatePortalSession handles POST /api/v1/portal
func (h *CheckoutHandler) CreatePortalSession(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	url, err := h.checkout.CreatePortalSession(c.Request().Context(), user.UserID)
	if err != nil {
		return toHTTPError(h.logger, err, "failed to create portal session", zap.String("user_id", user.UserID))
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
