package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	checkout *usecase.CheckoutService
	logger   *zap.Logger
}

func NewSubscriptionHandler(checkout *usecase.CheckoutService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		checkout: checkout,
		logger:   logger,
	}
}

type CancelSubscriptionRequest struct {
	Confirm bool `json:"confirm"`
}

// CancelSubscription handles POST /api/v1/subscription/cancel
func (h *SubscriptionHandler) CancelSubscription(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	var req CancelSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	if err := h.checkout.CancelSubscription(c.Request().Context(), user.UserID, req.Confirm); err != nil {
		return toHTTPError(h.logger, err, "failed to cancel subscription", zap.String("user_id", user.UserID))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "cancel_scheduled",
		"message": "Your subscription will be canceled at the end of the current billing period.",
	})
}
