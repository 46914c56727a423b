package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes caps the body read from a single delivery
const maxWebhookBodyBytes = 1 << 20

type WebhookHandler struct {
	service *usecase.WebhookService
	logger  *zap.Logger
}

func NewWebhookHandler(service *usecase.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

// HandleWebhook handles POST /webhook.
// Rejected deliveries get a 400 with a generic body; everything else is
// acknowledged with 200 so the provider stops redelivering.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes+1))
	if err != nil || len(body) > maxWebhookBodyBytes {
		h.logger.Warn("Error reading webhook body",
			zap.Int("bytes", len(body)),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid webhook request"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	result, err := h.service.Process(c.Request().Context(), body, sig)
	if err != nil {
		reason := "malformed event"
		switch {
		case errors.Is(err, domainErrors.ErrInvalidPayload):
			reason = "invalid payload"
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			reason = "invalid signature"
		}
		h.logger.Warn("Webhook rejected",
			zap.String("reason", reason),
			zap.String("remote_ip", c.RealIP()),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid webhook request"})
	}

	h.logger.Debug("Webhook acknowledged",
		zap.String("event_id", result.EventID),
		zap.String("event_type", result.EventType),
		zap.String("status", string(result.Status)))

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
