package http

import (
	"errors"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	apperrors "github.com/wekeepgrowing/semo-billing/pkg/errors"
	"go.uber.org/zap"
)

// toHTTPError maps domain and provider failures onto API error responses
func toHTTPError(logger *zap.Logger, err error, msg string, fields ...zap.Field) *echo.HTTPError {
	var providerErr *provider.ProviderError

	var appErr error
	switch {
	case errors.Is(err, domainErrors.ErrCustomerNotFound):
		appErr = apperrors.NewAppError(apperrors.ErrNotFound, "billing account not found", err)
	case errors.Is(err, domainErrors.ErrNoSubscription):
		appErr = apperrors.NewAppError(apperrors.ErrNotFound, "no active subscription found", err)
	case errors.Is(err, domainErrors.ErrCancellationNotConfirmed):
		appErr = apperrors.NewAppError(apperrors.ErrInvalidArgument, "please confirm the cancellation", err)
	case errors.As(err, &providerErr):
		appErr = apperrors.NewAppError(apperrors.ErrUpstream, "payment provider request failed", err)
	default:
		appErr = apperrors.Wrap(err, msg)
	}

	httpErr := apperrors.ToHTTPError(appErr)
	if httpErr.Code >= 500 {
		apperrors.LogError(logger, appErr, msg, fields...)
	}
	return httpErr
}
