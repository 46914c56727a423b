package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accounts *usecase.AccountService
	logger   *zap.Logger
}

func NewAccountHandler(accounts *usecase.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// GetAccount handles GET /api/v1/account
func (h *AccountHandler) GetAccount(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	summary, err := h.accounts.GetAccount(c.Request().Context(), user.UserID)
	if err != nil {
		return toHTTPError(h.logger, err, "failed to load account", zap.String("user_id", user.UserID))
	}

	return c.JSON(http.StatusOK, summary)
}

// ListPayments handles GET /api/v1/payments?page=&limit=
func (h *AccountHandler) ListPayments(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	params := entity.PaginationParams{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}

	resp, err := h.accounts.ListPayments(c.Request().Context(), user.UserID, params)
	if err != nil {
		return toHTTPError(h.logger, err, "failed to list payments", zap.String("user_id", user.UserID))
	}

	return c.JSON(http.StatusOK, resp)
}

// queryInt returns 0 for a missing or non-numeric parameter; pagination
// defaults take over from there
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
