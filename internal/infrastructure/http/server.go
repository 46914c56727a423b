package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/wekeepgrowing/semo-billing/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-billing/internal/config"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/database"
	stripeProvider "github.com/wekeepgrowing/semo-billing/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"github.com/wekeepgrowing/semo-billing/pkg/logger"
	"github.com/wekeepgrowing/semo-billing/pkg/messaging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// requestValidator adapts go-playground/validator to echo.Validator
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Dependencies are the collaborators the HTTP server wires into its handlers
type Dependencies struct {
	DB        *gorm.DB
	Repos     *database.Repositories
	Gateway   provider.BillingGateway
	Publisher messaging.Publisher
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	deps   Dependencies
}

func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}
	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	s := &Server{
		config: cfg,
		logger: log,
		echo:   e,
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// NewWebhookService wires the reconciliation pipeline used by the webhook endpoint
func NewWebhookService(cfg *config.Config, repos *database.Repositories, publisher messaging.Publisher, log *zap.Logger) *usecase.WebhookService {
	reconciliation := usecase.NewReconciliationService(repos.BillingCustomer, repos.Payment, publisher, log)
	dispatcher := usecase.NewWebhookDispatcher(log)
	reconciliation.RegisterHandlers(dispatcher)

	verifier := stripeProvider.NewWebhookVerifier(cfg.Service.StripeWebhookSecret)
	return usecase.NewWebhookService(verifier, dispatcher, repos.WebhookEvent, log)
}

func (s *Server) setupRoutes() {
	repos := s.deps.Repos

	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		if err := database.Ping(s.deps.DB); err != nil {
			s.logger.Error("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": s.config.Service.Name,
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize services and handlers
	checkoutService := usecase.NewCheckoutService(repos.BillingCustomer, s.deps.Gateway, usecase.CheckoutSettings{
		ClientURL:        s.config.Service.ClientURL,
		DefaultPriceID:   s.config.Service.Checkout.DefaultPriceID,
		SuccessPath:      s.config.Service.Checkout.SuccessPath,
		CancelPath:       s.config.Service.Checkout.CancelPath,
		PortalReturnPath: s.config.Service.Checkout.PortalReturnPath,
	}, s.logger)
	accountService := usecase.NewAccountService(repos.BillingCustomer, repos.Payment, s.logger)

	webhookHandler := handlers.NewWebhookHandler(NewWebhookService(s.config, repos, s.deps.Publisher, s.logger), s.logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, s.logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(checkoutService, s.logger)
	accountHandler := handlers.NewAccountHandler(accountService, s.logger)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Provider redirect landings; the browser arrives here without a token
	v1.GET("/checkout/success", checkoutHandler.CheckoutSuccess)
	v1.GET("/checkout/cancel", checkoutHandler.CheckoutCancel)

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))
	protected.POST("/checkout", checkoutHandler.CreateCheckout)
	protected.POST("/portal", checkoutHandler.CreatePortalSession)
	protected.POST("/subscription/cancel", subscriptionHandler.CancelSubscription)
	protected.GET("/account", accountHandler.GetAccount)
	protected.GET("/payments", accountHandler.ListPayments)

	// Webhook route (outside API versioning and authentication)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
