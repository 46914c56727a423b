package config

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	// ClientURL is the public origin used to build redirect URLs
	ClientURL           string         `yaml:"client_url" validate:"required,url"`
	StripeSecretKey     string         `yaml:"stripe_secret_key" validate:"required"`
	StripeWebhookSecret string         `yaml:"stripe_webhook_secret" validate:"required"`
	JWTSecret           string         `yaml:"jwt_secret" validate:"required"`
	Checkout            CheckoutConfig `yaml:"checkout"`
}

type CheckoutConfig struct {
	// DefaultPriceID is used when a checkout request names no price
	DefaultPriceID   string `yaml:"default_price_id" validate:"required"`
	SuccessPath      string `yaml:"success_path"`
	CancelPath       string `yaml:"cancel_path"`
	PortalReturnPath string `yaml:"portal_return_path"`
}
