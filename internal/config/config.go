package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/wekeepgrowing/semo-billing/pkg/config"
	"github.com/wekeepgrowing/semo-billing/pkg/logger"
	"github.com/wekeepgrowing/semo-billing/pkg/messaging"
)

const serviceName = "billing"

// Keys that may be supplied only through the environment (BILLING_ prefix).
var envOnlyKeys = []string{
	"service.stripe_secret_key",
	"service.stripe_webhook_secret",
	"service.jwt_secret",
	"database.password",
	"redis.password",
}

type Config struct {
	Service  ServiceConfig         `yaml:"service"`
	Database DatabaseConfig        `yaml:"database"`
	Server   ServerConfig          `yaml:"server"`
	Log      logger.Config         `yaml:"log"`
	Redis    messaging.RedisConfig `yaml:"redis"`
}

func LoadConfig() (*Config, error) {
	loaded, err := config.Load(serviceName, envOnlyKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := loaded.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config (%s): %w", loaded.ConfigFile(), err)
	}

	return &cfg, nil
}

// Validate checks required settings using the struct's validate tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func (c *Config) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = serviceName
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Server.HTTP.Port == 0 {
		c.Server.HTTP.Port = 8080
	}
	if c.Service.Checkout.SuccessPath == "" {
		c.Service.Checkout.SuccessPath = "/account/checkout/success/"
	}
	if c.Service.Checkout.CancelPath == "" {
		c.Service.Checkout.CancelPath = "/account/checkout/cancel/"
	}
	if c.Service.Checkout.PortalReturnPath == "" {
		c.Service.Checkout.PortalReturnPath = "/account/settings/"
	}
}
