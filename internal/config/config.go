// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// envPrefix namespaces every variable Load reads.
const envPrefix = "CARDCLAIM_"

const listenOff = "off"

// Config holds the application configuration. Every field has a default, so
// an empty environment reproduces the built-in behavior.
type Config struct {
	AccountsFile  string        `env:"ACCOUNTS_FILE" envDefault:"accounts.txt"`
	CycleInterval time.Duration `env:"CYCLE_INTERVAL" envDefault:"4h10m"`

	API   API   `envPrefix:"API_"`
	Retry Retry `envPrefix:"RETRY_"`

	// ListenAddr is the status API address. The server is off unless an
	// address is configured.
	ListenAddr string     `env:"LISTEN_ADDR" envDefault:"off"`
	DBPath     string     `env:"DB_PATH" envDefault:"cardclaim.db"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// API holds the remote service parameters.
type API struct {
	BaseURL   string        `env:"BASE_URL" envDefault:"https://account.network3.ai"`
	UserAgent string        `env:"USER_AGENT"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// Retry holds the gateway-timeout retry budgets.
type Retry struct {
	MaxAttempts           int           `env:"MAX_ATTEMPTS" envDefault:"10"`
	ActivationMaxAttempts int           `env:"ACTIVATION_MAX_ATTEMPTS" envDefault:"3"`
	Delay                 time.Duration `env:"DELAY" envDefault:"10m"`
}

// DefaultPolicy is the retry policy for login and card listing.
func (r Retry) DefaultPolicy() model.RetryPolicy {
	return model.RetryPolicy{MaxAttempts: r.MaxAttempts, Delay: r.Delay}
}

// ActivationPolicy is the retry policy for card activation.
func (r Retry) ActivationPolicy() model.RetryPolicy {
	return model.RetryPolicy{MaxAttempts: r.ActivationMaxAttempts, Delay: r.Delay}
}

// StatusServerEnabled reports whether the status API should be started.
func (c *Config) StatusServerEnabled() bool {
	return c.ListenAddr != "" && c.ListenAddr != listenOff
}

// Load reads CARDCLAIM_* environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.AccountsFile == "" {
		errs = append(errs, errors.New(envPrefix+"ACCOUNTS_FILE must not be empty"))
	}
	if c.CycleInterval <= 0 {
		errs = append(errs, fmt.Errorf("%sCYCLE_INTERVAL must be positive, got %s", envPrefix, c.CycleInterval))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New(envPrefix+"API_BASE_URL must not be empty"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%sAPI_TIMEOUT must not be negative, got %s", envPrefix, c.API.Timeout))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%sRETRY_MAX_ATTEMPTS must be at least 1, got %d", envPrefix, c.Retry.MaxAttempts))
	}
	if c.Retry.ActivationMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%sRETRY_ACTIVATION_MAX_ATTEMPTS must be at least 1, got %d", envPrefix, c.Retry.ActivationMaxAttempts))
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, fmt.Errorf("%sRETRY_DELAY must not be negative, got %s", envPrefix, c.Retry.Delay))
	}

	return errors.Join(errs...)
}
