package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// AppConfig holds the process settings that are not about the database.
type AppConfig struct {
	Env             string        `env:"APP_ENV,default=development"`
	Port            string        `env:"PORT,default=3000"`
	AssetsDir       string        `env:"ASSETS_DIR,default=../recolour-case"`
	PollInterval    time.Duration `env:"POLL_INTERVAL,default=500ms"`
	WorkDuration    time.Duration `env:"PARTNER_WORK_DURATION,default=2s"`
	FailureRate     float64       `env:"PARTNER_FAILURE_RATE,default=0.2"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=15s"`
	StaleAfter      time.Duration `env:"STALE_AFTER,default=10m"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL,default=30s"`
	// RunWorker embeds the scheduler in the api process. Turn it off when
	// a separate worker process owns dispatch.
	RunWorker bool `env:"RUN_WORKER,default=true"`
	// CORSOrigins lists the browser origins allowed to call the API; "*"
	// allows any, empty disables CORS handling.
	CORSOrigins []string `env:"CORS_ORIGINS,default=*"`
}

// Deterministic reports whether random partner failures must be disabled.
func (c *AppConfig) Deterministic() bool {
	return strings.EqualFold(c.Env, "test")
}

// EffectiveFailureRate is FailureRate, or zero in deterministic mode.
func (c *AppConfig) EffectiveFailureRate() float64 {
	if c.Deterministic() {
		return 0
	}
	return c.FailureRate
}

// to help with testing
var envProcess = envconfig.Process

func LoadAppConfig(ctx context.Context) (*AppConfig, error) {
	var cfg AppConfig
	if err := envProcess(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := validateAppConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateAppConfig(cfg *AppConfig) error {
	var errors []string

	if strings.TrimSpace(cfg.Port) == "" {
		errors = append(errors, "PORT is required")
	}

	if cfg.PollInterval <= 0 {
		errors = append(errors, "POLL_INTERVAL must be positive")
	}

	if cfg.WorkDuration < 0 {
		errors = append(errors, "PARTNER_WORK_DURATION must be non-negative")
	}

	if cfg.FailureRate < 0 || cfg.FailureRate > 1 {
		errors = append(errors, "PARTNER_FAILURE_RATE must be between 0 and 1")
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}

	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, "SHUTDOWN_TIMEOUT must be positive")
	}

	if cfg.StaleAfter <= cfg.WorkDuration {
		errors = append(errors, "STALE_AFTER must exceed PARTNER_WORK_DURATION")
	}

	if cfg.JanitorInterval <= 0 {
		errors = append(errors, "JANITOR_INTERVAL must be positive")
	}

	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errors = append(errors, fmt.Sprintf("CORS_ORIGINS entry %q must be * or start with http:// or https://", origin))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
