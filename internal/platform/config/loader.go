package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables, after loading a .env
// file when one is present, and rejects values that fail Validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

const maxRevealStaggerMs = 3_600_000

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if c.PostgresMaxOpenConns < 1 {
		return fmt.Errorf("invalid POSTGRES_MAX_OPEN_CONNS: %d", c.PostgresMaxOpenConns)
	}
	if c.PostgresMaxIdleConns < 0 || c.PostgresMaxIdleConns > c.PostgresMaxOpenConns {
		return fmt.Errorf("invalid POSTGRES_MAX_IDLE_CONNS: %d (must be 0-%d)", c.PostgresMaxIdleConns, c.PostgresMaxOpenConns)
	}

	if c.GeoEnabled && strings.Count(c.GeoEndpoint, "%s") != 1 {
		return fmt.Errorf("invalid GEO_ENDPOINT: %q (must contain exactly one %%s)", c.GeoEndpoint)
	}
	if c.GeoTimeout <= 0 {
		return fmt.Errorf("invalid GEO_TIMEOUT: %s", c.GeoTimeout)
	}

	if len(c.DashboardJWTSecret) < 16 {
		return fmt.Errorf("DASHBOARD_JWT_SECRET must be at least 16 bytes")
	}

	for name, spec := range map[string]string{
		"DAILY_ROLLUP_CRON": c.DailyRollupCron,
		"VIEW_SWEEP_CRON":   c.ViewSweepCron,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.ViewIdleTimeout <= 0 {
		return fmt.Errorf("invalid VIEW_IDLE_TIMEOUT: %s", c.ViewIdleTimeout)
	}
	if c.RevealStaggerMs < 0 || c.RevealStaggerMs > maxRevealStaggerMs {
		return fmt.Errorf("invalid REVEAL_DEFAULT_STAGGER_MS: %d", c.RevealStaggerMs)
	}

	return nil
}
