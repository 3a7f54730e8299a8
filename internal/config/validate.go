package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.RegistrationTokenTTL <= 0 {
		return fmt.Errorf("auth.registration_token_ttl must be > 0 (got %v)", c.Auth.RegistrationTokenTTL)
	}

	if err := c.Detection.validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}

	if c.Alerts.StreamPollInterval <= 0 {
		return fmt.Errorf("alerts.stream_poll_interval must be > 0 (got %v)", c.Alerts.StreamPollInterval)
	}

	if c.Export.MaxRows <= 0 {
		return fmt.Errorf("export.max_rows must be > 0 (got %d)", c.Export.MaxRows)
	}

	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be > 0 when enabled (got %d)", c.RateLimit.PerMinute)
	}

	return nil
}

func (d *DetectionConfig) validate() error {
	if d.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %v)", d.SweepInterval)
	}
	return nil
}
