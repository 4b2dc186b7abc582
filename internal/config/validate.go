package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackend() error {
	switch c.Backend.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("backend.environment must be %q or %q", EnvDevelopment, EnvProduction)
	}

	switch c.Backend.FieldNaming {
	case NamingCurrent, NamingLegacy:
	default:
		return fmt.Errorf("backend.field_naming must be %q or %q", NamingCurrent, NamingLegacy)
	}

	base := c.BaseURL()
	if base == "" {
		return errors.New("backend base url must be set for the selected environment")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("backend base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend base url %q must use http or https", base)
	}
	if parsed.Host == "" {
		return fmt.Errorf("backend base url %q is missing a host", base)
	}

	if c.Backend.RequestTimeout <= 0 {
		return errors.New("backend.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
