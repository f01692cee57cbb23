package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGND(); err != nil {
		return err
	}
	if err := c.validateLookup(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGND() error {
	base := strings.TrimSpace(c.GND.BaseURL)
	if base == "" {
		return errors.New("gnd.base_url must be set")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("gnd.base_url is invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("gnd.base_url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("gnd.base_url must include a host")
	}
	if len(c.GND.Professions) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("gnd.professions must list at least one profession label; edit %s (create with 'gndfinder config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLookup() error {
	if c.Lookup.MaxAttempts < 1 {
		return errors.New("lookup.max_attempts must be >= 1")
	}
	if c.Lookup.RetryDelayMillis < 0 {
		return errors.New("lookup.retry_delay_ms must be >= 0")
	}
	if c.Lookup.Workers > maxWorkers {
		return fmt.Errorf("lookup.workers must be <= %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
