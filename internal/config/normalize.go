package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeGND()
	c.normalizeLookup()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return c.normalizeMetrics()
}

func (c *Config) normalizeGND() {
	c.GND.BaseURL = strings.TrimSpace(c.GND.BaseURL)
	if c.GND.BaseURL == "" {
		if value, ok := os.LookupEnv("GNDFINDER_BASE_URL"); ok {
			c.GND.BaseURL = strings.TrimSpace(value)
		}
	}
	if c.GND.BaseURL == "" {
		c.GND.BaseURL = defaultBaseURL
	}

	// Profession labels are often maintained as one comma-separated string.
	professions := make([]string, 0, len(c.GND.Professions))
	seen := make(map[string]struct{}, len(c.GND.Professions))
	for _, entry := range c.GND.Professions {
		for _, label := range strings.Split(entry, ",") {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			if _, exists := seen[label]; exists {
				continue
			}
			seen[label] = struct{}{}
			professions = append(professions, label)
		}
	}
	c.GND.Professions = professions

	if c.GND.PageSize < 0 {
		c.GND.PageSize = 0
	}
	c.GND.UserAgent = strings.TrimSpace(c.GND.UserAgent)
	if c.GND.UserAgent == "" {
		c.GND.UserAgent = defaultUserAgent
	}
	if c.GND.RequestTimeoutSeconds <= 0 {
		c.GND.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

func (c *Config) normalizeLookup() {
	if c.Lookup.Workers <= 0 {
		c.Lookup.Workers = defaultWorkers
	}
	if c.Lookup.RequestsPerSecond < 0 {
		c.Lookup.RequestsPerSecond = 0
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = defaultCacheTTLHours
	}
	if c.Cache.MemoryTTLSeconds < 0 {
		c.Cache.MemoryTTLSeconds = 0
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}
