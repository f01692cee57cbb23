package gnd

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"gndfinder/internal/config"
)

// NewFromConfig builds a Client from the [gnd] and [lookup] sections.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, recorder Recorder, cache ResponseCache) (*Client, error) {
	var limiter *rate.Limiter
	if rps := cfg.Lookup.RequestsPerSecond; rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return New(Config{
		BaseURL:    cfg.GND.BaseURL,
		UserAgent:  cfg.GND.UserAgent,
		PageSize:   cfg.GND.PageSize,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		Retry: RetryPolicy{
			MaxAttempts: cfg.Lookup.MaxAttempts,
			Delay:       cfg.RetryDelay(),
		},
		Limiter:  limiter,
		Cache:    cache,
		Logger:   logger,
		Recorder: recorder,
	})
}
