package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"gndfinder/internal/config"
	"gndfinder/internal/gnd"
	"gndfinder/internal/logging"
	"gndfinder/internal/lookupcache"
	"gndfinder/internal/metrics"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	cache *lookupcache.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the run logger once and prunes old log files.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		removed, err := logging.PruneLogs(cfg.Logging.Dir, cfg.Logging.RetentionDays, time.Now())
		for _, path := range removed {
			logger.Debug("log pruned", logging.String("path", path), logging.String(logging.FieldEventType, "log_pruned"))
		}
		if err != nil {
			logging.WarnWithContext(logger, "log retention failed; old files remain", "log_retention_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on logging.dir"),
				logging.String(logging.FieldImpact, "old log files stay on disk"),
			)
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// openCache returns the response cache, or nil when caching is disabled.
func (c *commandContext) openCache(logger *slog.Logger, recorder lookupcache.Recorder) (gnd.ResponseCache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.cache == nil {
		store, err := lookupcache.OpenFromConfig(cfg, logger, recorder)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, nil
		}
		c.cache = store
	}
	return c.cache, nil
}

// newClient wires the lookup client with cache and metrics.
func (c *commandContext) newClient(m *metrics.Metrics) (*gnd.Client, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	var recorder lookupcache.Recorder
	var gndRecorder gnd.Recorder
	if m != nil {
		recorder = m
		gndRecorder = m
	}
	cache, err := c.openCache(logger, recorder)
	if err != nil {
		return nil, nil, err
	}
	client, err := gnd.NewFromConfig(cfg, logger, gndRecorder, cache)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

func (c *commandContext) close() {
	if c.cache != nil {
		_ = c.cache.Close()
		c.cache = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
