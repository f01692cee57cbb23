package testsupport

import (
	"path/filepath"
	"testing"

	"gndfinder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Retries are immediate so failing lookups do not slow the suite down.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.GND.BaseURL = "http://127.0.0.1:0/gnd/search"
	cfgVal.Lookup.RetryDelayMillis = 0
	cfgVal.Cache.Path = filepath.Join(base, "cache", "lookup.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Metrics.Textfile = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the lookup client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GND.BaseURL = url
	}
}

// WithProfessions replaces the allowed profession labels.
func WithProfessions(labels ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GND.Professions = append([]string(nil), labels...)
	}
}

// WithCache enables the sqlite response cache inside the temp directory.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithMetricsTextfile enables metrics export into the temp directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "gndfinder.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
