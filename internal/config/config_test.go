package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"gndfinder/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "gndfinder", "logs")
	if cfg.Logging.Dir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Logging.Dir, wantLogDir)
	}
	wantCache := filepath.Join(tempHome, ".cache", "gndfinder", "lookup.db")
	if cfg.Cache.Path != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Cache.Path, wantCache)
	}
	if cfg.GND.BaseURL != config.Default().GND.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.GND.BaseURL)
	}
	if len(cfg.GND.Professions) == 0 || cfg.GND.Professions[0] != "Komponist" {
		t.Fatalf("unexpected default professions: %v", cfg.GND.Professions)
	}
	if cfg.Lookup.MaxAttempts != 3 {
		t.Fatalf("expected 3 attempts by default, got %d", cfg.Lookup.MaxAttempts)
	}
	if cfg.RetryDelay() != time.Second {
		t.Fatalf("expected 1s retry delay, got %s", cfg.RetryDelay())
	}
	if cfg.Lookup.Workers != 1 {
		t.Fatalf("expected sequential lookups by default, got %d workers", cfg.Lookup.Workers)
	}
	if !cfg.Lookup.Resolve {
		t.Fatal("expected resolution enabled by default")
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Logging.Dir); err != nil || !info.IsDir() {
		t.Fatalf("expected log directory %q to exist: %v", cfg.Logging.Dir, err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "gndfinder.toml")

	type payload struct {
		GND struct {
			BaseURL     string   `toml:"base_url"`
			Professions []string `toml:"professions"`
		} `toml:"gnd"`
		Lookup struct {
			MaxAttempts      int  `toml:"max_attempts"`
			RetryDelayMillis int  `toml:"retry_delay_ms"`
			Workers          int  `toml:"workers"`
			Resolve          bool `toml:"resolve"`
		} `toml:"lookup"`
	}
	custom := payload{}
	custom.GND.BaseURL = "https://example.com/gnd/search"
	custom.GND.Professions = []string{"Komponist, Dirigent", " Organist ", "Komponist"}
	custom.Lookup.MaxAttempts = 5
	custom.Lookup.RetryDelayMillis = 250
	custom.Lookup.Workers = 4
	custom.Lookup.Resolve = false
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.GND.BaseURL != "https://example.com/gnd/search" {
		t.Fatalf("expected base url override, got %q", cfg.GND.BaseURL)
	}
	want := []string{"Komponist", "Dirigent", "Organist"}
	if strings.Join(cfg.GND.Professions, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected professions: got %v want %v", cfg.GND.Professions, want)
	}
	if cfg.Lookup.MaxAttempts != 5 || cfg.RetryDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected retry policy: %d attempts, %s delay", cfg.Lookup.MaxAttempts, cfg.RetryDelay())
	}
	if cfg.Lookup.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Lookup.Workers)
	}
	if cfg.Lookup.Resolve {
		t.Fatal("expected resolve override to be false")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[gnd\nbase_url = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "empty base url",
			mutate: func(c *config.Config) { c.GND.BaseURL = "" },
			want:   "gnd.base_url",
		},
		{
			name:   "non http scheme",
			mutate: func(c *config.Config) { c.GND.BaseURL = "ftp://lobid.org/gnd" },
			want:   "http or https",
		},
		{
			name:   "no professions",
			mutate: func(c *config.Config) { c.GND.Professions = nil },
			want:   "gnd.professions",
		},
		{
			name:   "zero attempts",
			mutate: func(c *config.Config) { c.Lookup.MaxAttempts = 0 },
			want:   "lookup.max_attempts",
		},
		{
			name:   "negative delay",
			mutate: func(c *config.Config) { c.Lookup.RetryDelayMillis = -1 },
			want:   "lookup.retry_delay_ms",
		},
		{
			name:   "too many workers",
			mutate: func(c *config.Config) { c.Lookup.Workers = 64 },
			want:   "lookup.workers",
		},
		{
			name:   "bad level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBaseURLFromEnvironment(t *testing.T) {
	t.Setenv("GNDFINDER_BASE_URL", "https://mirror.example.org/gnd/search")
	configPath := filepath.Join(t.TempDir(), "gndfinder.toml")
	if err := os.WriteFile(configPath, []byte("[gnd]\nbase_url = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GND.BaseURL != "https://mirror.example.org/gnd/search" {
		t.Fatalf("expected env base url, got %q", cfg.GND.BaseURL)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.GND.BaseURL != "https://lobid.org/gnd/search" {
		t.Fatalf("unexpected sample base url %q", cfg.GND.BaseURL)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(encoded), "base_url") {
		t.Fatalf("expected encoded config to include base_url, got %s", encoded)
	}
}
