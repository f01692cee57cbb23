package config

const (
	defaultConfigPath         = "~/.config/gndfinder/config.toml"
	defaultBaseURL            = "https://lobid.org/gnd/search"
	defaultPageSize           = 20
	defaultUserAgent          = "gndfinder/dev"
	defaultRequestTimeout     = 30
	defaultMaxAttempts        = 3
	defaultRetryDelayMillis   = 1000
	defaultWorkers            = 1
	defaultCacheTTLHours      = 24 * 7
	defaultMemoryCacheSeconds = 600
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogDir             = "~/.local/share/gndfinder/logs"
	defaultLogRetentionDays   = 30
	maxWorkers                = 16
)

var defaultProfessions = []string{"Komponist", "Komponistin"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		GND: GND{
			BaseURL:               defaultBaseURL,
			Professions:           append([]string(nil), defaultProfessions...),
			PageSize:              defaultPageSize,
			UserAgent:             defaultUserAgent,
			RequestTimeoutSeconds: defaultRequestTimeout,
		},
		Lookup: Lookup{
			MaxAttempts:      defaultMaxAttempts,
			RetryDelayMillis: defaultRetryDelayMillis,
			Workers:          defaultWorkers,
			Resolve:          true,
		},
		Cache: Cache{
			Enabled:          false,
			Path:             defaultCachePath(),
			TTLHours:         defaultCacheTTLHours,
			MemoryTTLSeconds: defaultMemoryCacheSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			Dir:           defaultLogDir,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
