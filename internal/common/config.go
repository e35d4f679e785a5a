package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Storage     StorageConfig `toml:"storage"`
	Harvest     HarvestConfig `toml:"harvest"`
	Search      SearchConfig  `toml:"search"`
	Live        LiveConfig    `toml:"live"`
	Transport   TransportConfig `toml:"transport"`
}

// ServerConfig controls the HTTP listener used by the transport layer.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// LoggingConfig configures Arbor-backed structured logging.
type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "text" or "json"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05.000"
}

// StorageConfig configures the SQLite document/FTS store.
type StorageConfig struct {
	SQLite SQLiteConfig `toml:"sqlite"`
}

// SQLiteConfig holds connection and pragma settings for the catalog database.
type SQLiteConfig struct {
	Path            string `toml:"path"`
	Environment     string `toml:"-"` // populated from Config.Environment at load time
	ResetOnStartup  bool   `toml:"reset_on_startup"`
	WALMode         bool   `toml:"wal_mode"`
	BusyTimeoutMS   int    `toml:"busy_timeout_ms"`
	CacheSizeMB     int    `toml:"cache_size_mb"`
}

// HarvestConfig controls the source harvester (C1) and catalog builder (C2).
type HarvestConfig struct {
	SourcesDir  string   `toml:"sources_dir"`  // root directory containing per-library source trees
	CatalogDir  string   `toml:"catalog_dir"`  // where index.json / data_<libid>.json are written
	Extensions  []string `toml:"extensions"`   // not read by the harvester; sources select files by their include/exclude globs
	Schedule    string   `toml:"schedule"`     // cron schedule for periodic re-harvest, empty disables
	FailOnError bool     `toml:"fail_on_error"`
}

// SearchConfig holds result-limit and case-sensitivity settings. The
// scorer (C4) and the search tool do not read it: their result limits are
// fixed in internal/search (default 10, maximum 50).
type SearchConfig struct {
	DefaultLimit            int `toml:"default_limit"`
	MaxLimit                int `toml:"max_limit"`
	CaseSensitiveMultiplier int `toml:"case_sensitive_multiplier"`
	CaseSensitiveMaxCap     int `toml:"case_sensitive_max_cap"`
}

// LiveConfig controls the live source adapters (C5).
// RequestTimeout/CacheTTL/RatePerSecond/Burst are process-wide defaults;
// Sources carries per-adapter overrides (base URL is adapter-specific and
// has no sensible process-wide default).
type LiveConfig struct {
	Enabled        bool               `toml:"enabled"`
	RequestTimeout time.Duration      `toml:"request_timeout"`
	CacheTTL       time.Duration      `toml:"cache_ttl"`
	RatePerSecond  float64            `toml:"rate_per_second"`
	Burst          int                `toml:"burst"`
	Sources        []LiveSourceConfig `toml:"sources"`
}

// LiveSourceConfig is one named live adapter's endpoint and pacing
// overrides, keyed by Name against the adapter names each constructor
// defaults to ("community", "community-articles", "sap-help",
// "abap-feature-matrix").
type LiveSourceConfig struct {
	Name           string        `toml:"name"`
	BaseURL        string        `toml:"base_url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	CacheTTL       time.Duration `toml:"cache_ttl"`
	RatePerSecond  float64       `toml:"rate_per_second"`
	Burst          int           `toml:"burst"`
}

// TransportConfig controls the session/transport layer (C8).
type TransportConfig struct {
	SessionSweepInterval time.Duration `toml:"session_sweep_interval"`
	SessionIdleTimeout   time.Duration `toml:"session_idle_timeout"`
	EventLogRetention    int           `toml:"event_log_retention"` // events retained per stream for Last-Event-Id replay
	RequestDeadline      time.Duration `toml:"request_deadline"`
}

// NewDefaultConfig returns baseline configuration values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8585,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05.000",
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				Path:          "./data/catalog.db",
				WALMode:       true,
				BusyTimeoutMS: 5000,
				CacheSizeMB:   64,
			},
		},
		Harvest: HarvestConfig{
			SourcesDir:  "./sources",
			CatalogDir:  "./data/catalog",
			Extensions:  []string{".md", ".mdx"},
			Schedule:    "0 0 */6 * * *",
			FailOnError: false,
		},
		Search: SearchConfig{
			DefaultLimit:            20,
			MaxLimit:                200,
			CaseSensitiveMultiplier: 3,
			CaseSensitiveMaxCap:     1000,
		},
		Live: LiveConfig{
			Enabled:        true,
			RequestTimeout: 8 * time.Second,
			CacheTTL:       15 * time.Minute,
			RatePerSecond:  2,
			Burst:          4,
			Sources: []LiveSourceConfig{
				{Name: "community", BaseURL: "https://community.sap.com/api"},
				{Name: "community-articles", BaseURL: "https://community.sap.com/api/articles", CacheTTL: 24 * time.Hour},
				{Name: "sap-help", BaseURL: "https://help.sap.com/api"},
				{Name: "abap-feature-matrix", BaseURL: "https://help.sap.com/abap-feature-matrix"},
			},
		},
		Transport: TransportConfig{
			SessionSweepInterval: 1 * time.Minute,
			SessionIdleTimeout:   30 * time.Minute,
			EventLogRetention:    100,
			RequestDeadline:      25 * time.Second,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> environment.
// An empty path skips the file layer and returns defaults plus env overrides.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	config.Storage.SQLite.Environment = config.Environment

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Environment variables take priority over file configuration and defaults.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DOCSEARCH_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("DOCSEARCH_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DOCSEARCH_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("DOCSEARCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DOCSEARCH_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("DOCSEARCH_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if sqlitePath := os.Getenv("DOCSEARCH_SQLITE_PATH"); sqlitePath != "" {
		config.Storage.SQLite.Path = sqlitePath
	}

	if sourcesDir := os.Getenv("DOCSEARCH_SOURCES_DIR"); sourcesDir != "" {
		config.Harvest.SourcesDir = sourcesDir
	}
	if catalogDir := os.Getenv("DOCSEARCH_CATALOG_DIR"); catalogDir != "" {
		config.Harvest.CatalogDir = catalogDir
	}
	if schedule := os.Getenv("DOCSEARCH_HARVEST_SCHEDULE"); schedule != "" {
		config.Harvest.Schedule = schedule
	}

	if defaultLimit := os.Getenv("DOCSEARCH_SEARCH_DEFAULT_LIMIT"); defaultLimit != "" {
		if dl, err := strconv.Atoi(defaultLimit); err == nil {
			config.Search.DefaultLimit = dl
		}
	}
	if maxLimit := os.Getenv("DOCSEARCH_SEARCH_MAX_LIMIT"); maxLimit != "" {
		if ml, err := strconv.Atoi(maxLimit); err == nil {
			config.Search.MaxLimit = ml
		}
	}
	if caseSensitiveMultiplier := os.Getenv("DOCSEARCH_SEARCH_CASE_SENSITIVE_MULTIPLIER"); caseSensitiveMultiplier != "" {
		if csm, err := strconv.Atoi(caseSensitiveMultiplier); err == nil {
			config.Search.CaseSensitiveMultiplier = csm
		}
	}

	if liveEnabled := os.Getenv("DOCSEARCH_LIVE_ENABLED"); liveEnabled != "" {
		if le, err := strconv.ParseBool(liveEnabled); err == nil {
			config.Live.Enabled = le
		}
	}
	if requestTimeout := os.Getenv("DOCSEARCH_LIVE_REQUEST_TIMEOUT"); requestTimeout != "" {
		if rt, err := time.ParseDuration(requestTimeout); err == nil {
			config.Live.RequestTimeout = rt
		}
	}
	if cacheTTL := os.Getenv("DOCSEARCH_LIVE_CACHE_TTL"); cacheTTL != "" {
		if ct, err := time.ParseDuration(cacheTTL); err == nil {
			config.Live.CacheTTL = ct
		}
	}

	if sweepInterval := os.Getenv("DOCSEARCH_TRANSPORT_SESSION_SWEEP_INTERVAL"); sweepInterval != "" {
		if si, err := time.ParseDuration(sweepInterval); err == nil {
			config.Transport.SessionSweepInterval = si
		}
	}
	if retention := os.Getenv("DOCSEARCH_TRANSPORT_EVENT_LOG_RETENTION"); retention != "" {
		if r, err := strconv.Atoi(retention); err == nil {
			config.Transport.EventLogRetention = r
		}
	}
}
