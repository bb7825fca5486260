package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Engine         EngineConfig         `yaml:"engine"`
	Classification ClassificationConfig `yaml:"classification"`
	Logging        LoggingConfig        `yaml:"logging"`
	Metrics        MetricsConfig        `yaml:"metrics"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port               int     `yaml:"port"`
	RequestIPHeader    string  `yaml:"request_ip_header"`
	RateLimitPerSec    float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst     int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds    int     `yaml:"cache_ttl_seconds"`
	ResultCacheSeconds int     `yaml:"result_cache_seconds"`
	MaxBodyBytes       int64   `yaml:"max_body_bytes"`
}

// DatabaseConfig holds the database connection configuration. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Catalog sources.
const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

// CatalogConfig says where catalog snapshots are built from and how often they are rebuilt.
type CatalogConfig struct {
	Source                string        `yaml:"source"`
	Path                  string        `yaml:"path"`
	ReloadIntervalSeconds int           `yaml:"reload_interval_seconds"`
	ReloadInterval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// EngineConfig bounds tree expansion.
type EngineConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// ClassificationConfig overrides the default classification keyword and prefix lists.
type ClassificationConfig struct {
	InternalPrefixes   []string `yaml:"internal_prefixes"`
	ElectronicKeywords []string `yaml:"electronic_keywords"`
	StructuralKeywords []string `yaml:"structural_keywords"`
	BasinCategories    []string `yaml:"basin_categories"`
}

// LoggingConfig selects the zap level and encoding.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Development bool   `yaml:"development"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 5
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 10
	}
	if cfg.Server.ResultCacheSeconds == 0 {
		cfg.Server.ResultCacheSeconds = 300 // negative disables result caching
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = SourceFile
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "./data/catalog.yaml"
	}
	if cfg.Catalog.ReloadIntervalSeconds < 0 {
		cfg.Catalog.ReloadIntervalSeconds = 0
	}
	cfg.Catalog.ReloadInterval = time.Duration(cfg.Catalog.ReloadIntervalSeconds) * time.Second

	if cfg.Engine.MaxDepth <= 0 {
		cfg.Engine.MaxDepth = 64
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case SourceFile:
	case SourceDatabase:
		if c.Database.DSN == "" {
			return fmt.Errorf("catalog.source %q requires database.dsn", c.Catalog.Source)
		}
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}
