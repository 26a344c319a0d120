// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Sitemap SitemapConfig `mapstructure:"sitemap"`
	BLS     BLSConfig     `mapstructure:"bls"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// DBConfig controls access to the relational database. The pool is capped
// deliberately small: page serving shares the same connection budget.
type DBConfig struct {
	DSN                string `mapstructure:"dsn"`
	MaxConns           int32  `mapstructure:"max_conns"`
	MinConns           int32  `mapstructure:"min_conns"`
	MaxConnLifetimeMin int    `mapstructure:"max_conn_lifetime_minutes"`
	ConnTimeoutSeconds int    `mapstructure:"conn_timeout_seconds"`
}

// IngestConfig governs the ingestion pipeline.
type IngestConfig struct {
	File        string `mapstructure:"file"`
	BatchSize   int    `mapstructure:"batch_size"`
	DryRunLimit int    `mapstructure:"dry_run_limit"`
	DataPeriod  string `mapstructure:"data_period"`
	DataYear    int    `mapstructure:"data_year"`
	SourceURL   string `mapstructure:"source_url"`
}

// SitemapConfig shapes the paginated sitemap output.
type SitemapConfig struct {
	SiteURL         string `mapstructure:"site_url"`
	URLsPerSitemap  int    `mapstructure:"urls_per_sitemap"`
	StaticPageCount int    `mapstructure:"static_page_count"`
}

// BLSConfig configures the upstream data-release freshness check.
type BLSConfig struct {
	TablesURL           string `mapstructure:"tables_url"`
	UserAgent           string `mapstructure:"user_agent"`
	CheckCron           string `mapstructure:"check_cron"`
	RetryAttempts       int    `mapstructure:"retry_attempts"`
	RetryBackoffSeconds int    `mapstructure:"retry_backoff_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALARYSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 30)
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("db.max_conn_lifetime_minutes", 30)
	v.SetDefault("db.conn_timeout_seconds", 30)
	v.SetDefault("ingest.batch_size", 1000)
	v.SetDefault("ingest.dry_run_limit", 100)
	v.SetDefault("ingest.data_period", "May 2024")
	v.SetDefault("ingest.data_year", 2024)
	v.SetDefault("ingest.source_url", "https://www.bls.gov/oes/special.requests/oesm24ma.zip")
	v.SetDefault("sitemap.site_url", "https://salaryscout.dev")
	v.SetDefault("sitemap.urls_per_sitemap", 10000)
	v.SetDefault("sitemap.static_page_count", 3)
	v.SetDefault("bls.tables_url", "https://www.bls.gov/oes/tables.htm")
	v.SetDefault("bls.user_agent", "SalaryScout Data Checker (+https://salaryscout.dev)")
	v.SetDefault("bls.check_cron", "")
	v.SetDefault("bls.retry_attempts", 3)
	v.SetDefault("bls.retry_backoff_seconds", 1)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("db.max_conns must be > 0")
	}
	if c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("db.min_conns must be between 0 and db.max_conns")
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batch_size must be > 0")
	}
	if c.Sitemap.URLsPerSitemap <= 0 {
		return fmt.Errorf("sitemap.urls_per_sitemap must be > 0")
	}
	if c.Sitemap.StaticPageCount < 0 {
		return fmt.Errorf("sitemap.static_page_count must be >= 0")
	}
	if c.BLS.RetryAttempts <= 0 {
		return fmt.Errorf("bls.retry_attempts must be > 0")
	}
	return nil
}

// ConnTimeout converts the connection timeout config into a duration.
func (c Config) ConnTimeout() time.Duration {
	return time.Duration(c.DB.ConnTimeoutSeconds) * time.Second
}

// RetryBackoff converts the retry backoff config into a duration.
func (c Config) RetryBackoff() time.Duration {
	return time.Duration(c.BLS.RetryBackoffSeconds) * time.Second
}
