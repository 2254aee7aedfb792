// Package config defines the configuration structures for InsightBoard.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"time"
)

// Dataset source kinds accepted by DatasetConfig.Source.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceMinIO    = "minio"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// WriteRateLimit is the per-client rate, in requests per second, of the
	// refresh and export endpoints.  A negative value disables the limit.
	WriteRateLimit float64 `mapstructure:"write_rate_limit"`
	WriteBurst     int     `mapstructure:"write_burst"`
}

// DatasetConfig selects where the record collection comes from and how the
// derived views page it.
type DatasetConfig struct {
	Source          string        `mapstructure:"source"` // http | file | postgres | minio
	URL             string        `mapstructure:"url"`
	File            string        `mapstructure:"file"`
	Bucket          string        `mapstructure:"bucket"`
	Object          string        `mapstructure:"object"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 fetches once at startup
	PageSizes       []int         `mapstructure:"page_sizes"`
	DefaultPageSize int           `mapstructure:"default_page_size"`
}

// CacheConfig holds Redis parameters for the source payload cache.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Mode         string        `mapstructure:"mode"` // standalone | sentinel | cluster
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TTL          time.Duration `mapstructure:"ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	DBName           string        `mapstructure:"db_name"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// MessagingConfig holds Kafka parameters for dataset events.
type MessagingConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	ConsumerGroup string        `mapstructure:"consumer_group"` // used by insightctl events
	Acks          string        `mapstructure:"acks"`           // none | one | all
	Compression   string        `mapstructure:"compression"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// StorageConfig holds MinIO / S3-compatible object storage parameters.
type StorageConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Region        string        `mapstructure:"region"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	ExportEnabled bool          `mapstructure:"export_enabled"`
	ExportBucket  string        `mapstructure:"export_bucket"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// LogConfig holds logger construction parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root configuration
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// NeedsDatabase reports whether any configured component talks to PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.Dataset.Source == SourcePostgres
}

// NeedsStorage reports whether any configured component talks to MinIO.
func (c *Config) NeedsStorage() bool {
	return c.Dataset.Source == SourceMinIO || c.Storage.ExportEnabled
}

// Validate checks cross-field constraints.  It is called after ApplyDefaults,
// so a zero value here means the operator explicitly cleared a setting.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	// Dataset
	switch c.Dataset.Source {
	case SourceHTTP:
		u, err := url.Parse(c.Dataset.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: dataset.url %q must be an absolute http(s) URL", c.Dataset.URL)
		}
	case SourceFile:
		if c.Dataset.File == "" {
			return fmt.Errorf("config: dataset.file is required when dataset.source is %q", SourceFile)
		}
	case SourceMinIO:
		if c.Dataset.Bucket == "" || c.Dataset.Object == "" {
			return fmt.Errorf("config: dataset.bucket and dataset.object are required when dataset.source is %q", SourceMinIO)
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("config: dataset.source %q is invalid; expected http|file|postgres|minio", c.Dataset.Source)
	}
	if c.Dataset.SlowThreshold <= 0 {
		return fmt.Errorf("config: dataset.slow_threshold must be positive, got %s", c.Dataset.SlowThreshold)
	}
	if c.Dataset.RefreshInterval < 0 {
		return fmt.Errorf("config: dataset.refresh_interval must be ≥ 0, got %s", c.Dataset.RefreshInterval)
	}
	for _, size := range c.Dataset.PageSizes {
		if size <= 0 {
			return fmt.Errorf("config: dataset.page_sizes must be positive, got %d", size)
		}
	}
	if !slices.Contains(c.Dataset.PageSizes, c.Dataset.DefaultPageSize) {
		return fmt.Errorf("config: dataset.default_page_size %d is not one of dataset.page_sizes %v",
			c.Dataset.DefaultPageSize, c.Dataset.PageSizes)
	}

	// Cache
	if c.Cache.Enabled {
		switch c.Cache.Mode {
		case "standalone":
			if c.Cache.Addr == "" {
				return fmt.Errorf("config: cache.addr is required in standalone mode")
			}
		case "sentinel":
			if len(c.Cache.Addrs) == 0 || c.Cache.MasterName == "" {
				return fmt.Errorf("config: cache.addrs and cache.master_name are required in sentinel mode")
			}
		case "cluster":
			if len(c.Cache.Addrs) == 0 {
				return fmt.Errorf("config: cache.addrs is required in cluster mode")
			}
		default:
			return fmt.Errorf("config: cache.mode %q is invalid; expected standalone|sentinel|cluster", c.Cache.Mode)
		}
		if c.Cache.DB < 0 {
			return fmt.Errorf("config: cache.db must be ≥ 0, got %d", c.Cache.DB)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}

	// Database
	if c.NeedsDatabase() {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
	}

	// Messaging
	if c.Messaging.Enabled {
		if len(c.Messaging.Brokers) == 0 {
			return fmt.Errorf("config: messaging.brokers must contain at least one broker address")
		}
		if c.Messaging.Topic == "" {
			return fmt.Errorf("config: messaging.topic is required")
		}
		switch c.Messaging.Acks {
		case "none", "one", "all":
		default:
			return fmt.Errorf("config: messaging.acks %q is invalid; expected none|one|all", c.Messaging.Acks)
		}
	}

	// Storage
	if c.NeedsStorage() {
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("config: storage.endpoint is required")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("config: storage.access_key and storage.secret_key are required")
		}
		if c.Storage.ExportEnabled && c.Storage.ExportBucket == "" {
			return fmt.Errorf("config: storage.export_bucket is required when exports are enabled")
		}
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
