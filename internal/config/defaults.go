package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultWriteRateLimit        = 1.0
	DefaultWriteBurst            = 5

	DefaultDatasetSource = SourceHTTP
	DefaultDatasetURL    = "https://datavisualization-server.onrender.com/api/data"
	DefaultFetchTimeout  = 60 * time.Second
	DefaultSlowThreshold = 3 * time.Second
	DefaultPageSize      = 10
	DefaultDatasetObject = "dataset.json"

	DefaultCacheMode      = "standalone"
	DefaultCacheAddr      = "localhost:6379"
	DefaultCachePoolSize  = 10
	DefaultCacheTTL       = 5 * time.Minute
	DefaultCacheKeyPrefix = "insight:"

	DefaultDBHost         = "localhost"
	DefaultDBPort         = 5432
	DefaultDBName         = "insightboard"
	DefaultDBSSLMode      = "disable"
	DefaultDBMaxOpenConns = 10
	DefaultDBMaxIdleConns = 5

	DefaultKafkaBroker  = "localhost:9092"
	DefaultEventTopic   = "insightboard.dataset.refreshed"
	DefaultKafkaAcks    = "one"
	DefaultKafkaGroup   = "insightctl"
	DefaultKafkaTimeout = 10 * time.Second

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIORegion   = "us-east-1"
	DefaultExportBucket  = "insightboard-exports"
	DefaultPresignExpiry = time.Hour

	DefaultMetricsNamespace = "insightboard"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultPageSizes mirrors the rows-per-page choices of the dashboard table.
var DefaultPageSizes = []int{5, 10, 25, 50}

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly configured values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.WriteRateLimit == 0 {
		cfg.Server.WriteRateLimit = DefaultWriteRateLimit
	}
	if cfg.Server.WriteBurst == 0 {
		cfg.Server.WriteBurst = DefaultWriteBurst
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	// ── Dataset ───────────────────────────────────────────────────────────────
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = DefaultDatasetSource
	}
	if cfg.Dataset.URL == "" {
		cfg.Dataset.URL = DefaultDatasetURL
	}
	if cfg.Dataset.Object == "" {
		cfg.Dataset.Object = DefaultDatasetObject
	}
	if cfg.Dataset.FetchTimeout == 0 {
		cfg.Dataset.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Dataset.SlowThreshold == 0 {
		cfg.Dataset.SlowThreshold = DefaultSlowThreshold
	}
	if len(cfg.Dataset.PageSizes) == 0 {
		cfg.Dataset.PageSizes = append([]int(nil), DefaultPageSizes...)
	}
	if cfg.Dataset.DefaultPageSize == 0 {
		cfg.Dataset.DefaultPageSize = DefaultPageSize
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = DefaultCacheMode
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.PoolSize == 0 {
		cfg.Cache.PoolSize = DefaultCachePoolSize
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
	}

	// ── Messaging ─────────────────────────────────────────────────────────────
	if len(cfg.Messaging.Brokers) == 0 {
		cfg.Messaging.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Messaging.Topic == "" {
		cfg.Messaging.Topic = DefaultEventTopic
	}
	if cfg.Messaging.ConsumerGroup == "" {
		cfg.Messaging.ConsumerGroup = DefaultKafkaGroup
	}
	if cfg.Messaging.Acks == "" {
		cfg.Messaging.Acks = DefaultKafkaAcks
	}
	if cfg.Messaging.WriteTimeout == 0 {
		cfg.Messaging.WriteTimeout = DefaultKafkaTimeout
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.Endpoint == "" {
		cfg.Storage.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = DefaultMinIORegion
	}
	if cfg.Storage.ExportBucket == "" {
		cfg.Storage.ExportBucket = DefaultExportBucket
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = DefaultPresignExpiry
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
