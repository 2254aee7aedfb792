// Package config provides configuration loading, defaults, and validation for
// InsightBoard.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "INSIGHT"

// newViper builds a Viper instance with the standard settings: YAML file
// type, INSIGHT_ env prefix, automatic env binding and a "." → "_" key
// replacer so that "dataset.url" resolves to INSIGHT_DATASET_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys makes every key known to viper.  AutomaticEnv only applies to
// keys viper has seen, so env-only deployments need this to override
// anything.  Values registered here are the zero-or-default values; the
// remaining defaults are filled by ApplyDefaults after unmarshalling.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.host", "server.port", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout", "server.allowed_origins", "server.write_rate_limit", "server.write_burst",
		"dataset.source", "dataset.url", "dataset.file", "dataset.bucket", "dataset.object",
		"dataset.fetch_timeout", "dataset.slow_threshold", "dataset.refresh_interval",
		"dataset.page_sizes", "dataset.default_page_size",
		"cache.enabled", "cache.mode", "cache.addr", "cache.addrs", "cache.master_name",
		"cache.password", "cache.db", "cache.pool_size", "cache.dial_timeout",
		"cache.read_timeout", "cache.write_timeout", "cache.ttl", "cache.key_prefix",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_open_conns",
		"database.max_idle_conns", "database.conn_max_lifetime", "database.conn_max_idle_time",
		"database.statement_timeout",
		"messaging.enabled", "messaging.brokers", "messaging.topic", "messaging.consumer_group", "messaging.acks",
		"messaging.compression", "messaging.write_timeout",
		"storage.endpoint", "storage.access_key", "storage.secret_key", "storage.region",
		"storage.use_ssl", "storage.export_enabled", "storage.export_bucket", "storage.presign_expiry",
		"metrics.namespace", "metrics.path",
		"log.level", "log.format", "log.output_paths",
	} {
		_ = v.BindEnv(key)
	}
	v.SetDefault("metrics.enabled", true)
}

// Load reads the YAML file at configPath, merges INSIGHT_* environment
// overrides, applies defaults and validates the result.  An empty configPath
// behaves like LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}

	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from INSIGHT_* environment variables alone.
//
//	INSIGHT_<SECTION>_<FIELD>   e.g.  INSIGHT_DATASET_SOURCE, INSIGHT_CACHE_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch re-reads configPath whenever it changes on disk and passes the
// parsed Config to onChange.  Invalid revisions go to onError instead and
// the previous configuration stays in effect.  Callers apply only the
// runtime-safe subset (log level, refresh interval).
//
// Watch is non-blocking; viper owns the fsnotify goroutine.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

//Personal.AI order the ending
