// Package config defines the configuration structures for the DockNet
// research pipeline together with loading, defaulting and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PipelineConfig tunes the research workflow and its mock collaborators.
type PipelineConfig struct {
	MockLatency     time.Duration `mapstructure:"mock_latency"`     // artificial delay of the mock services
	ServiceTimeout  time.Duration `mapstructure:"service_timeout"`  // bound on every collaborator call
	TargetThreshold float64       `mapstructure:"target_threshold"` // default minimum target probability
	SeedDemo        bool          `mapstructure:"seed_demo"`        // load the demo projects at startup
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RedisConfig holds connection parameters for the snapshot cache.
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	Channel     string        `mapstructure:"channel"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// KafkaConfig holds producer settings for stage events.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	ClientID     string        `mapstructure:"client_id"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
}

// MinIOConfig holds object storage settings for exported structure files.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// Neo4jConfig holds connection parameters for the interaction graph.
type Neo4jConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URI      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// OpenSearchConfig holds connection parameters for the phytochemical index.
type OpenSearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// PrometheusConfig configures the metrics endpoint.
type PrometheusConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// MonitoringConfig groups observability settings.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Log        logging.LogConfig `mapstructure:"log"`
	Pipeline   PipelineConfig    `mapstructure:"pipeline"`
	RateLimit  RateLimitConfig   `mapstructure:"rate_limit"`
	CORS       CORSConfig        `mapstructure:"cors"`
	Redis      RedisConfig       `mapstructure:"redis"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	MinIO      MinIOConfig       `mapstructure:"minio"`
	Neo4j      Neo4jConfig       `mapstructure:"neo4j"`
	OpenSearch OpenSearchConfig  `mapstructure:"opensearch"`
	Monitoring MonitoringConfig  `mapstructure:"monitoring"`
}

// Validate checks the fully defaulted configuration.  Every error is prefixed
// with "config:".
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q must be debug, release or test", c.Server.Mode)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("config: log.format %q must be json or console", c.Log.Format)
	}
	if c.Pipeline.TargetThreshold < 0 || c.Pipeline.TargetThreshold > 1 {
		return fmt.Errorf("config: pipeline.target_threshold %.2f must be within [0,1]", c.Pipeline.TargetThreshold)
	}
	if c.Pipeline.MockLatency < 0 {
		return fmt.Errorf("config: pipeline.mock_latency must not be negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("config: rate_limit requires positive requests_per_second and burst")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
		}
		if strings.TrimSpace(c.Kafka.Topic) == "" {
			return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
		}
	}
	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("config: minio.endpoint and minio.bucket are required when minio is enabled")
	}
	if c.Neo4j.Enabled && c.Neo4j.URI == "" {
		return fmt.Errorf("config: neo4j.uri is required when neo4j is enabled")
	}
	if c.OpenSearch.Enabled && (len(c.OpenSearch.Addresses) == 0 || c.OpenSearch.Index == "") {
		return fmt.Errorf("config: opensearch.addresses and opensearch.index are required when opensearch is enabled")
	}
	return nil
}
