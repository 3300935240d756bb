package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMockLatency     = 1500 * time.Millisecond
	DefaultServiceTimeout  = 30 * time.Second
	DefaultTargetThreshold = 0.7

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisKeyPrefix   = "docknet:project:"
	DefaultRedisChannel     = "docknet:projects"
	DefaultRedisSnapshotTTL = 24 * time.Hour
	DefaultRedisDialTimeout = 5 * time.Second

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopic        = "docknet.stage-events"
	DefaultKafkaClientID     = "docknet"
	DefaultKafkaBatchTimeout = 50 * time.Millisecond
	DefaultKafkaRequiredAcks = -1

	DefaultMinIOEndpoint      = "localhost:9000"
	DefaultMinIOBucket        = "docknet-exports"
	DefaultMinIORegion        = "us-east-1"
	DefaultMinIOPresignExpiry = 15 * time.Minute

	DefaultNeo4jURI      = "neo4j://localhost:7687"
	DefaultNeo4jUser     = "neo4j"
	DefaultNeo4jDatabase = "neo4j"

	DefaultOpenSearchAddress = "http://localhost:9200"
	DefaultOpenSearchIndex   = "phytochemicals"

	DefaultPrometheusNamespace = "docknet"
	DefaultPrometheusPath      = "/metrics"
)

// DefaultCORSOrigins is used when cors.allow_origins is unset.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Default returns a configuration with every field set to its default, the
// way an empty config file would load.
func Default() *Config {
	cfg := &Config{}
	cfg.Pipeline.SeedDemo = true
	cfg.Pipeline.MockLatency = DefaultMockLatency
	cfg.RateLimit.Enabled = true
	cfg.Monitoring.Prometheus.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// already set are left unchanged.  Booleans are never touched here; their
// defaults are registered on the viper instance by registerDefaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
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

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.ServiceTimeout == 0 {
		cfg.Pipeline.ServiceTimeout = DefaultServiceTimeout
	}
	if cfg.Pipeline.TargetThreshold == 0 {
		cfg.Pipeline.TargetThreshold = DefaultTargetThreshold
	}

	// ── Rate limit / CORS ─────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = append([]string(nil), DefaultCORSOrigins...)
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = DefaultRedisChannel
	}
	if cfg.Redis.SnapshotTTL == 0 {
		cfg.Redis.SnapshotTTL = DefaultRedisSnapshotTTL
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}
	if cfg.Kafka.RequiredAcks == 0 {
		cfg.Kafka.RequiredAcks = DefaultKafkaRequiredAcks
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultMinIOPresignExpiry
	}

	// ── Neo4j ─────────────────────────────────────────────────────────────────
	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.User == "" {
		cfg.Neo4j.User = DefaultNeo4jUser
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = DefaultNeo4jDatabase
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddress}
	}
	if cfg.OpenSearch.Index == "" {
		cfg.OpenSearch.Index = DefaultOpenSearchIndex
	}

	// ── Monitoring ────────────────────────────────────────────────────────────
	if cfg.Monitoring.Prometheus.Namespace == "" {
		cfg.Monitoring.Prometheus.Namespace = DefaultPrometheusNamespace
	}
	if cfg.Monitoring.Prometheus.Path == "" {
		cfg.Monitoring.Prometheus.Path = DefaultPrometheusPath
	}
}

// registerDefaults makes every key known to viper.  Without it AutomaticEnv
// cannot resolve DOCKNET_* variables for keys absent from the file.
func registerDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("pipeline.mock_latency", d.Pipeline.MockLatency)
	v.SetDefault("pipeline.service_timeout", d.Pipeline.ServiceTimeout)
	v.SetDefault("pipeline.target_threshold", d.Pipeline.TargetThreshold)
	v.SetDefault("pipeline.seed_demo", d.Pipeline.SeedDemo)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("cors.allow_origins", d.CORS.AllowOrigins)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)
	v.SetDefault("redis.channel", d.Redis.Channel)
	v.SetDefault("redis.snapshot_ttl", d.Redis.SnapshotTTL)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.topic", d.Kafka.Topic)
	v.SetDefault("kafka.client_id", d.Kafka.ClientID)
	v.SetDefault("kafka.batch_timeout", d.Kafka.BatchTimeout)
	v.SetDefault("kafka.required_acks", d.Kafka.RequiredAcks)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", d.MinIO.Endpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", d.MinIO.Bucket)
	v.SetDefault("minio.region", d.MinIO.Region)
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.presign_expiry", d.MinIO.PresignExpiry)

	v.SetDefault("neo4j.enabled", false)
	v.SetDefault("neo4j.uri", d.Neo4j.URI)
	v.SetDefault("neo4j.user", d.Neo4j.User)
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", d.Neo4j.Database)

	v.SetDefault("opensearch.enabled", false)
	v.SetDefault("opensearch.addresses", d.OpenSearch.Addresses)
	v.SetDefault("opensearch.username", "")
	v.SetDefault("opensearch.password", "")
	v.SetDefault("opensearch.index", d.OpenSearch.Index)

	v.SetDefault("monitoring.prometheus.enabled", d.Monitoring.Prometheus.Enabled)
	v.SetDefault("monitoring.prometheus.namespace", d.Monitoring.Prometheus.Namespace)
	v.SetDefault("monitoring.prometheus.path", d.Monitoring.Prometheus.Path)
}
