// Package bootstrap connects the configured backends and assembles the
// application.  Every backend is optional: when it is disabled the mock or
// no-op implementation takes its place.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/turtacn/ayush-docknet/internal/application/workflow"
	"github.com/turtacn/ayush-docknet/internal/config"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/database/neo4j"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/database/redis"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/export"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/storage/minio"
	"github.com/turtacn/ayush-docknet/internal/interfaces/http/handlers"
)

// Infrastructure holds the connected backends.
type Infrastructure struct {
	Backend       *mockdata.Backend
	Collaborators research.Collaborators
	Events        workflow.EventPublisher // nil when kafka is disabled
	Artifacts     research.ArtifactStore  // nil when minio is disabled
	Snapshots     *redis.SnapshotPublisher
	Checkers      []handlers.HealthChecker

	logger  logging.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func(context.Context) error
}

// Open connects every enabled backend.  On error the backends opened so far
// are closed again.
func Open(ctx context.Context, cfg *config.Config, metrics *prometheus.AppMetrics, logger logging.Logger) (*Infrastructure, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	backend := mockdata.NewBackend(mockdata.WithLatency(cfg.Pipeline.MockLatency))
	infra := &Infrastructure{
		Backend:       backend,
		Collaborators: backend.Collaborators(),
		logger:        logger.Named("bootstrap"),
	}
	infra.Collaborators.Exporter = export.NewExporter()

	if err := infra.openBackends(ctx, cfg, metrics, logger); err != nil {
		infra.Close(context.Background())
		return nil, err
	}
	return infra, nil
}

func (i *Infrastructure) openBackends(ctx context.Context, cfg *config.Config, metrics *prometheus.AppMetrics, logger logging.Logger) error {
	if cfg.Redis.Enabled {
		if err := i.openRedis(cfg.Redis, metrics, logger); err != nil {
			return err
		}
	}
	if cfg.Kafka.Enabled {
		if err := i.openKafka(cfg.Kafka, logger); err != nil {
			return err
		}
	}
	if cfg.MinIO.Enabled {
		if err := i.openMinIO(ctx, cfg.MinIO, logger); err != nil {
			return err
		}
	}
	if cfg.Neo4j.Enabled {
		if err := i.openNeo4j(ctx, cfg.Neo4j, logger); err != nil {
			return err
		}
	}
	if cfg.OpenSearch.Enabled {
		if err := i.openOpenSearch(ctx, cfg.OpenSearch, logger); err != nil {
			return err
		}
	}
	return nil
}

func (i *Infrastructure) onClose(name string, fn func(context.Context) error) {
	i.closers = append(i.closers, namedCloser{name: name, close: fn})
}

func (i *Infrastructure) check(name string, fn func(context.Context) error) {
	i.Checkers = append(i.Checkers, handlers.CheckerFunc{Label: name, Fn: fn})
}

func (i *Infrastructure) openRedis(cfg config.RedisConfig, metrics *prometheus.AppMetrics, logger logging.Logger) error {
	client, err := redis.NewClient(redis.ClientConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	i.onClose("redis", func(context.Context) error { return client.Close() })
	i.check("redis", client.Ping)

	opts := []redis.SnapshotOption{
		redis.WithKeyPrefix(cfg.KeyPrefix),
		redis.WithChannel(cfg.Channel),
		redis.WithTTL(cfg.SnapshotTTL),
	}
	if metrics != nil {
		opts = append(opts, redis.WithRecorder(metrics))
	}
	i.Snapshots = redis.NewSnapshotPublisher(client, logger, opts...)
	return nil
}

func (i *Infrastructure) openKafka(cfg config.KafkaConfig, logger logging.Logger) error {
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Brokers,
		ClientID:     cfg.ClientID,
		RequiredAcks: cfg.RequiredAcks,
		BatchTimeout: cfg.BatchTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	events := kafka.NewStageEventPublisher(producer, cfg.Topic)
	i.onClose("kafka", func(context.Context) error { return events.Close() })
	i.Events = events
	return nil
}

func (i *Infrastructure) openMinIO(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) error {
	client, err := minio.NewClient(ctx, minio.Config{
		Endpoint:      cfg.Endpoint,
		AccessKey:     cfg.AccessKey,
		SecretKey:     cfg.SecretKey,
		UseSSL:        cfg.UseSSL,
		Region:        cfg.Region,
		Bucket:        cfg.Bucket,
		PresignExpiry: cfg.PresignExpiry,
	}, logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	i.onClose("minio", func(context.Context) error { return client.Close() })
	if err := client.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	i.check("minio", client.EnsureBucket)
	i.Artifacts = client
	return nil
}

func (i *Infrastructure) openNeo4j(ctx context.Context, cfg config.Neo4jConfig, logger logging.Logger) error {
	driver, err := neo4j.NewDriver(ctx, neo4j.Config{
		URI:      cfg.URI,
		Username: cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
	}, logger)
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}
	i.onClose("neo4j", driver.Close)
	i.check("neo4j", driver.HealthCheck)
	i.Collaborators.Network = neo4j.NewNetworkService(driver, neo4j.Reference{
		Hits:     mockdata.TargetHits(),
		Hubs:     mockdata.Hubs(),
		Pathways: mockdata.Pathways(),
	}, logger)
	return nil
}

func (i *Infrastructure) openOpenSearch(ctx context.Context, cfg config.OpenSearchConfig, logger logging.Logger) error {
	client, err := opensearch.NewClient(ctx, opensearch.ClientConfig{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}, logger)
	if err != nil {
		return fmt.Errorf("opensearch: %w", err)
	}
	i.check("opensearch", client.Ping)
	i.Collaborators.Phytochemicals = opensearch.NewPhytochemicalIndex(client, cfg.Index, 0, logger)
	return nil
}

// Close releases the backends in reverse order of opening.  Failures are
// logged, never returned.
func (i *Infrastructure) Close(ctx context.Context) {
	if i == nil {
		return
	}
	for k := len(i.closers) - 1; k >= 0; k-- {
		c := i.closers[k]
		if err := c.close(ctx); err != nil {
			i.logger.Warn("Backend close failed", logging.String("backend", c.name), logging.Err(err))
		}
	}
	i.closers = nil
}
