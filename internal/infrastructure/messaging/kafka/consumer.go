package kafka

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers    []string
	GroupID    string
	Topic      string
	FromLatest bool
	MaxWait    time.Duration
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StageHandler processes one decoded stage event.
type StageHandler func(ctx context.Context, ev pipeline.StageCompleted) error

// Consumer tails the stage event topic.
type Consumer struct {
	reader  ReaderInterface
	logger  logging.Logger
	running atomic.Bool
}

// NewConsumer creates a group consumer for cfg.Topic.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.Validation("brokers", "brokers required")
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicStageCompleted
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = time.Second
	}
	rc := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	}
	if cfg.FromLatest {
		rc.StartOffset = kafka.LastOffset
	}
	return NewConsumerWithReader(kafka.NewReader(rc), logger), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Consumer{reader: r, logger: logger}
}

// Run fetches until ctx is done.  Malformed messages are logged and
// committed; a handler error stops the loop without committing.
func (c *Consumer) Run(ctx context.Context, handle StageHandler) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				return nil
			}
			return errors.ServiceUnavailable(ServiceName, err)
		}

		_, ev, err := DecodeStageCompleted(msg.Value)
		if err != nil {
			c.logger.Warn("Skipping undecodable message",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
		} else if err := handle(ctx, ev); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.ServiceUnavailable(ServiceName, err)
		}
	}
}

// Close closes the reader.
func (c *Consumer) Close() error { return c.reader.Close() }
