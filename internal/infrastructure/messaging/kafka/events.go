package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// TopicStageCompleted is the default topic of stage events.
const TopicStageCompleted = "docknet.stage.completed"

const (
	schemaVersion = "1"
	eventSource   = "docknet"
)

// EventEnvelope wraps every event written to Kafka.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into an envelope with a fresh event id.
func NewEnvelope(eventType string, payload any) (EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return EventEnvelope{}, errors.Wrap(err, errors.ErrCodeSerialization, "marshal event payload")
	}
	return EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       raw,
	}, nil
}

// StageEventPublisher writes StageCompleted events keyed by project id, so
// one project's events stay ordered within a partition.
type StageEventPublisher struct {
	producer *Producer
	topic    string
}

// NewStageEventPublisher publishes on topic, or TopicStageCompleted when
// topic is empty.
func NewStageEventPublisher(producer *Producer, topic string) *StageEventPublisher {
	if topic == "" {
		topic = TopicStageCompleted
	}
	return &StageEventPublisher{producer: producer, topic: topic}
}

// PublishStageCompleted implements workflow.EventPublisher.
func (s *StageEventPublisher) PublishStageCompleted(ctx context.Context, ev pipeline.StageCompleted) error {
	env, err := NewEnvelope(pipeline.EventStageCompleted, ev)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal event envelope")
	}
	return s.producer.Publish(ctx, Message{
		Topic: s.topic,
		Key:   []byte(ev.ProjectID),
		Value: value,
		Headers: map[string]string{
			"event_type": env.EventType,
			"stage":      string(ev.Stage),
		},
		Time: ev.OccurredAt,
	})
}

// Close closes the underlying producer.
func (s *StageEventPublisher) Close() error { return s.producer.Close() }

// DecodeStageCompleted parses a message value written by
// PublishStageCompleted.
func DecodeStageCompleted(value []byte) (EventEnvelope, pipeline.StageCompleted, error) {
	var env EventEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return env, pipeline.StageCompleted{}, errors.Wrap(err, errors.ErrCodeSerialization, "decode event envelope")
	}
	if env.EventType != pipeline.EventStageCompleted {
		return env, pipeline.StageCompleted{}, errors.Validation("event_type", "unexpected event type "+env.EventType)
	}
	var ev pipeline.StageCompleted
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return env, pipeline.StageCompleted{}, errors.Wrap(err, errors.ErrCodeSerialization, "decode stage event")
	}
	return env, ev, nil
}
