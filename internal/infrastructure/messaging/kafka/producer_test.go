package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	written   []kafka.Message
	closed    int
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed++
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats { return kafka.WriterStats{} }

func newTestProducer(w WriterInterface) *Producer {
	return NewProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}}, nil)
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))
	assert.True(t, apperrors.IsValidation(ValidateProducerConfig(ProducerConfig{})))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}, MaxRetries: -1}))
}

func TestNewProducer_DoesNotDial(t *testing.T) {
	p, err := NewProducer(ProducerConfig{Brokers: []string{"localhost:1"}, RequiredAcks: -1}, nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestPublish_Success(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), Message{
		Topic:   "t",
		Key:     []byte("k"),
		Value:   []byte("v"),
		Headers: map[string]string{"h": "1"},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "t", w.written[0].Topic)
	assert.Equal(t, []kafka.Header{{Key: "h", Value: []byte("1")}}, w.written[0].Headers)
	assert.False(t, w.written[0].Time.IsZero())
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.True(t, apperrors.IsValidation(p.Publish(ctx, Message{Value: []byte("v")})))
	assert.True(t, apperrors.IsValidation(p.Publish(ctx, Message{Topic: "t"})))
	big := make([]byte, 2*1024*1024)
	assert.True(t, apperrors.IsValidation(p.Publish(ctx, Message{Topic: "t", Value: big})))
}

func TestPublish_WriterError(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return errors.New("broker down")
	}}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), Message{Topic: "t", Value: []byte("v")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEventPublish))
	assert.Equal(t, int64(1), p.Failed())
}

func TestProducer_Close(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)
	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), Message{Topic: "t", Value: []byte("v")}))
}

func TestStageEventPublisher_RoundTrip(t *testing.T) {
	w := &mockKafkaWriter{}
	pub := NewStageEventPublisher(newTestProducer(w), "")

	ev := pipeline.StageCompleted{
		ProjectID:   "p1",
		Stage:       pipeline.StageAdmet,
		Next:        pipeline.StageTargetPrediction,
		CurrentStep: 6,
		Status:      project.StatusInProgress,
		DataKey:     project.KeyAdmet,
		OccurredAt:  time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishStageCompleted(context.Background(), ev))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, TopicStageCompleted, msg.Topic)
	assert.Equal(t, []byte("p1"), msg.Key)
	assert.Equal(t, ev.OccurredAt, msg.Time)

	env, got, err := DecodeStageCompleted(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, pipeline.EventStageCompleted, env.EventType)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, ev, got)
}

func TestDecodeStageCompleted_Errors(t *testing.T) {
	_, _, err := DecodeStageCompleted([]byte("{"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))

	env, err := NewEnvelope("other", map[string]string{})
	require.NoError(t, err)
	raw, _ := json.Marshal(env)
	_, _, err = DecodeStageCompleted(raw)
	assert.True(t, apperrors.IsValidation(err))
}
