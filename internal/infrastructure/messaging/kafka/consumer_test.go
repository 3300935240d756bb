package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

// mockKafkaReader serves queued messages, then blocks until ctx is done.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	fetchErr  error
	committed []kafka.Message
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if m.fetchErr != nil {
		m.mu.Unlock()
		return kafka.Message{}, m.fetchErr
	}
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	m.committed = append(m.committed, msgs...)
	m.mu.Unlock()
	return nil
}

func (m *mockKafkaReader) Close() error { return nil }

func encodedEvent(t *testing.T, ev pipeline.StageCompleted) kafka.Message {
	t.Helper()
	w := &mockKafkaWriter{}
	require.NoError(t, NewStageEventPublisher(newTestProducer(w), "").PublishStageCompleted(context.Background(), ev))
	return w.written[0]
}

func TestConsumer_Run(t *testing.T) {
	r := &mockKafkaReader{queue: []kafka.Message{
		encodedEvent(t, pipeline.StageCompleted{ProjectID: "p1", Stage: pipeline.StagePlantInput}),
		{Value: []byte("garbage")},
		encodedEvent(t, pipeline.StageCompleted{ProjectID: "p1", Stage: pipeline.StagePhytochemicalReview}),
	}}
	c := NewConsumerWithReader(r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var got []pipeline.StageKey
	err := c.Run(ctx, func(_ context.Context, ev pipeline.StageCompleted) error {
		got = append(got, ev.Stage)
		if len(got) == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []pipeline.StageKey{pipeline.StagePlantInput, pipeline.StagePhytochemicalReview}, got)
	assert.Len(t, r.committed, 3)
}

func TestConsumer_HandlerErrorStopsWithoutCommit(t *testing.T) {
	r := &mockKafkaReader{queue: []kafka.Message{
		encodedEvent(t, pipeline.StageCompleted{ProjectID: "p1", Stage: pipeline.StageAdmet}),
	}}
	c := NewConsumerWithReader(r, nil)

	boom := errors.New("boom")
	err := c.Run(context.Background(), func(context.Context, pipeline.StageCompleted) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.committed)
}

func TestConsumer_FetchError(t *testing.T) {
	c := NewConsumerWithReader(&mockKafkaReader{fetchErr: errors.New("no brokers")}, nil)
	err := c.Run(context.Background(), func(context.Context, pipeline.StageCompleted) error { return nil })
	assert.True(t, apperrors.IsServiceUnavailable(err))
}

func TestConsumer_AlreadyRunning(t *testing.T) {
	c := NewConsumerWithReader(&mockKafkaReader{}, nil)
	c.running.Store(true)
	assert.Equal(t, ErrAlreadyRunning, c.Run(context.Background(), nil))
}

func TestNewConsumer_RequiresBrokers(t *testing.T) {
	_, err := NewConsumer(ConsumerConfig{}, nil)
	assert.True(t, apperrors.IsValidation(err))
}
