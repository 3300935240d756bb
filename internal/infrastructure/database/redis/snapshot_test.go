package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

type recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *recorder) RecordSnapshotPublished(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func seededProject(t *testing.T) project.Project {
	t.Helper()
	s := project.NewStore()
	seeded, err := s.Seed(mockdata.SeedProjects()...)
	require.NoError(t, err)
	return seeded[0]
}

func TestSnapshotPublisher_PublishAndLatest(t *testing.T) {
	client, mr := newTestClient(t)
	rec := &recorder{}
	pub := NewSnapshotPublisher(client, logging.NewNopLogger(),
		WithKeyPrefix("test:"), WithTTL(time.Minute), WithRecorder(rec))

	p := seededProject(t)
	require.NoError(t, pub.Publish(context.Background(), project.ChangeStepAdvanced, p))

	assert.True(t, mr.Exists("test:"+p.ID))
	assert.Equal(t, time.Minute, mr.TTL("test:"+p.ID))

	got, err := pub.Latest(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.CurrentStep, got.CurrentStep)
	assert.Equal(t, p.Data.Keys(), got.Data.Keys())

	require.Len(t, rec.errs, 1)
	assert.NoError(t, rec.errs[0])
}

func TestSnapshotPublisher_LatestMiss(t *testing.T) {
	client, _ := newTestClient(t)
	pub := NewSnapshotPublisher(client, nil)

	_, err := pub.Latest(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestSnapshotPublisher_ServerDown(t *testing.T) {
	client, mr := newTestClient(t)
	rec := &recorder{}
	pub := NewSnapshotPublisher(client, nil, WithRecorder(rec))
	mr.Close()

	err := pub.Publish(context.Background(), project.ChangeCreated, seededProject(t))
	assert.True(t, errors.IsServiceUnavailable(err))
	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
}

func TestSnapshotPublisher_WatchReceivesStoreChanges(t *testing.T) {
	client, _ := newTestClient(t)
	pub := NewSnapshotPublisher(client, logging.NewNopLogger(), WithChannel("test:changes"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	notes, err := pub.Watch(ctx)
	require.NoError(t, err)

	store := project.NewStore()
	unsubscribe := store.Subscribe(pub.Listener())
	defer unsubscribe()

	created, err := store.Create(project.CreateInput{Name: "Neem screen"})
	require.NoError(t, err)

	var first Notification
	select {
	case first = <-notes:
	case <-ctx.Done():
		t.Fatal("no notification received")
	}
	assert.Equal(t, project.ChangeCreated, first.Kind)
	assert.Equal(t, created.ID, first.ProjectID)
	assert.Equal(t, project.StatusNew, first.Status)

	cached, err := pub.Latest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Neem screen", cached.Name)
}

func TestSnapshotPublisher_ClosedClient(t *testing.T) {
	client, _ := newTestClient(t)
	pub := NewSnapshotPublisher(client, nil)
	require.NoError(t, client.Close())

	assert.Equal(t, ErrClientClosed, pub.Publish(context.Background(), project.ChangeCreated, seededProject(t)))
	_, err := pub.Watch(context.Background())
	assert.Equal(t, ErrClientClosed, err)
}
