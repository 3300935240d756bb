package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// Notification is the message published on the change channel.
type Notification struct {
	Kind        project.ChangeKind `json:"kind"`
	ProjectID   string             `json:"projectId"`
	Status      project.Status     `json:"status"`
	CurrentStep int                `json:"currentStep"`
}

// SnapshotRecorder receives the outcome of every publish.
type SnapshotRecorder interface {
	RecordSnapshotPublished(err error)
}

// SnapshotPublisher writes each changed project as JSON under
// prefix+projectID and announces the change on a channel.
type SnapshotPublisher struct {
	client   *Client
	logger   logging.Logger
	prefix   string
	channel  string
	ttl      time.Duration
	timeout  time.Duration
	recorder SnapshotRecorder
}

type SnapshotOption func(*SnapshotPublisher)

func WithKeyPrefix(prefix string) SnapshotOption {
	return func(p *SnapshotPublisher) { p.prefix = prefix }
}

func WithChannel(channel string) SnapshotOption {
	return func(p *SnapshotPublisher) { p.channel = channel }
}

// WithTTL sets the snapshot expiry; zero keeps snapshots forever.
func WithTTL(ttl time.Duration) SnapshotOption {
	return func(p *SnapshotPublisher) { p.ttl = ttl }
}

// WithPublishTimeout bounds each publish issued from Listener.
func WithPublishTimeout(d time.Duration) SnapshotOption {
	return func(p *SnapshotPublisher) { p.timeout = d }
}

func WithRecorder(r SnapshotRecorder) SnapshotOption {
	return func(p *SnapshotPublisher) { p.recorder = r }
}

// NewSnapshotPublisher returns a publisher using the "docknet:project:" prefix
// and the "docknet:projects" channel unless overridden.
func NewSnapshotPublisher(client *Client, log logging.Logger, opts ...SnapshotOption) *SnapshotPublisher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &SnapshotPublisher{
		client:  client,
		logger:  log.Named("snapshot"),
		prefix:  "docknet:project:",
		channel: "docknet:projects",
		ttl:     24 * time.Hour,
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SnapshotPublisher) key(id string) string { return p.prefix + id }

// Publish stores the snapshot and publishes the notification in a single
// pipelined round trip.
func (p *SnapshotPublisher) Publish(ctx context.Context, kind project.ChangeKind, proj project.Project) (err error) {
	defer func() {
		if p.recorder != nil {
			p.recorder.RecordSnapshotPublished(err)
		}
	}()

	rdb, err := p.client.rdbOrErr()
	if err != nil {
		return err
	}
	body, err := json.Marshal(proj)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal project snapshot")
	}
	msg, err := json.Marshal(Notification{
		Kind:        kind,
		ProjectID:   proj.ID,
		Status:      proj.Status,
		CurrentStep: proj.CurrentStep,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal notification")
	}

	_, err = rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.key(proj.ID), body, p.ttl)
		pipe.Publish(ctx, p.channel, msg)
		return nil
	})
	if err != nil {
		return errors.ServiceUnavailable(ServiceName, err)
	}
	return nil
}

// Latest returns the cached snapshot of id.
func (p *SnapshotPublisher) Latest(ctx context.Context, id string) (project.Project, error) {
	rdb, err := p.client.rdbOrErr()
	if err != nil {
		return project.Project{}, err
	}
	raw, err := rdb.Get(ctx, p.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return project.Project{}, errors.New(errors.ErrCodeProjectNotFound, "no snapshot cached").WithDetail("id=" + id)
	}
	if err != nil {
		return project.Project{}, errors.ServiceUnavailable(ServiceName, err)
	}
	var proj project.Project
	if err := json.Unmarshal(raw, &proj); err != nil {
		return project.Project{}, errors.Wrap(err, errors.ErrCodeSerialization, "decode project snapshot")
	}
	return proj, nil
}

// Listener adapts Publish to the store's change hook.  Failures are logged
// and never reach the store.
func (p *SnapshotPublisher) Listener() project.Listener {
	return func(ch project.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.Publish(ctx, ch.Kind, ch.Project); err != nil {
			p.logger.Warn("Snapshot publish failed",
				logging.ProjectID(ch.Project.ID),
				logging.String("kind", string(ch.Kind)),
				logging.Err(err),
			)
		}
	}
}

// Watch subscribes to the change channel.  The returned channel closes when
// ctx is done or the subscription fails.
func (p *SnapshotPublisher) Watch(ctx context.Context) (<-chan Notification, error) {
	rdb, err := p.client.rdbOrErr()
	if err != nil {
		return nil, err
	}
	sub := rdb.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.ServiceUnavailable(ServiceName, err)
	}

	out := make(chan Notification)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var n Notification
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					p.logger.Warn("Dropping malformed notification", logging.Err(err))
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
