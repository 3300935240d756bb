// Package workflow is the application service that walks a project through
// the research pipeline.  It sits between the outer surfaces (HTTP, CLI) and
// the domain: every stage completion is validated here, handed to the
// pipeline controller, and then announced through metrics, logs and the
// optional event publisher.
package workflow

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/domain/screening"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// EventPublisher receives a StageCompleted event after every successful
// stage completion.
type EventPublisher interface {
	PublishStageCompleted(ctx context.Context, ev pipeline.StageCompleted) error
}

// Config tunes the service.
type Config struct {
	// ServiceTimeout bounds each collaborator call; zero leaves the caller's
	// context as the only bound.
	ServiceTimeout time.Duration
	// TargetThreshold is applied when a target prediction request names none.
	TargetThreshold float64
}

// Deps are the collaborators of the service.  Store and the research
// services used by the called operations are required; the rest default to
// no-ops.
type Deps struct {
	Store         *project.Store
	Collaborators research.Collaborators
	Events        EventPublisher
	Artifacts     research.ArtifactStore
	Metrics       *prometheus.AppMetrics
	Logger        logging.Logger
	Clock         func() time.Time
}

// Service implements the pipeline operations.
type Service struct {
	store      *project.Store
	controller *pipeline.Controller
	collab     research.Collaborators
	events     EventPublisher
	artifacts  research.ArtifactStore
	metrics    *prometheus.AppMetrics
	logger     logging.Logger
	now        func() time.Time
	cfg        Config
}

// NewService wires a Service.
func NewService(deps Deps, cfg Config) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.Internal("workflow: project store is required")
	}
	if cfg.TargetThreshold <= 0 || cfg.TargetThreshold > 1 {
		cfg.TargetThreshold = screening.DefaultTargetThreshold
	}
	s := &Service{
		store:      deps.Store,
		controller: pipeline.NewController(deps.Store),
		collab:     deps.Collaborators,
		events:     deps.Events,
		artifacts:  deps.Artifacts,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
		cfg:        cfg,
	}
	if s.metrics == nil {
		s.metrics = prometheus.NewNoopAppMetrics()
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	s.logger = s.logger.Named("workflow")
	if s.now == nil {
		s.now = time.Now
	}
	s.refreshCounts()
	return s, nil
}

// Opened is the result of opening a project: the snapshot, the stage it has
// reached and the stage a "continue" action leads to.
type Opened struct {
	Project project.Project   `json:"project"`
	Stage   pipeline.StageKey `json:"stage"`
	Resume  pipeline.StageKey `json:"resume"`
}

// CreateProject adds a new project and makes it the open one.
func (s *Service) CreateProject(ctx context.Context, in project.CreateInput) (project.Project, error) {
	if err := ctx.Err(); err != nil {
		return project.Project{}, err
	}
	p, err := s.store.Create(in)
	if err != nil {
		return project.Project{}, err
	}
	s.refreshCounts()
	s.logger.Info("Project created",
		logging.ProjectID(p.ID),
		logging.String("name", p.Name),
		logging.Strings("tags", p.Tags),
	)
	return p, nil
}

// OpenProject makes id the open project.
func (s *Service) OpenProject(ctx context.Context, id string) (Opened, error) {
	if err := ctx.Err(); err != nil {
		return Opened{}, err
	}
	p, err := s.store.Open(id)
	if err != nil {
		return Opened{}, err
	}
	return Opened{Project: p, Stage: pipeline.InitialStageFor(p), Resume: pipeline.ResumeStage(p)}, nil
}

// GetProject returns the snapshot of id.
func (s *Service) GetProject(ctx context.Context, id string) (project.Project, error) {
	if err := ctx.Err(); err != nil {
		return project.Project{}, err
	}
	return s.store.Get(id)
}

// CurrentProject returns the open project, if any.
func (s *Service) CurrentProject() (project.Project, bool) {
	return s.store.Current()
}

// ListProjects returns every project in creation order.
func (s *Service) ListProjects(ctx context.Context) ([]project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.List(), nil
}

// Overview returns the stage table of id.
func (s *Service) Overview(ctx context.Context, id string) (pipeline.Overview, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return pipeline.Overview{}, err
	}
	return pipeline.StageStatuses(p), nil
}

// ChooseEntry resolves the entry point fork.  The project is not modified.
func (s *Service) ChooseEntry(ctx context.Context, id string, path pipeline.EntryPath) (pipeline.Transition, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Transition{}, err
	}
	return s.controller.Choose(id, path)
}

// CompleteStage completes any completable stage with a caller-built payload.
// The typed operations below funnel into the same path.
func (s *Service) CompleteStage(ctx context.Context, id string, stage pipeline.StageKey, payload project.StagePayload) (pipeline.Transition, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return pipeline.Transition{}, err
	}
	if err := validateStage(p, stage, payload); err != nil {
		s.recordFailure(id, stage, err)
		return pipeline.Transition{}, err
	}
	return s.complete(ctx, id, stage, payload)
}

// complete runs the controller and the post-completion side effects.
func (s *Service) complete(ctx context.Context, id string, stage pipeline.StageKey, payload project.StagePayload) (pipeline.Transition, error) {
	t, err := s.controller.CompleteStage(id, stage, payload)
	if err != nil {
		s.recordFailure(id, stage, err)
		return pipeline.Transition{}, err
	}

	var want project.Status
	switch {
	case stage == pipeline.StageReports && t.Project.Status != project.StatusCompleted:
		want = project.StatusCompleted
	case t.Project.Status == project.StatusNew:
		want = project.StatusInProgress
	}
	if want != "" {
		if p, err := s.store.SetStatus(id, want); err == nil {
			t.Project = p
		} else {
			s.logger.Warn("Status update failed", logging.ProjectID(id), logging.Err(err))
		}
	}

	s.metrics.RecordStageCompletion(string(stage), string(t.Next))
	s.refreshCounts()
	s.publish(ctx, t)
	s.logger.Info("Stage completed",
		logging.ProjectID(id),
		logging.Stage(string(stage)),
		logging.String("next", string(t.Next)),
		logging.Int("current_step", t.Project.CurrentStep),
	)
	return t, nil
}

func (s *Service) publish(ctx context.Context, t pipeline.Transition) {
	if s.events == nil {
		return
	}
	err := s.events.PublishStageCompleted(ctx, pipeline.EventFor(t, s.now()))
	s.metrics.RecordEventPublished(pipeline.EventStageCompleted, err)
	if err != nil {
		s.logger.Warn("Stage event not published",
			logging.ProjectID(t.Project.ID),
			logging.Stage(string(t.Stage)),
			logging.Err(err),
		)
	}
}

func (s *Service) recordFailure(id string, stage pipeline.StageKey, err error) {
	s.metrics.RecordStageFailure(string(stage), string(errors.GetCode(err)))
	s.logger.Warn("Stage rejected",
		logging.ProjectID(id),
		logging.Stage(string(stage)),
		logging.Err(err),
	)
}

func (s *Service) refreshCounts() {
	counts := s.store.CountByStatus()
	out := make(map[string]int, len(counts))
	for _, st := range project.Statuses() {
		out[string(st)] = counts[st]
	}
	s.metrics.SetProjectCounts(out)
}

// call runs one collaborator request under the service timeout.  Errors
// that are not already application errors are reported as the service
// being unavailable.
func call[T any](ctx context.Context, s *Service, service string, fn func(context.Context) (T, error)) (T, error) {
	if s.cfg.ServiceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ServiceTimeout)
		defer cancel()
	}
	start := time.Now()
	out, err := fn(ctx)
	s.metrics.RecordServiceCall(service, time.Since(start), err)
	logging.LogOperationDuration(s.logger, service, start, time.Second)
	if err == nil {
		return out, nil
	}

	var zero T
	var ae *errors.AppError
	switch {
	case stderrors.As(err, &ae):
	case stderrors.Is(err, context.DeadlineExceeded):
		err = errors.Wrap(err, errors.ErrCodeServiceTimeout, service+" timed out")
	default:
		err = errors.ServiceUnavailable(service, err)
	}
	s.logger.Warn("Collaborator call failed", logging.String("service", service), logging.Err(err))
	return zero, err
}

func missing(service string) error {
	return errors.ServiceUnavailable(service, stderrors.New("not configured"))
}
