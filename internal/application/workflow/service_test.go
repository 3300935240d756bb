package workflow

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []pipeline.StageCompleted
	err    error
}

func (p *recordingPublisher) PublishStageCompleted(_ context.Context, ev pipeline.StageCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) stages() []pipeline.StageKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pipeline.StageKey, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Stage)
	}
	return out
}

type mockArtifactStore struct{ mock.Mock }

func (m *mockArtifactStore) Upload(ctx context.Context, a research.Artifact) (research.StoredArtifact, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(research.StoredArtifact), args.Error(1)
}

type fixture struct {
	svc      *Service
	store    *project.Store
	events   *recordingPublisher
	logs     *observer.ObservedLogs
	backend  *mockdata.Backend
	projects string
}

func newFixture(t *testing.T, opts ...mockdata.Option) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	store := project.NewStore()
	backend := mockdata.NewBackend(opts...)
	events := &recordingPublisher{}
	svc, err := NewService(Deps{
		Store:         store,
		Collaborators: backend.Collaborators(),
		Events:        events,
		Logger:        logging.NewLoggerFromCore(core),
		Clock:         func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, Config{ServiceTimeout: time.Second})
	require.NoError(t, err)

	p, err := svc.CreateProject(context.Background(), project.CreateInput{Name: "Turmeric", Tags: []string{"Ayurveda"}})
	require.NoError(t, err)
	return &fixture{svc: svc, store: store, events: events, logs: logs, backend: backend, projects: p.ID}
}

func plantInput() project.PlantInputData {
	return project.PlantInputData{
		PlantName: "Curcuma longa",
		PlantPart: "Rhizome",
		Databases: mockdata.DefaultDatabases(),
	}
}

func TestNewService_RequiresStore(t *testing.T) {
	_, err := NewService(Deps{}, Config{})
	assert.Error(t, err)
}

func TestService_PlantPathWalkthrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.projects

	entry, err := f.svc.ChooseEntry(ctx, id, pipeline.PathPlant)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StagePlantInput, entry.Next)

	tr, err := f.svc.SubmitPlantInput(ctx, id, plantInput())
	require.NoError(t, err)
	assert.Equal(t, pipeline.StagePhytochemicalReview, tr.Next)
	assert.Equal(t, project.StatusInProgress, tr.Project.Status)
	assert.Equal(t, 1, tr.Project.CurrentStep)

	compounds, err := f.svc.LookupPhytochemicals(ctx, id)
	require.NoError(t, err)
	require.Len(t, compounds, 8)

	tr, err = f.svc.ReviewCompounds(ctx, id, compounds)
	require.NoError(t, err)
	stored, _ := tr.Project.Data.Compounds()
	assert.Len(t, stored, 6)

	tr, err = f.svc.AnalyzeDescriptors(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageToxicophore, tr.Next)

	candidates, err := f.svc.SuggestVariants(ctx, id)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	tr, err = f.svc.SubmitSubstitutions(ctx, id, map[string]string{"4": "v2"})
	require.NoError(t, err)
	subs, _ := tr.Project.Data.Substitutions()
	require.Len(t, subs.Substitutions, 1)
	assert.Equal(t, "Turmerone", subs.Substitutions[0].Original)
	assert.Equal(t, pipeline.StageAdmet, tr.Next)

	tr, err = f.svc.RunAdmet(ctx, id, nil)
	require.NoError(t, err)
	admet, _ := tr.Project.Data.Admet()
	assert.Len(t, admet.Results, 3)

	tr, err = f.svc.PredictTargets(ctx, id, 0, nil)
	require.NoError(t, err)
	targets, _ := tr.Project.Data.Targets()
	assert.Len(t, targets.Targets, 8)
	assert.Equal(t, 0.7, targets.Threshold)

	_, err = f.svc.ConfigureDocking(ctx, id, mockdata.DefaultDockingSetup())
	require.NoError(t, err)
	tr, err = f.svc.RunDocking(ctx, id)
	require.NoError(t, err)
	docking, _ := tr.Project.Data.DockingResults()
	require.Len(t, docking.Results, 8)
	assert.Equal(t, -9.2, docking.Results[0].Score)

	_, err = f.svc.ConfigureNetwork(ctx, id, project.NetworkSetupData{
		Compounds: []string{"Curcumin", "Demethoxycurcumin"},
		Targets:   []string{"COX-2", "NF-κB", "TNF-α"},
		Threshold: 0.7,
	})
	require.NoError(t, err)
	graph, err := f.svc.BuildNetwork(ctx, id)
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 6)

	_, err = f.svc.CompleteVisualization(ctx, id)
	require.NoError(t, err)
	tr, err = f.svc.CompleteReports(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageProjectOverview, tr.Next)
	assert.Equal(t, project.StatusCompleted, tr.Project.Status)
	assert.Equal(t, pipeline.MaxStep, tr.Project.CurrentStep)

	assert.Equal(t, []pipeline.StageKey{
		pipeline.StagePlantInput, pipeline.StagePhytochemicalReview, pipeline.StageDescriptors,
		pipeline.StageToxicophore, pipeline.StageAdmet, pipeline.StageTargetPrediction,
		pipeline.StageDockingSetup, pipeline.StageDockingResults, pipeline.StageNetworkSetup,
		pipeline.StageNetworkVisualization, pipeline.StageReports,
	}, f.events.stages())
	assert.Equal(t, 11, f.logs.FilterMessage("Stage completed").Len())

	ov, err := f.svc.Overview(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, ov.Progress)
}

func TestService_SmilesPathBranchesOnToxicity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.svc.UploadSmiles(ctx, f.projects, []research.Compound{
		{SMILES: "CC(=O)Oc1ccccc1C(=O)O"},
		{ID: "x", Name: "Caffeine", SMILES: " CN1C=NC2=C1C(=O)N(C(=O)N2C)C "},
	})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageDescriptors, tr.Next)
	list, _ := tr.Project.Data.Compounds()
	require.Len(t, list, 2)
	assert.Equal(t, "smi-1", list[0].ID)
	assert.Equal(t, "Compound 1", list[0].Name)
	assert.Equal(t, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C", list[1].SMILES)

	tr, err = f.svc.AnalyzeDescriptors(ctx, f.projects)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageToxicophore, tr.Next)
	desc, _ := tr.Project.Data.Descriptors()
	assert.ElementsMatch(t, []string{"4", "9"}, desc.ToxicIDs())

	_, err = f.svc.SubmitSubstitutions(ctx, f.projects, map[string]string{"4": "v1"})
	assert.True(t, errors.IsValidation(err), "every toxic compound needs a variant")

	_, err = f.svc.SubmitSubstitutions(ctx, f.projects, map[string]string{"4": "v1", "9": "v9"})
	assert.True(t, errors.IsValidation(err))

	p, _ := f.svc.GetProject(ctx, f.projects)
	assert.Equal(t, 4, p.CurrentStep)
}

func TestService_ValidationSurfacesBeforeMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitPlantInput(ctx, f.projects, project.PlantInputData{PlantName: "  ", PlantPart: "Leaf"})
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.SubmitPlantInput(ctx, f.projects, project.PlantInputData{PlantName: "Neem"})
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.ReviewCompounds(ctx, f.projects, []research.Compound{{ID: "1", Selected: false}})
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.UploadSmiles(ctx, f.projects, nil)
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.UploadSmiles(ctx, f.projects, []research.Compound{{Name: "blank"}})
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.ConfigureDocking(ctx, f.projects, project.DockingSetupData{Compounds: []string{"1"}, Targets: []string{"COX-2"}})
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.ConfigureNetwork(ctx, f.projects, project.NetworkSetupData{
		Compounds: []string{"a"}, Targets: []string{"b"}, Threshold: 1.5,
	})
	assert.True(t, errors.IsValidation(err))

	p, err := f.svc.GetProject(ctx, f.projects)
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStep)
	assert.Empty(t, p.Data)
	assert.Equal(t, project.StatusNew, p.Status)
	assert.Empty(t, f.events.stages())
}

func TestService_ServiceCallsNeedStoredInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LookupPhytochemicals(ctx, f.projects)
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.AnalyzeDescriptors(ctx, f.projects)
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.DockCompounds(ctx, f.projects)
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.BuildNetwork(ctx, f.projects)
	assert.True(t, errors.IsValidation(err))
	_, err = f.svc.PredictTargetHits(ctx, f.projects, 2)
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.LookupPhytochemicals(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestService_CompleteStageRejectsWrongPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CompleteStage(ctx, f.projects, pipeline.StagePlantInput, project.AdmetData{})
	assert.True(t, errors.IsInvalidStage(err))
	_, err = f.svc.CompleteStage(ctx, f.projects, pipeline.StageKey("nope"), nil)
	assert.True(t, errors.IsInvalidStage(err))
	_, err = f.svc.CompleteStage(ctx, f.projects, pipeline.StageEntryPoint, nil)
	assert.True(t, errors.IsInvalidStage(err))
	assert.Equal(t, 3, f.logs.FilterMessage("Stage rejected").Len())
}

func TestService_CollaboratorUnavailable(t *testing.T) {
	f := newFixture(t, mockdata.WithUnavailable(research.ServicePhytochemicals))
	ctx := context.Background()

	_, err := f.svc.SubmitPlantInput(ctx, f.projects, plantInput())
	require.NoError(t, err)
	_, err = f.svc.LookupPhytochemicals(ctx, f.projects)
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))
	assert.Equal(t, 1, f.logs.FilterMessage("Collaborator call failed").Len())
}

func TestService_ServiceTimeout(t *testing.T) {
	f := newFixture(t, mockdata.WithLatency(time.Hour))
	f.svc.cfg.ServiceTimeout = 10 * time.Millisecond

	_, err := f.svc.SubmitPlantInput(context.Background(), f.projects, plantInput())
	require.NoError(t, err)
	_, err = f.svc.LookupPhytochemicals(context.Background(), f.projects)
	assert.True(t, errors.IsServiceUnavailable(err))
}

func TestService_MissingCollaborator(t *testing.T) {
	store := project.NewStore()
	svc, err := NewService(Deps{Store: store}, Config{})
	require.NoError(t, err)
	p, err := svc.CreateProject(context.Background(), project.CreateInput{Name: "x"})
	require.NoError(t, err)
	_, err = svc.SubmitPlantInput(context.Background(), p.ID, plantInput())
	require.NoError(t, err)

	_, err = svc.LookupPhytochemicals(context.Background(), p.ID)
	assert.True(t, errors.IsServiceUnavailable(err))
}

func TestCall_WrapsForeignErrors(t *testing.T) {
	f := newFixture(t)
	_, err := call(context.Background(), f.svc, "thing", func(context.Context) (int, error) {
		return 0, stderrors.New("boom")
	})
	assert.True(t, errors.IsServiceUnavailable(err))

	_, err = call(context.Background(), f.svc, "thing", func(context.Context) (int, error) {
		return 0, context.DeadlineExceeded
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceTimeout))
}

func TestService_EventFailureDoesNotFailStage(t *testing.T) {
	f := newFixture(t)
	f.events.err = stderrors.New("broker down")

	tr, err := f.svc.SubmitPlantInput(context.Background(), f.projects, plantInput())
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Project.CurrentStep)
	assert.Equal(t, 1, f.logs.FilterMessage("Stage event not published").Len())

	ev := f.events.events[0]
	assert.Equal(t, project.KeyPlantData, ev.DataKey)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ev.OccurredAt)
}

func TestService_OpenProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	opened, err := f.svc.OpenProject(ctx, f.projects)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageEntryPoint, opened.Stage)

	_, err = f.svc.SubmitPlantInput(ctx, f.projects, plantInput())
	require.NoError(t, err)
	opened, err = f.svc.OpenProject(ctx, f.projects)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StagePlantInput, opened.Stage)
	assert.Equal(t, pipeline.StagePhytochemicalReview, opened.Resume)

	cur, ok := f.svc.CurrentProject()
	require.True(t, ok)
	assert.Equal(t, f.projects, cur.ID)

	_, err = f.svc.OpenProject(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	list, err := f.svc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_CreateProjectValidates(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateProject(context.Background(), project.CreateInput{Name: " "})
	assert.True(t, errors.IsValidation(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.svc.CreateProject(ctx, project.CreateInput{Name: "late"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_ExportCompounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ExportCompounds(ctx, f.projects, ExportRequest{Format: "csv"})
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.UploadSmiles(ctx, f.projects, mockdata.SampleUpload())
	require.NoError(t, err)

	out, err := f.svc.ExportCompounds(ctx, f.projects, ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "csv", out.Format)
	assert.Equal(t, 5, out.Compounds)
	assert.Nil(t, out.Artifact)

	_, err = f.svc.ExportCompounds(ctx, f.projects, ExportRequest{Format: "sdf", Upload: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactUpload))

	_, err = f.svc.ExportCompounds(ctx, f.projects, ExportRequest{Format: "pdb"})
	assert.True(t, errors.IsValidation(err))
}

func TestService_ExportCompoundsUpload(t *testing.T) {
	f := newFixture(t)
	store := &mockArtifactStore{}
	f.svc.artifacts = store
	ctx := context.Background()

	_, err := f.svc.UploadSmiles(ctx, f.projects, mockdata.SampleUpload())
	require.NoError(t, err)

	stored := research.StoredArtifact{Bucket: "docknet-exports", Key: "k.sdf", Size: 10, URL: "http://minio/k.sdf"}
	store.On("Upload", mock.Anything, mock.MatchedBy(func(a research.Artifact) bool {
		return a.ProjectID == f.projects && a.Format == "sdf" && a.ContentType == "chemical/x-mdl-sdfile"
	})).Return(stored, nil).Once()

	out, err := f.svc.ExportCompounds(ctx, f.projects, ExportRequest{Format: "SDF", Upload: true})
	require.NoError(t, err)
	require.NotNil(t, out.Artifact)
	assert.Equal(t, "http://minio/k.sdf", out.Artifact.URL)
	store.AssertExpectations(t)

	store.On("Upload", mock.Anything, mock.Anything).
		Return(research.StoredArtifact{}, errors.New(errors.ErrCodeArtifactUpload, "put failed")).Once()
	_, err = f.svc.ExportCompounds(ctx, f.projects, ExportRequest{Format: "csv", Upload: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactUpload))
}
