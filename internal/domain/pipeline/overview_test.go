package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, pipeline.Progress(0))
	assert.Equal(t, 0, pipeline.Progress(-3))
	assert.Equal(t, 43, pipeline.Progress(7))
	assert.Equal(t, 100, pipeline.Progress(16))
	assert.Equal(t, 100, pipeline.Progress(40))
}

func stateMap(ov pipeline.Overview) map[pipeline.StageKey]pipeline.StageState {
	states := map[pipeline.StageKey]pipeline.StageState{}
	for _, s := range ov.Stages {
		states[s.Key] = s.State
	}
	return states
}

func TestStageStatuses(t *testing.T) {
	ov := pipeline.StageStatuses(project.Project{ID: "p1", CurrentStep: 7, Data: project.Data{
		project.KeyPlantData:   project.PlantInputData{PlantName: "Curcuma longa", PlantPart: "Rhizome"},
		project.KeyCompounds:   project.CompoundListData{{ID: "1", Name: "Curcumin"}},
		project.KeyDescriptors: project.NewDescriptorData([]research.Descriptor{{CompoundID: "1"}}),
		project.KeyAdmet:       project.AdmetData{},
		project.KeyTargets:     project.TargetData{},
	}})

	assert.Equal(t, "p1", ov.ProjectID)
	assert.Equal(t, pipeline.StageTargetPrediction, ov.Reached)
	assert.Equal(t, pipeline.StageDockingSetup, ov.Resume)

	states := stateMap(ov)
	assert.Len(t, ov.Stages, 12)
	assert.Equal(t, pipeline.StateCompleted, states[pipeline.StagePlantInput])
	assert.Equal(t, pipeline.StateCompleted, states[pipeline.StagePhytochemicalReview])
	assert.Equal(t, pipeline.StateSkipped, states[pipeline.StageSmilesUpload])
	assert.Equal(t, pipeline.StateSkipped, states[pipeline.StageToxicophore])
	assert.Equal(t, pipeline.StateCompleted, states[pipeline.StageTargetPrediction])
	assert.Equal(t, pipeline.StateCurrent, states[pipeline.StageDockingSetup])
	assert.Equal(t, pipeline.StateLocked, states[pipeline.StageDockingResults])
	assert.Equal(t, pipeline.StateLocked, states[pipeline.StageReports])
}

func TestStageStatuses_SmilesPathSkipsPlantStages(t *testing.T) {
	ov := pipeline.StageStatuses(project.Project{ID: "p2", CurrentStep: 3, Data: project.Data{
		project.KeyCompounds: project.CompoundListData{{ID: "smi-1", SMILES: "CCO"}},
	}})

	states := stateMap(ov)
	assert.Equal(t, pipeline.StateSkipped, states[pipeline.StagePlantInput])
	assert.Equal(t, pipeline.StateSkipped, states[pipeline.StagePhytochemicalReview])
	assert.Equal(t, pipeline.StateCompleted, states[pipeline.StageSmilesUpload])
	assert.Equal(t, pipeline.StateCurrent, states[pipeline.StageDescriptors])
	assert.Equal(t, pipeline.StateLocked, states[pipeline.StageAdmet])
}

func TestStageStatuses_NewProject(t *testing.T) {
	ov := pipeline.StageStatuses(project.Project{ID: "p"})
	assert.Equal(t, pipeline.StageEntryPoint, ov.Resume)
	assert.Equal(t, 0, ov.Progress)
	for _, s := range ov.Stages {
		assert.Equal(t, pipeline.StateLocked, s.State, s.Key)
	}
}

func TestEventFor(t *testing.T) {
	p := project.Project{ID: "p1", CurrentStep: 5, Status: project.StatusInProgress}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))

	ev := pipeline.EventFor(pipeline.Transition{Project: p, Stage: pipeline.StageDescriptors, Next: pipeline.StageAdmet}, at)
	assert.Equal(t, "p1", ev.ProjectID)
	assert.Equal(t, project.KeyDescriptors, ev.DataKey)
	assert.Equal(t, 5, ev.CurrentStep)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())

	ev = pipeline.EventFor(pipeline.Transition{Project: p, Stage: pipeline.StageReports}, at)
	assert.Empty(t, ev.DataKey)
}
