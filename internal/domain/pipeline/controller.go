package pipeline

import (
	"fmt"

	"github.com/turtacn/ayush-docknet/internal/domain/project"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

// ProjectStore is the slice of the project store the controller mutates.
type ProjectStore interface {
	Get(id string) (project.Project, error)
	MergeStageData(id string, partial project.Data) (project.Project, error)
	AdvanceStep(id string, step int) (project.Project, error)
}

// Transition is the outcome of completing or choosing a stage.
type Transition struct {
	Project project.Project `json:"project"`
	Stage   StageKey        `json:"stage"`
	Next    StageKey        `json:"next"`
}

// Controller maps "stage completed with payload" onto store commands and
// the next stage to show.
type Controller struct {
	store ProjectStore
}

// NewController returns a Controller over store.
func NewController(store ProjectStore) *Controller {
	return &Controller{store: store}
}

// CompleteStage stores payload under the stage's data key, records the
// stage's step and returns the next stage.  Stages without a data key take a
// nil payload.  On error the project is left unchanged.
func (c *Controller) CompleteStage(projectID string, key StageKey, payload project.StagePayload) (Transition, error) {
	stage, ok := Lookup(key)
	if !ok {
		return Transition{}, apperrors.InvalidStage(fmt.Sprintf("unknown stage %q", key))
	}
	if !stage.Completable() {
		return Transition{}, apperrors.InvalidStage(fmt.Sprintf("stage %q cannot be completed", key))
	}
	if err := checkStagePayload(stage, payload); err != nil {
		return Transition{}, err
	}
	if _, err := c.store.Get(projectID); err != nil {
		return Transition{}, err
	}

	if stage.stores() {
		if _, err := c.store.MergeStageData(projectID, project.Data{stage.DataKey: payload}); err != nil {
			return Transition{}, err
		}
	}
	p, err := c.store.AdvanceStep(projectID, stage.Step)
	if err != nil {
		return Transition{}, err
	}
	return Transition{Project: p, Stage: key, Next: stage.next(payload)}, nil
}

func checkStagePayload(stage Stage, payload project.StagePayload) error {
	if !stage.stores() {
		if payload != nil {
			return apperrors.New(apperrors.ErrCodeStageNotPayload,
				fmt.Sprintf("stage %q stores no data, got %T", stage.Key, payload))
		}
		return nil
	}
	if err := project.CheckPayload(stage.DataKey, payload); err != nil {
		return apperrors.New(apperrors.ErrCodeStageNotPayload,
			fmt.Sprintf("stage %q expects a %s payload", stage.Key, stage.DataKey)).WithCause(err)
	}
	return nil
}

// Choose resolves the entry point fork.  The project is not modified.
func (c *Controller) Choose(projectID string, path EntryPath) (Transition, error) {
	next, err := EntryStage(path)
	if err != nil {
		return Transition{}, err
	}
	p, err := c.store.Get(projectID)
	if err != nil {
		return Transition{}, err
	}
	return Transition{Project: p, Stage: StageEntryPoint, Next: next}, nil
}

// EntryStage maps an entry path to its first stage.
func EntryStage(path EntryPath) (StageKey, error) {
	switch path {
	case PathPlant:
		return StagePlantInput, nil
	case PathSmiles:
		return StageSmilesUpload, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidEntryPath,
		fmt.Sprintf("unknown entry path %q", path))
}

// InitialStageFor returns the stage the project has reached: the entry point
// for a fresh project, otherwise the stage whose step equals currentStep.
// Steps that match no stage fall back to the entry point.
func InitialStageFor(p project.Project) StageKey {
	if p.CurrentStep == 0 {
		return StageEntryPoint
	}
	if k, ok := StageForStep(p.CurrentStep); ok {
		return k
	}
	return StageEntryPoint
}

// ResumeStage returns the stage to continue with: the successor of the stage
// reached, evaluated against the payload that stage stored.
func ResumeStage(p project.Project) StageKey {
	reached := InitialStageFor(p)
	if reached == StageEntryPoint {
		return StageEntryPoint
	}
	return NextStageFor(p, reached)
}

// NextStageFor evaluates key's successor rule against the project's stored
// data.  Non-completable stages return themselves.
func NextStageFor(p project.Project, key StageKey) StageKey {
	stage, ok := Lookup(key)
	if !ok || !stage.Completable() {
		return key
	}
	var payload project.StagePayload
	if stage.stores() {
		payload = p.Data[stage.DataKey]
	}
	return stage.next(payload)
}

// PreviousFor returns the stage a "back" action leads to.  Descriptors go
// back to the SMILES upload when the project has no plant data.
func PreviousFor(p project.Project, key StageKey) StageKey {
	stage, ok := Lookup(key)
	if !ok {
		return StageProjectOverview
	}
	if key == StageDescriptors {
		if _, plant := p.Data.PlantData(); !plant {
			if _, compounds := p.Data.Compounds(); compounds {
				return StageSmilesUpload
			}
		}
	}
	if stage.Previous == "" {
		return StageProjectOverview
	}
	return stage.Previous
}
