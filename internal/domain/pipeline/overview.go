package pipeline

import (
	"github.com/turtacn/ayush-docknet/internal/domain/project"
)

// StageState is how a stage appears on the project overview.
type StageState string

const (
	StateCompleted StageState = "completed"
	StateCurrent   StageState = "current"
	StateLocked    StageState = "locked"
	StateSkipped   StageState = "skipped"
)

// StageStatus pairs a progress stage with its state.
type StageStatus struct {
	Key   StageKey   `json:"key"`
	Label string     `json:"label"`
	Step  int        `json:"step"`
	State StageState `json:"state"`
}

// Overview summarises a project's position in the pipeline.
type Overview struct {
	ProjectID   string        `json:"projectId"`
	CurrentStep int           `json:"currentStep"`
	Progress    int           `json:"progress"`
	Reached     StageKey      `json:"reached"`
	Resume      StageKey      `json:"resume"`
	Stages      []StageStatus `json:"stages"`
}

// Progress is currentStep as a percentage of MaxStep, capped at 100.
func Progress(currentStep int) int {
	if currentStep <= 0 {
		return 0
	}
	pct := currentStep * 100 / MaxStep
	if pct > 100 {
		return 100
	}
	return pct
}

// StageStatuses reports every progress stage.  A stage at or below
// currentStep is completed when the project actually went through it and
// skipped otherwise (the other entry branch, or a toxicophore step that was
// not needed).  Above currentStep the resume stage is current and the rest
// are locked.
func StageStatuses(p project.Project) Overview {
	resume := ResumeStage(p)
	stages := ProgressStages()
	ov := Overview{
		ProjectID:   p.ID,
		CurrentStep: p.CurrentStep,
		Progress:    Progress(p.CurrentStep),
		Reached:     InitialStageFor(p),
		Resume:      resume,
		Stages:      make([]StageStatus, 0, len(stages)),
	}
	for _, s := range stages {
		st := StageStatus{Key: s.Key, Label: s.Label, Step: s.Step, State: StateLocked}
		switch {
		case s.Step <= p.CurrentStep && visited(p, s):
			st.State = StateCompleted
		case s.Step <= p.CurrentStep:
			st.State = StateSkipped
		case s.Key == resume:
			st.State = StateCurrent
		}
		ov.Stages = append(ov.Stages, st)
	}
	return ov
}

// visited reports whether p's data shows it went through s.  Stages without a
// data key count as visited once their step is reached.
func visited(p project.Project, s Stage) bool {
	plant := p.Data.Has(project.KeyPlantData)
	switch s.Key {
	case StagePlantInput, StagePhytochemicalReview:
		return plant && p.Data.Has(s.DataKey)
	case StageSmilesUpload:
		return !plant && p.Data.Has(project.KeyCompounds)
	}
	return s.DataKey == "" || p.Data.Has(s.DataKey)
}
