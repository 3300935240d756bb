package pipeline

import (
	"time"

	"github.com/turtacn/ayush-docknet/internal/domain/project"
)

// EventStageCompleted names the event emitted after every successful
// stage completion.
const EventStageCompleted = "stage.completed"

// StageCompleted describes one successful CompleteStage call.
type StageCompleted struct {
	ProjectID   string          `json:"projectId"`
	Stage       StageKey        `json:"stage"`
	Next        StageKey        `json:"next"`
	CurrentStep int             `json:"currentStep"`
	Status      project.Status  `json:"status"`
	DataKey     project.DataKey `json:"dataKey,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// EventFor builds the StageCompleted event of t.
func EventFor(t Transition, at time.Time) StageCompleted {
	ev := StageCompleted{
		ProjectID:   t.Project.ID,
		Stage:       t.Stage,
		Next:        t.Next,
		CurrentStep: t.Project.CurrentStep,
		Status:      t.Project.Status,
		OccurredAt:  at.UTC(),
	}
	if i, ok := byKey[t.Stage]; ok {
		ev.DataKey = graph[i].DataKey
	}
	return ev
}
