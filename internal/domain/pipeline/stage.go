// Package pipeline drives a project through the research stages.  One ordered
// stage graph is authoritative: forward navigation, the data key each stage
// writes, the progress step it records and the step-to-stage lookup are all
// derived from it.
package pipeline

import (
	"github.com/turtacn/ayush-docknet/internal/domain/project"
)

// StageKey identifies a pipeline stage.
type StageKey string

const (
	StageEntryPoint           StageKey = "entry-point"
	StagePlantInput           StageKey = "plant-input"
	StagePhytochemicalReview  StageKey = "phytochemical-review"
	StageSmilesUpload         StageKey = "smiles-upload"
	StageDescriptors          StageKey = "descriptors"
	StageToxicophore          StageKey = "toxicophore-substitution"
	StageAdmet                StageKey = "admet"
	StageTargetPrediction     StageKey = "target-prediction"
	StageDockingSetup         StageKey = "docking-setup"
	StageDockingResults       StageKey = "docking-results"
	StageNetworkSetup         StageKey = "network-setup"
	StageNetworkVisualization StageKey = "network-visualization"
	StageReports              StageKey = "reports"
	StageProjectOverview      StageKey = "project-overview"
)

// EntryPath is the user's choice at the entry point.
type EntryPath string

const (
	PathPlant  EntryPath = "plant"
	PathSmiles EntryPath = "smiles"
)

// MaxStep is the step recorded when the final stage completes.
const MaxStep = 16

// Stage describes one node of the graph.  DataKey is empty for stages that
// store nothing and Step is zero for stages that record no progress.
type Stage struct {
	Key      StageKey        `json:"key"`
	Label    string          `json:"label"`
	Previous StageKey        `json:"previous,omitempty"`
	DataKey  project.DataKey `json:"dataKey,omitempty"`
	Step     int             `json:"step,omitempty"`
	// Branches lists every stage the successor rule can yield.
	Branches []StageKey `json:"next"`

	next func(project.StagePayload) StageKey
}

// Completable reports whether CompleteStage accepts this stage.
func (s Stage) Completable() bool { return s.next != nil }

// Terminal reports whether the stage has no successor.
func (s Stage) Terminal() bool { return len(s.Branches) == 0 }

// stores reports whether the stage writes to the data bag.
func (s Stage) stores() bool { return s.DataKey != "" }

func fixed(to StageKey) func(project.StagePayload) StageKey {
	return func(project.StagePayload) StageKey { return to }
}

func afterDescriptors(p project.StagePayload) StageKey {
	if d, ok := p.(project.DescriptorData); ok && d.HasToxic() {
		return StageToxicophore
	}
	return StageAdmet
}

// graph is the pipeline in walk order.
var graph = []Stage{
	{
		Key:      StageEntryPoint,
		Label:    "Choose Entry Point",
		Previous: StageProjectOverview,
		Branches: []StageKey{StagePlantInput, StageSmilesUpload},
	},
	{
		Key: StagePlantInput, Label: "Plant Input", Previous: StageEntryPoint,
		DataKey: project.KeyPlantData, Step: 1,
		Branches: []StageKey{StagePhytochemicalReview}, next: fixed(StagePhytochemicalReview),
	},
	{
		Key: StagePhytochemicalReview, Label: "Phytochemical Review", Previous: StagePlantInput,
		DataKey: project.KeyCompounds, Step: 2,
		Branches: []StageKey{StageDescriptors}, next: fixed(StageDescriptors),
	},
	{
		Key: StageSmilesUpload, Label: "SMILES Upload", Previous: StageEntryPoint,
		DataKey: project.KeyCompounds, Step: 3,
		Branches: []StageKey{StageDescriptors}, next: fixed(StageDescriptors),
	},
	{
		Key: StageDescriptors, Label: "Descriptors & Toxicity", Previous: StagePhytochemicalReview,
		DataKey: project.KeyDescriptors, Step: 4,
		Branches: []StageKey{StageToxicophore, StageAdmet}, next: afterDescriptors,
	},
	{
		Key: StageToxicophore, Label: "Toxicophore Substitution", Previous: StageDescriptors,
		DataKey: project.KeySubstitutions, Step: 5,
		Branches: []StageKey{StageAdmet}, next: fixed(StageAdmet),
	},
	{
		Key: StageAdmet, Label: "ADMET Prediction", Previous: StageDescriptors,
		DataKey: project.KeyAdmet, Step: 6,
		Branches: []StageKey{StageTargetPrediction}, next: fixed(StageTargetPrediction),
	},
	{
		Key: StageTargetPrediction, Label: "Target Prediction", Previous: StageAdmet,
		DataKey: project.KeyTargets, Step: 7,
		Branches: []StageKey{StageDockingSetup}, next: fixed(StageDockingSetup),
	},
	{
		Key: StageDockingSetup, Label: "Docking Setup", Previous: StageTargetPrediction,
		DataKey: project.KeyDockingSetup, Step: 8,
		Branches: []StageKey{StageDockingResults}, next: fixed(StageDockingResults),
	},
	{
		Key: StageDockingResults, Label: "Docking Results", Previous: StageDockingSetup,
		DataKey: project.KeyDockingResults, Step: 9,
		Branches: []StageKey{StageNetworkSetup}, next: fixed(StageNetworkSetup),
	},
	{
		Key: StageNetworkSetup, Label: "Network Setup", Previous: StageDockingResults,
		DataKey: project.KeyNetworkSetup, Step: 10,
		Branches: []StageKey{StageNetworkVisualization}, next: fixed(StageNetworkVisualization),
	},
	{
		Key: StageNetworkVisualization, Label: "Network Visualization", Previous: StageNetworkSetup,
		Step: 11,
		Branches: []StageKey{StageReports}, next: fixed(StageReports),
	},
	{
		Key: StageReports, Label: "Reports & Exports", Previous: StageNetworkVisualization,
		Step: MaxStep,
		Branches: []StageKey{StageProjectOverview}, next: fixed(StageProjectOverview),
	},
	{
		Key:   StageProjectOverview,
		Label: "Project Overview",
	},
}

var (
	byKey  = make(map[StageKey]int, len(graph))
	byStep = make(map[int]StageKey, len(graph))
)

func init() {
	for i, s := range graph {
		byKey[s.Key] = i
		if s.Step > 0 {
			if _, dup := byStep[s.Step]; dup {
				panic("pipeline: duplicate step at " + string(s.Key))
			}
			byStep[s.Step] = s.Key
		}
	}
}

// Stages returns a copy of the graph in walk order.
func Stages() []Stage {
	out := make([]Stage, len(graph))
	for i, s := range graph {
		s.Branches = append([]StageKey(nil), s.Branches...)
		out[i] = s
	}
	return out
}

// Lookup returns the stage with key.
func Lookup(key StageKey) (Stage, bool) {
	i, ok := byKey[key]
	if !ok {
		return Stage{}, false
	}
	s := graph[i]
	s.Branches = append([]StageKey(nil), s.Branches...)
	return s, true
}

// StageForStep returns the stage that records step.
func StageForStep(step int) (StageKey, bool) {
	k, ok := byStep[step]
	return k, ok
}

// ProgressStages returns the stages that record a step, in step order.
func ProgressStages() []Stage {
	var out []Stage
	for _, s := range Stages() {
		if s.Step > 0 {
			out = append(out, s)
		}
	}
	return out
}
