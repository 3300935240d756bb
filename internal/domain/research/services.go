package research

import (
	"context"
)

// Collaborator names, used for error messages, logging and metrics labels.
const (
	ServicePhytochemicals = "phytochemical-database"
	ServiceDescriptors    = "descriptor-calculator"
	ServiceToxicophore    = "toxicophore-advisor"
	ServiceAdmet          = "admet-prediction"
	ServiceTargets        = "target-prediction"
	ServiceDocking        = "docking"
	ServiceNetwork        = "network-analysis"
)

// PhytochemicalDatabase finds the compounds reported for a plant part.
type PhytochemicalDatabase interface {
	Lookup(ctx context.Context, plantName, plantPart string, databases DatabaseFlags) ([]Compound, error)
}

// DescriptorCalculator computes drug-likeness descriptors and toxicity flags.
type DescriptorCalculator interface {
	Compute(ctx context.Context, compounds []Compound) ([]Descriptor, error)
}

// ToxicophoreAdvisor proposes safer structural variants for flagged compounds.
type ToxicophoreAdvisor interface {
	Variants(ctx context.Context, compoundIDs []string) ([]ToxicCandidate, error)
}

// PredictionService runs ADMET and target prediction.
type PredictionService interface {
	RunAdmet(ctx context.Context, compoundIDs []string) ([]AdmetResult, error)
	RunTargetPrediction(ctx context.Context, compoundIDs []string) ([]TargetHit, error)
}

// DockingService docks every compound against every target on every engine.
type DockingService interface {
	Run(ctx context.Context, compoundIDs, targetIDs, engineIDs []string) ([]DockingResult, error)
}

// NetworkAnalysisService builds the plant-compound-target network.
type NetworkAnalysisService interface {
	Build(ctx context.Context, req NetworkRequest) (NetworkGraph, error)
}

// StructureExporter renders compounds as downloadable text.
type StructureExporter interface {
	ToCSV(compounds []Compound) (string, error)
	ToSDF(compounds []Compound) (string, error)
}

// Collaborators bundles every service the workflow calls.
type Collaborators struct {
	Phytochemicals PhytochemicalDatabase
	Descriptors    DescriptorCalculator
	Toxicophore    ToxicophoreAdvisor
	Prediction     PredictionService
	Docking        DockingService
	Network        NetworkAnalysisService
	Exporter       StructureExporter
}
