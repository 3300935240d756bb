package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/domain/screening"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// SubmitPlantInput completes the plant-input stage.
func (s *Service) SubmitPlantInput(ctx context.Context, id string, in project.PlantInputData) (pipeline.Transition, error) {
	in.PlantName = strings.TrimSpace(in.PlantName)
	in.PlantPart = strings.TrimSpace(in.PlantPart)
	return s.CompleteStage(ctx, id, pipeline.StagePlantInput, in)
}

// LookupPhytochemicals queries the phytochemical databases for the stored
// plant input.  Nothing is stored.
func (s *Service) LookupPhytochemicals(ctx context.Context, id string) ([]research.Compound, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	plant, ok := p.Data.PlantData()
	if !ok {
		return nil, errors.Validation("plantData", "submit the plant input first")
	}
	if s.collab.Phytochemicals == nil {
		return nil, missing(research.ServicePhytochemicals)
	}
	return call(ctx, s, research.ServicePhytochemicals, func(ctx context.Context) ([]research.Compound, error) {
		return s.collab.Phytochemicals.Lookup(ctx, plant.PlantName, plant.PlantPart, plant.Databases)
	})
}

// ReviewCompounds keeps the compounds flagged Selected and completes the
// phytochemical review.
func (s *Service) ReviewCompounds(ctx context.Context, id string, compounds []research.Compound) (pipeline.Transition, error) {
	selected := screening.SelectedCompounds(compounds)
	return s.CompleteStage(ctx, id, pipeline.StagePhytochemicalReview, project.CompoundListData(selected))
}

// UploadSmiles completes the SMILES upload.  Compounds without an id are
// numbered smi-1, smi-2, ... by position; every structure needs SMILES.
func (s *Service) UploadSmiles(ctx context.Context, id string, compounds []research.Compound) (pipeline.Transition, error) {
	list := make(project.CompoundListData, 0, len(compounds))
	for i, c := range compounds {
		c.SMILES = strings.TrimSpace(c.SMILES)
		if c.SMILES == "" {
			return pipeline.Transition{}, errors.Validation("smiles", fmt.Sprintf("compound %d has no SMILES", i+1))
		}
		if c.ID == "" {
			c.ID = fmt.Sprintf("smi-%d", i+1)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("Compound %d", i+1)
		}
		if c.Source == "" {
			c.Source = "Upload"
		}
		c.Selected = true
		list = append(list, c)
	}
	return s.CompleteStage(ctx, id, pipeline.StageSmilesUpload, list)
}

// ComputeDescriptors runs the descriptor calculator over the stored
// compounds.  Nothing is stored.
func (s *Service) ComputeDescriptors(ctx context.Context, id string) ([]research.Descriptor, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	compounds, err := storedCompounds(p)
	if err != nil {
		return nil, err
	}
	if s.collab.Descriptors == nil {
		return nil, missing(research.ServiceDescriptors)
	}
	return call(ctx, s, research.ServiceDescriptors, func(ctx context.Context) ([]research.Descriptor, error) {
		return s.collab.Descriptors.Compute(ctx, compounds)
	})
}

// AnalyzeDescriptors computes descriptors and completes the stage.  The
// next stage is the toxicophore substitution when anything was flagged.
func (s *Service) AnalyzeDescriptors(ctx context.Context, id string) (pipeline.Transition, error) {
	ds, err := s.ComputeDescriptors(ctx, id)
	if err != nil {
		return pipeline.Transition{}, err
	}
	return s.complete(ctx, id, pipeline.StageDescriptors, project.NewDescriptorData(ds))
}

// SuggestVariants asks the toxicophore advisor for replacements of the
// flagged compounds.
func (s *Service) SuggestVariants(ctx context.Context, id string) ([]research.ToxicCandidate, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	desc, ok := p.Data.Descriptors()
	if !ok {
		return nil, errors.Validation("descriptors", "run descriptor analysis first")
	}
	if !desc.HasToxic() {
		return []research.ToxicCandidate{}, nil
	}
	if s.collab.Toxicophore == nil {
		return nil, missing(research.ServiceToxicophore)
	}
	return call(ctx, s, research.ServiceToxicophore, func(ctx context.Context) ([]research.ToxicCandidate, error) {
		return s.collab.Toxicophore.Variants(ctx, desc.ToxicIDs())
	})
}

// SubmitSubstitutions resolves choices (compound id to variant id) against
// the advisor's candidates and completes the substitution stage.
func (s *Service) SubmitSubstitutions(ctx context.Context, id string, choices map[string]string) (pipeline.Transition, error) {
	candidates, err := s.SuggestVariants(ctx, id)
	if err != nil {
		return pipeline.Transition{}, err
	}
	data := project.SubstitutionData{Substitutions: make([]research.Substitution, 0, len(choices))}
	for _, c := range candidates {
		variantID, ok := choices[c.CompoundID]
		if !ok {
			continue
		}
		v, ok := c.Variant(variantID)
		if !ok {
			return pipeline.Transition{}, errors.Validation("substitutions",
				fmt.Sprintf("variant %q is not offered for compound %q", variantID, c.CompoundID))
		}
		data.Substitutions = append(data.Substitutions, research.Substitution{
			CompoundID: c.CompoundID,
			Original:   c.Name,
			Variant:    v,
		})
	}
	return s.CompleteStage(ctx, id, pipeline.StageToxicophore, data)
}

// PredictAdmet profiles the stored compounds.  Nothing is stored.
func (s *Service) PredictAdmet(ctx context.Context, id string) ([]research.AdmetResult, error) {
	ids, err := s.compoundIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.collab.Prediction == nil {
		return nil, missing(research.ServiceAdmet)
	}
	return call(ctx, s, research.ServiceAdmet, func(ctx context.Context) ([]research.AdmetResult, error) {
		return s.collab.Prediction.RunAdmet(ctx, ids)
	})
}

// RunAdmet predicts ADMET and completes the stage with the results whose
// compound id is in selected; an empty selection keeps every result.
func (s *Service) RunAdmet(ctx context.Context, id string, selected []string) (pipeline.Transition, error) {
	results, err := s.PredictAdmet(ctx, id)
	if err != nil {
		return pipeline.Transition{}, err
	}
	sel := screening.NewSelection(selected...)
	if sel.Len() == 0 {
		for _, r := range results {
			sel.Add(r.CompoundID)
		}
	}
	return s.CompleteStage(ctx, id, pipeline.StageAdmet, project.AdmetData{Results: screening.SelectAdmet(results, sel)})
}

// PredictTargetHits runs target prediction and returns the hits at or above
// threshold.  A threshold of zero uses the configured default.
func (s *Service) PredictTargetHits(ctx context.Context, id string, threshold float64) ([]research.TargetHit, error) {
	if threshold < 0 || threshold > 1 {
		return nil, errors.Validation("threshold", "threshold must be between 0 and 1")
	}
	if threshold == 0 {
		threshold = s.cfg.TargetThreshold
	}
	ids, err := s.compoundIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.collab.Prediction == nil {
		return nil, missing(research.ServiceTargets)
	}
	hits, err := call(ctx, s, research.ServiceTargets, func(ctx context.Context) ([]research.TargetHit, error) {
		return s.collab.Prediction.RunTargetPrediction(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return screening.FilterTargets(hits, threshold), nil
}

// PredictTargets filters the predicted hits by threshold, keeps the hit ids
// in selected (all of them when empty) and completes the stage.
func (s *Service) PredictTargets(ctx context.Context, id string, threshold float64, selected []string) (pipeline.Transition, error) {
	hits, err := s.PredictTargetHits(ctx, id, threshold)
	if err != nil {
		return pipeline.Transition{}, err
	}
	if threshold == 0 {
		threshold = s.cfg.TargetThreshold
	}
	sel := screening.NewSelection(selected...)
	if sel.Len() == 0 {
		for _, h := range hits {
			sel.Add(h.ID)
		}
	}
	data := project.TargetData{Targets: screening.SelectTargets(hits, sel), Threshold: threshold}
	return s.CompleteStage(ctx, id, pipeline.StageTargetPrediction, data)
}

// ConfigureDocking completes the docking setup.
func (s *Service) ConfigureDocking(ctx context.Context, id string, setup project.DockingSetupData) (pipeline.Transition, error) {
	return s.CompleteStage(ctx, id, pipeline.StageDockingSetup, setup)
}

// DockCompounds runs the stored docking setup.  Nothing is stored.
func (s *Service) DockCompounds(ctx context.Context, id string) ([]research.DockingResult, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	setup, ok := p.Data.DockingSetup()
	if !ok {
		return nil, errors.Validation("dockingSetup", "configure docking first")
	}
	if s.collab.Docking == nil {
		return nil, missing(research.ServiceDocking)
	}
	return call(ctx, s, research.ServiceDocking, func(ctx context.Context) ([]research.DockingResult, error) {
		return s.collab.Docking.Run(ctx, setup.Compounds, setup.Targets, setup.Engines)
	})
}

// RunDocking docks the stored setup and completes the results stage with
// every result, best score first.
func (s *Service) RunDocking(ctx context.Context, id string) (pipeline.Transition, error) {
	results, err := s.DockCompounds(ctx, id)
	if err != nil {
		return pipeline.Transition{}, err
	}
	data := project.DockingResultData{Results: screening.SortDocking(results, screening.SortByScore)}
	return s.CompleteStage(ctx, id, pipeline.StageDockingResults, data)
}

// ConfigureNetwork completes the network setup.  Plants default to the
// stored plant name.
func (s *Service) ConfigureNetwork(ctx context.Context, id string, setup project.NetworkSetupData) (pipeline.Transition, error) {
	if len(setup.Plants) == 0 {
		p, err := s.GetProject(ctx, id)
		if err != nil {
			return pipeline.Transition{}, err
		}
		if plant, ok := p.Data.PlantData(); ok && plant.PlantName != "" {
			setup.Plants = []string{plant.PlantName}
		}
	}
	return s.CompleteStage(ctx, id, pipeline.StageNetworkSetup, setup)
}

// BuildNetwork builds the interaction graph of the stored network setup.
// Nothing is stored; the visualization stage is completed separately.
func (s *Service) BuildNetwork(ctx context.Context, id string) (research.NetworkGraph, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return research.NetworkGraph{}, err
	}
	setup, ok := p.Data.NetworkSetup()
	if !ok {
		return research.NetworkGraph{}, errors.Validation("networkSetup", "configure the network first")
	}
	if s.collab.Network == nil {
		return research.NetworkGraph{}, missing(research.ServiceNetwork)
	}
	return call(ctx, s, research.ServiceNetwork, func(ctx context.Context) (research.NetworkGraph, error) {
		return s.collab.Network.Build(ctx, setup.Request())
	})
}

// CompleteVisualization completes the network visualization stage.
func (s *Service) CompleteVisualization(ctx context.Context, id string) (pipeline.Transition, error) {
	return s.CompleteStage(ctx, id, pipeline.StageNetworkVisualization, nil)
}

// CompleteReports completes the final stage and marks the project
// Completed.
func (s *Service) CompleteReports(ctx context.Context, id string) (pipeline.Transition, error) {
	return s.CompleteStage(ctx, id, pipeline.StageReports, nil)
}

func (s *Service) compoundIDs(ctx context.Context, id string) ([]string, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	compounds, err := storedCompounds(p)
	if err != nil {
		return nil, err
	}
	return screening.CompoundIDs(compounds), nil
}

func storedCompounds(p project.Project) ([]research.Compound, error) {
	list, ok := p.Data.Compounds()
	if !ok || len(list) == 0 {
		return nil, errors.Validation("compounds", "no compounds stored on the project")
	}
	return list, nil
}
