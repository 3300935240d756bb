package workflow

import (
	"fmt"
	"strings"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// validateStage applies the per-stage input rules.  Payloads of the wrong
// variant pass through untouched so the controller can reject them as an
// invalid stage.
func validateStage(p project.Project, stage pipeline.StageKey, payload project.StagePayload) error {
	switch v := payload.(type) {
	case project.PlantInputData:
		if stage == pipeline.StagePlantInput {
			return validatePlantInput(v)
		}
	case project.CompoundListData:
		if stage == pipeline.StagePhytochemicalReview || stage == pipeline.StageSmilesUpload {
			if len(v) == 0 {
				return errors.Validation("compounds", "select at least one compound")
			}
		}
	case project.SubstitutionData:
		if stage == pipeline.StageToxicophore {
			return validateSubstitutions(p, v)
		}
	case project.AdmetData:
		if stage == pipeline.StageAdmet && len(v.Results) == 0 {
			return errors.Validation("admetResults", "select at least one ADMET result")
		}
	case project.TargetData:
		if stage == pipeline.StageTargetPrediction && len(v.Targets) == 0 {
			return errors.Validation("targets", "select at least one target")
		}
	case project.DockingSetupData:
		if stage == pipeline.StageDockingSetup {
			return validateDockingSetup(v)
		}
	case project.NetworkSetupData:
		if stage == pipeline.StageNetworkSetup {
			return validateNetworkSetup(v)
		}
	}
	return nil
}

func validatePlantInput(in project.PlantInputData) error {
	if strings.TrimSpace(in.PlantName) == "" {
		return errors.Validation("plantName", "plant name is required")
	}
	if strings.TrimSpace(in.PlantPart) == "" {
		return errors.Validation("plantPart", "plant part is required")
	}
	return nil
}

// validateSubstitutions requires one substitution per toxic compound of the
// stored descriptor analysis.
func validateSubstitutions(p project.Project, in project.SubstitutionData) error {
	desc, ok := p.Data.Descriptors()
	if !ok {
		return errors.Validation("descriptors", "run descriptor analysis first")
	}
	chosen := make(map[string]bool, len(in.Substitutions))
	for _, sub := range in.Substitutions {
		if sub.Variant.ID == "" {
			return errors.Validation("substitutions", fmt.Sprintf("compound %q has no variant", sub.CompoundID))
		}
		chosen[sub.CompoundID] = true
	}
	for _, id := range desc.ToxicIDs() {
		if !chosen[id] {
			return errors.Validation("substitutions", fmt.Sprintf("choose a variant for compound %q", id))
		}
	}
	return nil
}

func validateDockingSetup(in project.DockingSetupData) error {
	switch {
	case len(in.Compounds) == 0:
		return errors.Validation("compounds", "select at least one compound to dock")
	case len(in.Targets) == 0:
		return errors.Validation("targets", "select at least one target")
	case len(in.Engines) == 0:
		return errors.Validation("engines", "select at least one docking engine")
	}
	return nil
}

func validateNetworkSetup(in project.NetworkSetupData) error {
	switch {
	case len(in.Compounds) == 0:
		return errors.Validation("compounds", "select at least one compound")
	case len(in.Targets) == 0:
		return errors.Validation("targets", "select at least one target")
	case in.Threshold < 0 || in.Threshold > 1:
		return errors.Validation("threshold", "threshold must be between 0 and 1")
	}
	return nil
}
