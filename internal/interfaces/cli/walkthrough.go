package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/ayush-docknet/internal/application/workflow"
	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// WalkStep is one completed stage of a walkthrough.
type WalkStep struct {
	Stage    pipeline.StageKey `json:"stage"`
	Next     pipeline.StageKey `json:"next"`
	Step     int               `json:"step"`
	Progress int               `json:"progress"`
	Status   project.Status    `json:"status"`
	Detail   string            `json:"detail,omitempty"`
}

// Walkthrough is the record of a full pipeline run.
type Walkthrough struct {
	ProjectID string     `json:"projectId"`
	Path      string     `json:"path"`
	Steps     []WalkStep `json:"steps"`
}

func (Walkthrough) TableHeaders() []string {
	return []string{"STAGE", "NEXT", "STEP", "PROGRESS", "STATUS", "DETAIL"}
}

func (w Walkthrough) TableRows() [][]string {
	rows := make([][]string, 0, len(w.Steps))
	for _, s := range w.Steps {
		rows = append(rows, []string{
			string(s.Stage), string(s.Next), strconv.Itoa(s.Step),
			strconv.Itoa(s.Progress) + "%", string(s.Status), s.Detail,
		})
	}
	return rows
}

func newWalkthroughCmd() *cobra.Command {
	var (
		path    string
		latency time.Duration
	)
	cmd := &cobra.Command{
		Use:   "walkthrough",
		Short: "Run the whole pipeline in-process against the mock services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := workflow.NewService(workflow.Deps{
				Store:         project.NewStore(),
				Collaborators: mockdata.NewBackend(mockdata.WithLatency(latency)).Collaborators(),
				Logger:        cc.Logger,
			}, workflow.Config{
				ServiceTimeout:  cc.Config.Pipeline.ServiceTimeout,
				TargetThreshold: cc.Config.Pipeline.TargetThreshold,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cc.Timeout)
			defer cancel()
			w, err := RunWalkthrough(ctx, svc, pipeline.EntryPath(path))
			if err != nil {
				return err
			}
			if cc.OutputFormat == "text" {
				cc.OutputFormat = "table"
			}
			return PrintResult(cmd, w)
		},
	}
	cmd.Flags().StringVar(&path, "path", string(pipeline.PathPlant), "entry path: plant or smiles")
	cmd.Flags().DurationVar(&latency, "latency", 0, "artificial latency of each mock service call")
	return cmd
}

// RunWalkthrough creates a project and drives it from the entry point to the
// reports stage, choosing the first option wherever the screens offer one.
func RunWalkthrough(ctx context.Context, svc *workflow.Service, path pipeline.EntryPath) (Walkthrough, error) {
	if _, err := pipeline.EntryStage(path); err != nil {
		return Walkthrough{}, err
	}
	p, err := svc.CreateProject(ctx, project.CreateInput{
		Name:      fmt.Sprintf("Walkthrough (%s)", path),
		Objective: "Exercise every pipeline stage",
		Tags:      []string{"walkthrough"},
	})
	if err != nil {
		return Walkthrough{}, err
	}
	w := &walker{ctx: ctx, svc: svc, id: p.ID, out: Walkthrough{ProjectID: p.ID, Path: string(path)}}

	if _, err := svc.ChooseEntry(ctx, p.ID, path); err != nil {
		return Walkthrough{}, err
	}
	if path == pipeline.PathPlant {
		w.plantInput()
	} else {
		w.smilesInput()
	}
	w.screening()
	w.downstream()
	return w.out, w.err
}

// walker stops at the first error; later steps become no-ops.
type walker struct {
	ctx context.Context
	svc *workflow.Service
	id  string
	out Walkthrough
	err error
}

func (w *walker) record(t pipeline.Transition, err error, detail string) bool {
	if w.err != nil {
		return false
	}
	if err != nil {
		w.err = errors.Wrap(err, errors.CodeUnknown, "walkthrough stopped")
		return false
	}
	w.out.Steps = append(w.out.Steps, WalkStep{
		Stage:    t.Stage,
		Next:     t.Next,
		Step:     t.Project.CurrentStep,
		Progress: pipeline.Progress(t.Project.CurrentStep),
		Status:   t.Project.Status,
		Detail:   detail,
	})
	return true
}

func (w *walker) fail(err error) {
	if w.err == nil && err != nil {
		w.err = errors.Wrap(err, errors.CodeUnknown, "walkthrough stopped")
	}
}

func (w *walker) plantInput() {
	plant := mockdata.Plants()[0]
	t, err := w.svc.SubmitPlantInput(w.ctx, w.id, project.PlantInputData{
		PlantName: plant.Name,
		PlantPart: mockdata.PlantParts()[0],
		Databases: mockdata.DefaultDatabases(),
	})
	if !w.record(t, err, plant.Name) {
		return
	}
	found, err := w.svc.LookupPhytochemicals(w.ctx, w.id)
	if err != nil {
		w.fail(err)
		return
	}
	t, err = w.svc.ReviewCompounds(w.ctx, w.id, found)
	kept, _ := t.Project.Data.Compounds()
	w.record(t, err, fmt.Sprintf("%d found, %d kept", len(found), len(kept)))
}

func (w *walker) smilesInput() {
	upload := mockdata.SampleUpload()
	t, err := w.svc.UploadSmiles(w.ctx, w.id, upload)
	w.record(t, err, fmt.Sprintf("%d uploaded", len(upload)))
}

func (w *walker) screening() {
	if w.err != nil {
		return
	}
	t, err := w.svc.AnalyzeDescriptors(w.ctx, w.id)
	desc, _ := t.Project.Data.Descriptors()
	if !w.record(t, err, fmt.Sprintf("%d analysed, %d toxic", len(desc.Descriptors), len(desc.ToxicCompounds))) {
		return
	}
	if t.Next == pipeline.StageToxicophore {
		candidates, err := w.svc.SuggestVariants(w.ctx, w.id)
		if err != nil {
			w.fail(err)
			return
		}
		choices := make(map[string]string, len(candidates))
		for _, c := range candidates {
			if len(c.Variants) > 0 {
				choices[c.CompoundID] = c.Variants[0].ID
			}
		}
		t, err = w.svc.SubmitSubstitutions(w.ctx, w.id, choices)
		w.record(t, err, fmt.Sprintf("%d substituted", len(choices)))
	}

	t, err = w.svc.RunAdmet(w.ctx, w.id, nil)
	admet, _ := t.Project.Data.Admet()
	w.record(t, err, fmt.Sprintf("%d profiles", len(admet.Results)))
	if w.err != nil {
		return
	}
	t, err = w.svc.PredictTargets(w.ctx, w.id, 0, nil)
	targets, _ := t.Project.Data.Targets()
	w.record(t, err, fmt.Sprintf("%d targets >= %.2f", len(targets.Targets), targets.Threshold))
}

func (w *walker) downstream() {
	if w.err != nil {
		return
	}
	setup := mockdata.DefaultDockingSetup()
	t, err := w.svc.ConfigureDocking(w.ctx, w.id, setup)
	if !w.record(t, err, fmt.Sprintf("%d jobs", setup.JobCount())) {
		return
	}
	t, err = w.svc.RunDocking(w.ctx, w.id)
	docking, _ := t.Project.Data.DockingResults()
	detail := "no poses"
	if len(docking.Results) > 0 {
		best := docking.Results[0]
		detail = fmt.Sprintf("best %s/%s %.1f kcal/mol", best.Compound, best.Target, best.Score)
	}
	if !w.record(t, err, detail) {
		return
	}

	t, err = w.svc.ConfigureNetwork(w.ctx, w.id, mockdata.DefaultNetworkSetup())
	if !w.record(t, err, "") {
		return
	}
	graph, err := w.svc.BuildNetwork(w.ctx, w.id)
	if err != nil {
		w.fail(err)
		return
	}
	t, err = w.svc.CompleteVisualization(w.ctx, w.id)
	if !w.record(t, err, fmt.Sprintf("%d nodes, %d edges", len(graph.Nodes), len(graph.Edges))) {
		return
	}
	t, err = w.svc.CompleteReports(w.ctx, w.id)
	w.record(t, err, "")
}
