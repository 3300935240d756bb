package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ayush-docknet/internal/application/workflow"
	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// Pipeline is the slice of the workflow service the API drives.
type Pipeline interface {
	CreateProject(ctx context.Context, in project.CreateInput) (project.Project, error)
	ListProjects(ctx context.Context) ([]project.Project, error)
	GetProject(ctx context.Context, id string) (project.Project, error)
	OpenProject(ctx context.Context, id string) (workflow.Opened, error)
	Overview(ctx context.Context, id string) (pipeline.Overview, error)
	ChooseEntry(ctx context.Context, id string, path pipeline.EntryPath) (pipeline.Transition, error)
	CompleteStage(ctx context.Context, id string, stage pipeline.StageKey, payload project.StagePayload) (pipeline.Transition, error)

	LookupPhytochemicals(ctx context.Context, id string) ([]research.Compound, error)
	ComputeDescriptors(ctx context.Context, id string) ([]research.Descriptor, error)
	SuggestVariants(ctx context.Context, id string) ([]research.ToxicCandidate, error)
	PredictAdmet(ctx context.Context, id string) ([]research.AdmetResult, error)
	PredictTargetHits(ctx context.Context, id string, threshold float64) ([]research.TargetHit, error)
	DockCompounds(ctx context.Context, id string) ([]research.DockingResult, error)
	BuildNetwork(ctx context.Context, id string) (research.NetworkGraph, error)

	ExportCompounds(ctx context.Context, id string, req workflow.ExportRequest) (workflow.Export, error)
}

var _ Pipeline = (*workflow.Service)(nil)

// ProjectHandler serves /projects and everything below it.
type ProjectHandler struct {
	svc    Pipeline
	logger logging.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(svc Pipeline, logger logging.Logger) *ProjectHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ProjectHandler{svc: svc, logger: logger.Named("api")}
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var in project.CreateInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

// List handles GET /projects.  ?status= and ?tag= filter the result.
func (h *ProjectHandler) List(c *gin.Context) {
	all, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	status, tag := c.Query("status"), c.Query("tag")
	out := make([]project.Project, 0, len(all))
	for _, p := range all {
		if status != "" && string(p.Status) != status {
			continue
		}
		if tag != "" && !p.HasTag(tag) {
			continue
		}
		out = append(out, p)
	}
	writeJSON(c, http.StatusOK, DataResponse{Data: out})
}

// Get handles GET /projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// Open handles POST /projects/:id/open.
func (h *ProjectHandler) Open(c *gin.Context) {
	opened, err := h.svc.OpenProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, opened)
}

// Overview handles GET /projects/:id/overview.
func (h *ProjectHandler) Overview(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, ov)
}

type entryRequest struct {
	Path pipeline.EntryPath `json:"path"`
}

// Entry handles POST /projects/:id/entry.
func (h *ProjectHandler) Entry(c *gin.Context) {
	var req entryRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	t, err := h.svc.ChooseEntry(c.Request.Context(), c.Param("id"), req.Path)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// CompleteStage handles POST /projects/:id/stages/:stage.  The body is the
// stage's payload; stages that store nothing take an empty body.
func (h *ProjectHandler) CompleteStage(c *gin.Context) {
	key := pipeline.StageKey(c.Param("stage"))
	stage, ok := pipeline.Lookup(key)
	if !ok {
		writeError(c, h.logger, errors.InvalidStage(fmt.Sprintf("unknown stage %q", key)))
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, h.logger, errors.Wrap(err, errors.ErrCodeValidation, "unreadable request body"))
		return
	}

	var payload project.StagePayload
	if stage.DataKey != "" && len(strings.TrimSpace(string(raw))) > 0 {
		payload, err = project.DecodePayload(stage.DataKey, raw)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
	}
	t, err := h.svc.CompleteStage(c.Request.Context(), c.Param("id"), key, payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Service handles POST /projects/:id/services/:service.  Results are
// returned without being stored.
func (h *ProjectHandler) Service(c *gin.Context) {
	ctx, id := c.Request.Context(), c.Param("id")
	var (
		out any
		err error
	)
	switch c.Param("service") {
	case "phytochemicals":
		out, err = h.svc.LookupPhytochemicals(ctx, id)
	case "descriptors":
		out, err = h.svc.ComputeDescriptors(ctx, id)
	case "variants":
		out, err = h.svc.SuggestVariants(ctx, id)
	case "admet":
		out, err = h.svc.PredictAdmet(ctx, id)
	case "targets":
		var threshold float64
		threshold, err = floatQuery(c, "threshold")
		if err == nil {
			out, err = h.svc.PredictTargetHits(ctx, id, threshold)
		}
	case "docking":
		out, err = h.svc.DockCompounds(ctx, id)
	case "network":
		out, err = h.svc.BuildNetwork(ctx, id)
	default:
		err = errors.NotFound(fmt.Sprintf("unknown service %q", c.Param("service")))
	}
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, DataResponse{Data: out})
}

// ExportCompounds handles GET /projects/:id/exports/compounds.  With
// ?upload=true the file goes to object storage and the link is returned;
// otherwise the file itself is the response.
func (h *ProjectHandler) ExportCompounds(c *gin.Context) {
	upload, _ := strconv.ParseBool(c.DefaultQuery("upload", "false"))
	id := c.Param("id")
	exp, err := h.svc.ExportCompounds(c.Request.Context(), id, workflow.ExportRequest{
		Format: c.DefaultQuery("format", "csv"),
		Upload: upload,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if upload {
		writeJSON(c, http.StatusOK, exp)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-compounds.%s"`, id, exp.Format))
	c.Data(http.StatusOK, exp.ContentType, []byte(exp.Body))
}

func floatQuery(c *gin.Context, name string) (float64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Validation(name, "must be a number")
	}
	return f, nil
}
