package workflow

import (
	"context"
	"strings"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/export"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// ExportRequest selects the export format and whether to upload it.
type ExportRequest struct {
	Format string `json:"format"`
	Upload bool   `json:"upload"`
}

// Export is a rendered compound list.  Artifact is set when it was uploaded.
type Export struct {
	Format      string                   `json:"format"`
	ContentType string                   `json:"contentType"`
	Body        string                   `json:"-"`
	Compounds   int                      `json:"compounds"`
	Artifact    *research.StoredArtifact `json:"artifact,omitempty"`
}

// ExportCompounds renders the stored compounds as CSV or SDF.  With Upload
// set the file is pushed to the artifact store and a download link
// returned.
func (s *Service) ExportCompounds(ctx context.Context, id string, req ExportRequest) (Export, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = export.FormatCSV
	}
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return Export{}, err
	}
	compounds, err := storedCompounds(p)
	if err != nil {
		return Export{}, err
	}
	exp := s.collab.Exporter
	if exp == nil {
		exp = export.NewExporter()
	}
	body, err := export.Render(exp, format, compounds)
	if err != nil {
		return Export{}, err
	}
	out := Export{
		Format:      format,
		ContentType: export.ContentType(format),
		Body:        body,
		Compounds:   len(compounds),
	}
	if !req.Upload {
		return out, nil
	}
	if s.artifacts == nil {
		return Export{}, errors.New(errors.ErrCodeArtifactUpload, "artifact storage is not configured")
	}

	stored, err := s.artifacts.Upload(ctx, research.Artifact{
		ProjectID:   id,
		Format:      format,
		ContentType: out.ContentType,
		Body:        body,
	})
	s.metrics.RecordArtifactUploaded(format, err)
	if err != nil {
		s.logger.Warn("Export upload failed", logging.ProjectID(id), logging.String("format", format), logging.Err(err))
		return Export{}, err
	}
	s.logger.Info("Export uploaded",
		logging.ProjectID(id),
		logging.String("bucket", stored.Bucket),
		logging.String("key", stored.Key),
		logging.Int64("size", stored.Size),
	)
	out.Artifact = &stored
	return out, nil
}
