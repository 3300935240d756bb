package research

import (
	"context"
	"time"
)

// Artifact is a rendered export ready to upload.
type Artifact struct {
	ProjectID   string
	Format      string
	ContentType string
	Body        string
}

// StoredArtifact describes an uploaded export and its download link.
type StoredArtifact struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ArtifactStore persists exports outside the process.
type ArtifactStore interface {
	Upload(ctx context.Context, a Artifact) (StoredArtifact, error)
}
