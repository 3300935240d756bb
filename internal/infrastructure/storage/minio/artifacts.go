package minio

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

var _ research.ArtifactStore = (*Client)(nil)

// Upload writes a to the bucket and returns a presigned GET link.
func (c *Client) Upload(ctx context.Context, a research.Artifact) (research.StoredArtifact, error) {
	if c.isClosed() {
		return research.StoredArtifact{}, ErrClientClosed
	}
	if a.ProjectID == "" {
		return research.StoredArtifact{}, errors.Validation("projectId", "project id required")
	}

	now := c.now()
	key := ObjectKey(a.ProjectID, a.Format, now)
	info, err := c.api.PutObject(ctx, c.config.Bucket, key, strings.NewReader(a.Body), int64(len(a.Body)),
		minio.PutObjectOptions{
			ContentType:  a.ContentType,
			UserMetadata: map[string]string{"project-id": a.ProjectID, "format": a.Format},
		})
	if err != nil {
		return research.StoredArtifact{}, errors.Wrap(err, errors.ErrCodeArtifactUpload, "upload export").WithDetail("key=" + key)
	}

	u, err := c.api.PresignedGetObject(ctx, c.config.Bucket, key, c.config.PresignExpiry, nil)
	if err != nil {
		return research.StoredArtifact{}, errors.Wrap(err, errors.ErrCodeArtifactUpload, "presign export").WithDetail("key=" + key)
	}

	c.logger.Info("Export uploaded",
		logging.ProjectID(a.ProjectID),
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return research.StoredArtifact{
		Bucket:    c.config.Bucket,
		Key:       key,
		Size:      info.Size,
		URL:       u.String(),
		ExpiresAt: now.Add(c.config.PresignExpiry),
	}, nil
}
