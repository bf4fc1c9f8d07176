// Package storage holds uploaded avatar images in an object store.
// MinIO and Google Cloud Storage backends are supported, chosen by config.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/devlink-social/apiserver/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// NewBackend constructs the object-storage backend selected by
// cfg.Backend. An empty backend name yields (nil, nil): avatar uploads
// are simply disabled.
func NewBackend(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "minio":
		return NewMinioClient(cfg.Minio)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// AvatarKey is the object key under which a user's avatar is stored.
// One key per user: uploading again overwrites the previous image.
func AvatarKey(userID int) string {
	return fmt.Sprintf("avatars/%d", userID)
}
