package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/yukikurage/school-management-api/internal/config"
	"go.uber.org/zap"
)

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores the content of r under key
	Save(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes the blob stored under key
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for accessing the blob
	URL(key string) string
}

// New builds the storage backend selected by STORAGE_DRIVER.
func New(ctx context.Context, c *config.Config, log *zap.Logger) (Storage, error) {
	switch c.StorageDriver {
	case "local", "":
		log.Info("initializing local storage",
			zap.String("dir", c.UploadDir),
			zap.String("public_path", c.PublicPath),
		)
		return NewLocalStorage(c.UploadDir, c.PublicPath)
	case "s3":
		log.Info("initializing S3 storage",
			zap.String("bucket", c.S3Bucket),
			zap.String("region", c.S3Region),
			zap.String("endpoint", c.S3Endpoint),
		)
		return NewS3Storage(ctx, S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		}, log)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
}
