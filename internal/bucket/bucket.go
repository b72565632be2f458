// Package bucket stores optional supply-listing attachments in an
// S3-compatible bucket. Uploads are a secondary effect of the submission:
// callers log failures and continue without an attachment URL.
package bucket

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cove-house/waitlist-service/internal/config"
)

// Uploader stores one attachment and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
	Enabled() bool
}

type minioUploader struct {
	client *minio.Client
	cfg    config.BucketConfig
}

// NewUploader connects to the configured bucket, or returns a disabled
// uploader when no credentials are present.
func NewUploader(cfg config.BucketConfig) (Uploader, error) {
	if !cfg.Configured() {
		return disabledUploader{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init bucket client: %w", err)
	}
	return &minioUploader{client: client, cfg: cfg}, nil
}

func (u *minioUploader) Enabled() bool { return true }

func (u *minioUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("supply/%s-%s", uuid.NewString(), sanitizeFilename(filename))
	_, err := u.client.PutObject(ctx, u.cfg.Name, objectName, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}

	scheme := "http"
	if u.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, u.cfg.Endpoint, u.cfg.Name, objectName), nil
}

type disabledUploader struct{}

func (disabledUploader) Enabled() bool { return false }

func (disabledUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	return "", fmt.Errorf("bucket uploads not configured")
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		name = "attachment"
	}
	return name
}
