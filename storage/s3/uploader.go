// Package s3 implements the accounts image uploader on any S3-compatible
// object store (MinIO, AWS S3, DigitalOcean Spaces).
package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cliptube/accounts"
)

// Config locates the bucket and how uploaded objects are addressed
// publicly. PublicBaseURL overrides the endpoint-derived URL when a CDN
// fronts the bucket.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// Uploader stores image files and returns their public URLs.
type Uploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// New dials the object store and ensures the bucket exists.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("object storage endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimSuffix(client.EndpointURL().String(), "/")
	}

	return &Uploader{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload stores one file under a collision-free key and returns its public
// URL. The original filename survives only as the extension.
func (u *Uploader) Upload(ctx context.Context, f *accounts.FileUpload) (string, error) {
	if f == nil || f.Reader == nil {
		return "", errors.New("no file to upload")
	}

	key := uuid.NewString() + strings.ToLower(path.Ext(f.Name))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size := f.Size
	if size <= 0 {
		// Unknown length: stream with multipart upload.
		size = -1
	}

	if _, err := u.client.PutObject(ctx, u.bucket, key, f.Reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, key), nil
}
