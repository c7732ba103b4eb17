// Package objectstore wraps the S3-compatible backend holding resume files.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hatchpoint/intake-api/pkg/config"
)

// Client issues authenticated bucket and object calls against MinIO/S3.
type Client struct {
	mc     *minio.Client
	region string
}

// New creates a client from the object store configuration.
func New(cfg config.ObjectStoreConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &Client{mc: mc, region: cfg.Region}, nil
}

// EnsureBucket makes sure the bucket exists before use. Creation is
// idempotent: a bucket that already exists (raced by a concurrent request) is
// treated as success. Buckets are private by default; size and MIME limits
// are enforced by the intake service before upload.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores the object under key, refusing to overwrite an existing
// object at that path.
func (c *Client) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	if _, err := c.mc.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err == nil {
		return fmt.Errorf("object already exists at %s", key)
	} else if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" && resp.Code != "" {
		return fmt.Errorf("stat object %s: %w", key, err)
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.mc.PutObject(ctx, bucket, key, reader, size, opts); err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}
	return nil
}

// PresignedGetURL mints a time-limited signed download URL for the object.
func (c *Client) PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", key, err)
	}
	return u.String(), nil
}

// Remove deletes the object at key.
func (c *Client) Remove(ctx context.Context, bucket, key string) error {
	if err := c.mc.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// Ping verifies the backend is reachable, for readiness probes.
func (c *Client) Ping(ctx context.Context, bucket string) error {
	if _, err := c.mc.BucketExists(ctx, bucket); err != nil {
		return fmt.Errorf("object store unreachable: %w", err)
	}
	return nil
}
