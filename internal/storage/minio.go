// Package storage keeps rendered snapshots in an S3-compatible bucket and
// hands out time-limited download links.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/xob0t/ogpix/internal/config"
)

// ErrDisabled is returned by a nil *Client.
var ErrDisabled = errors.New("snapshot storage is not configured")

// Client wraps a MinIO client bound to one bucket. A nil *Client is valid
// and reports ErrDisabled.
type Client struct {
	mc         *minio.Client
	bucketName string
	presignTTL time.Duration
}

// Snapshot describes a stored image.
type Snapshot struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// NewClient initializes the MinIO client and ensures the bucket exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{mc: mc, bucketName: cfg.Bucket, presignTTL: cfg.PresignTTL}, nil
}

// ObjectKey derives the object name for a snapshot of the given template.
func ObjectKey(kind, id string) string {
	return "snapshots/" + sanitize(kind) + "/" + id + ".png"
}

// PutSnapshot uploads png under key and returns a presigned download URL.
func (c *Client) PutSnapshot(ctx context.Context, key string, png []byte) (*Snapshot, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	opts := minio.PutObjectOptions{
		ContentType:  "image/png",
		CacheControl: "public, max-age=86400",
	}
	info, err := c.mc.PutObject(ctx, c.bucketName, key, bytes.NewReader(png), int64(len(png)), opts)
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}
	url, err := c.PresignedURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Key: key, URL: url, Size: info.Size}, nil
}

// PresignedURL returns a time-limited download link for key.
func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}
	u, err := c.mc.PresignedGetObject(ctx, c.bucketName, key, c.presignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", key, err)
	}
	return u.String(), nil
}

// IsNoSuchKey reports whether err means the object does not exist.
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch strings.ToLower(resp.Code) {
		case "nosuchkey", "notfound":
			return true
		}
	}
	return false
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
