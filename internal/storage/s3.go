// Package storage wraps the S3-compatible object store used for client
// uploads. The API never proxies file bytes; it only hands out short-lived
// presigned URLs and lets the client talk to the bucket directly.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/devfolio/backend/internal/config"
)

// Client presigns upload and download URLs for a single bucket.
type Client struct {
	mc     *minio.Client
	bucket string
}

// New builds a storage client from config. Returns nil when no bucket is
// configured; callers treat a nil client as "uploads disabled".
func New(cfg config.Config) (*Client, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	endpoint := cfg.S3Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	// minio wants a bare host, not a URL.
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &Client{mc: mc, bucket: cfg.S3Bucket}, nil
}

// PresignPut returns a URL the client can PUT the object to. The content
// type is pinned into the signature.
func (c *Client) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	u, err := c.mc.PresignHeader(ctx, "PUT", c.bucket, key, expiry, url.Values{},
		map[string][]string{"Content-Type": {contentType}})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// PresignGet returns a URL the object can be fetched from.
func (c *Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// SanitizeFilename keeps the final path element and replaces anything
// outside [A-Za-z0-9._-] so user input cannot shape the object key.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
