// Package filestore writes generated artifacts to their destination: a local
// directory or a prefix inside an S3 bucket.
package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/fjgen/internal/config"
)

// Store accepts whole artifacts by name.
type Store interface {
	// Put writes data under name, replacing any previous artifact.
	Put(ctx context.Context, name string, data []byte) error
	// Location returns a human-readable address of the artifact name.
	Location(name string) string
}

const s3Scheme = "s3://"

// Open returns the store for dest. Destinations of the form
// s3://bucket[/prefix] go to S3; anything else is a local directory, which
// is created if missing.
func Open(ctx context.Context, dest string, opts config.S3Options) (Store, error) {
	if !strings.HasPrefix(dest, s3Scheme) {
		return NewDir(dest)
	}

	bucket, prefix, err := parseS3URL(dest)
	if err != nil {
		return nil, err
	}
	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to configure s3 client: %w", err)
	}
	return NewS3(client, bucket, prefix), nil
}

func parseS3URL(dest string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(dest, s3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 destination %q has no bucket", dest)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}
