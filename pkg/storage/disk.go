// Package storage resolves and stores product images on a local directory
// or an S3 compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chiquebutik/butik/config"
)

// Disk is one storage backend.
type Disk interface {
	// URL returns a browser-usable URL for the object at path.
	URL(ctx context.Context, path string) string
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// New builds the disk named by name ("local" or "s3") from config.
func New(ctx context.Context, name string) (Disk, error) {
	switch name {
	case "", "local":
		return NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()), nil
	case "s3":
		return NewS3Disk(ctx, S3Config{
			Bucket:     config.StorageS3Bucket(),
			Region:     config.StorageS3Region(),
			Key:        config.StorageS3Key(),
			Secret:     config.StorageS3Secret(),
			Endpoint:   config.StorageS3Endpoint(),
			PublicURL:  config.StorageS3URL(),
			PresignTTL: config.StorageS3PresignTTL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
}

// Resolve turns a stored image reference into a URL. Absolute URLs pass
// through untouched; anything else is a key on disk.
func Resolve(ctx context.Context, disk Disk, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || disk == nil || IsAbsolute(ref) {
		return ref
	}
	return disk.URL(ctx, ref)
}

func IsAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//")
}

func cleanKey(path string) string {
	return strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
}
