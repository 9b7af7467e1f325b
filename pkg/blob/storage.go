package blob

import (
	"context"
	"fmt"
	"strings"
)

// Storage persists and retrieves blobs.
type Storage interface {
	// Put writes data under key, replacing any previous content, and returns
	// the locator to persist.
	Put(ctx context.Context, key string, data []byte) (locator string, err error)

	// Get reads the blob at locator. Missing blobs yield ErrNotFound.
	Get(ctx context.Context, locator string) ([]byte, error)

	// Delete removes the blob at locator. Missing blobs are not an error.
	Delete(ctx context.Context, locator string) error

	// Exists reports whether a blob is present at locator.
	Exists(ctx context.Context, locator string) bool

	// Locate returns the locator a blob stored under key would have.
	Locate(key string) string
}

// New builds the Storage selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverLocal:
		return NewLocalStorage(cfg.FolderPath, WithLocalUploadTimeout(cfg.UploadTimeout))
	case DriverS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, WithS3UploadTimeout(cfg.UploadTimeout))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// validateKey rejects keys that are not a single path element.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
