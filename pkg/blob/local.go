package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage keeps blobs as files directly under a root directory.
// The root is created on first write, so a missing directory is never fatal.
type LocalStorage struct {
	root          string
	uploadTimeout time.Duration
}

// LocalOption configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithLocalUploadTimeout bounds a single Put.
func WithLocalUploadTimeout(timeout time.Duration) LocalOption {
	return func(s *LocalStorage) {
		s.uploadTimeout = timeout
	}
}

// NewLocalStorage creates a storage rooted at root, resolved to an absolute path.
func NewLocalStorage(root string, opts ...LocalOption) (*LocalStorage, error) {
	if root == "" {
		return nil, ErrInvalidConfig
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &LocalStorage{root: absRoot}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Locate implements Storage.
func (s *LocalStorage) Locate(key string) string {
	return filepath.Join(s.root, key)
}

// Put writes to a temp file in the root and renames it over the target,
// so readers never observe a partially written blob.
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-"+key+"-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteBlob, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteBlob, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteBlob, err)
	}

	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	target := s.Locate(key)
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteBlob, err)
	}

	return target, nil
}

// Get implements Storage.
func (s *LocalStorage) Get(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, locator)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadBlob, err)
	}

	return data, nil
}

// Delete implements Storage.
func (s *LocalStorage) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteBlob, err)
	}
	return nil
}

// Exists implements Storage.
func (s *LocalStorage) Exists(ctx context.Context, locator string) bool {
	if ctx.Err() != nil {
		return false
	}

	path, err := s.resolve(locator)
	if err != nil {
		return false
	}

	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// resolve confines a locator to the storage root.
func (s *LocalStorage) resolve(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("%w: empty locator", ErrInvalidKey)
	}

	path := locator
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	path = filepath.Clean(path)

	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, locator)
	}

	return path, nil
}
