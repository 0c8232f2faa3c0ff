package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore stores blobs on the local filesystem under a base directory.
type DiskStore struct {
	basePath string
}

// NewDiskStore creates a filesystem-backed store rooted at basePath.
func NewDiskStore(basePath string) (*DiskStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", basePath, err)
	}
	return &DiskStore{basePath: basePath}, nil
}

// BasePath returns the root directory of the store.
func (d *DiskStore) BasePath() string {
	return d.basePath
}

func (d *DiskStore) filePath(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return "", fmt.Errorf("empty blob name")
	}
	// clean is absolute, so it cannot traverse above basePath
	return filepath.Join(d.basePath, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Save streams data to a file, removing the partial file on error.
func (d *DiskStore) Save(ctx context.Context, name string, data io.Reader) (int64, error) {
	filePath, err := d.filePath(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return 0, fmt.Errorf("create blob directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("create blob %s: %w", name, err)
	}

	n, err := io.Copy(file, data)
	if err != nil {
		file.Close()
		os.Remove(filePath)
		return n, err
	}
	if err := file.Close(); err != nil {
		os.Remove(filePath)
		return n, fmt.Errorf("close blob %s: %w", name, err)
	}
	return n, nil
}

// Open returns a reader over the blob and its size.
func (d *DiskStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	filePath, err := d.filePath(name)
	if err != nil {
		return nil, 0, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("stat blob %s: %w", name, err)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("open blob %s: %w", name, err)
	}
	return file, info.Size(), nil
}

// Delete removes a blob, tolerating a missing file.
func (d *DiskStore) Delete(ctx context.Context, name string) error {
	filePath, err := d.filePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}

// DeleteDir removes a whole subtree of blobs.
func (d *DiskStore) DeleteDir(ctx context.Context, prefix string) error {
	dirPath, err := d.filePath(prefix)
	if err != nil {
		return err
	}
	return os.RemoveAll(dirPath)
}
