// Package storage abstracts the DDF output directory so writers and the
// index generator work against names, not paths. LocalFileStorage is the
// only backend; files become visible under their final name only once they
// are completely written.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wppddf/domain/core"

	"github.com/google/uuid"
)

// FileStorage defines the interface for output file operations
type FileStorage interface {
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	List(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Path(name string) string
}

// StorageConfig holds configuration for file storage
type StorageConfig struct {
	BasePath string
	DirPerm  os.FileMode
	FilePerm os.FileMode
}

// DefaultStorageConfig returns defaults rooted at basePath
func DefaultStorageConfig(basePath string) *StorageConfig {
	return &StorageConfig{
		BasePath: basePath,
		DirPerm:  0755,
		FilePerm: 0644,
	}
}

// LocalFileStorage implements FileStorage using the local filesystem
type LocalFileStorage struct {
	config *StorageConfig
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage with a simple path
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	return NewLocalFileStorage(DefaultStorageConfig(basePath))
}

// Path returns the full path of name inside the storage root
func (s *LocalFileStorage) Path(name string) string {
	return filepath.Join(s.config.BasePath, name)
}

func checkName(name string) error {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: invalid file name %q", core.ErrIO, name)
	}
	return nil
}

// Create returns a writer for name. The file is written to a temporary name
// and renamed into place by Close; a failed Close leaves no partial file.
func (s *LocalFileStorage) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.config.BasePath, s.config.DirPerm); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %w", core.ErrIO, err)
	}

	tmpPath := s.Path("." + name + "." + uuid.New().String()[:8] + ".tmp")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.config.FilePerm)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %w", core.ErrIO, name, err)
	}
	return &atomicFile{File: f, tmpPath: tmpPath, finalPath: s.Path(name)}, nil
}

// Open returns a reader for a stored file
func (s *LocalFileStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", core.ErrIO, name, err)
	}
	return f, nil
}

// List returns the sorted names in the storage root matching a glob pattern
func (s *LocalFileStorage) List(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(s.Path(pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %w", core.ErrIO, pattern, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Exists checks if a file exists in storage
func (s *LocalFileStorage) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(s.Path(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to check %s: %w", core.ErrIO, name, err)
	}
	return true, nil
}

// Abort discards a writer returned by Create without publishing it. Other
// writers are simply closed.
func Abort(w io.WriteCloser) {
	if f, ok := w.(*atomicFile); ok {
		f.abort()
		return
	}
	w.Close()
}

type atomicFile struct {
	*os.File
	tmpPath   string
	finalPath string
	closed    bool
}

func (f *atomicFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.File.Sync(); err != nil {
		f.File.Close()
		os.Remove(f.tmpPath)
		return fmt.Errorf("%w: failed to flush %s: %w", core.ErrIO, f.finalPath, err)
	}
	if err := f.File.Close(); err != nil {
		os.Remove(f.tmpPath)
		return fmt.Errorf("%w: failed to close %s: %w", core.ErrIO, f.finalPath, err)
	}
	if err := os.Rename(f.tmpPath, f.finalPath); err != nil {
		os.Remove(f.tmpPath)
		return fmt.Errorf("%w: failed to move %s into place: %w", core.ErrIO, f.finalPath, err)
	}
	return nil
}

func (f *atomicFile) abort() {
	if f.closed {
		return
	}
	f.closed = true
	f.File.Close()
	os.Remove(f.tmpPath)
}
