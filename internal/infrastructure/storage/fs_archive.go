package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FSArchive mirrors documents into a directory, typically a mounted share
type FSArchive struct {
	fs   afero.Fs
	root string
}

// NewFSArchive creates an archive rooted at dir on fs
func NewFSArchive(fs afero.Fs, dir string) (*FSArchive, error) {
	if dir == "" {
		return nil, errors.New("archive directory is required")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}
	return &FSArchive{fs: fs, root: dir}, nil
}

// Put copies body to {root}/{key}, overwriting any previous copy
func (a *FSArchive) Put(ctx context.Context, key string, body io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := a.path(key)
	if err != nil {
		return err
	}
	if err := a.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := afero.WriteReader(a.fs, dst, body); err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return nil
}

// DownloadURL returns a file URL for key. Links never expire.
func (a *FSArchive) DownloadURL(_ context.Context, key string, _ time.Duration) (string, time.Time, error) {
	p, err := a.path(key)
	if err != nil {
		return "", time.Time{}, err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String(), time.Time{}, nil
}

// Exists checks if an archived file exists
func (a *FSArchive) Exists(_ context.Context, key string) (bool, error) {
	p, err := a.path(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(a.fs, p)
}

// path resolves key under root, rejecting keys that escape it
func (a *FSArchive) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	p := filepath.Join(a.root, filepath.FromSlash(strings.TrimLeft(key, "/")))
	rel, err := filepath.Rel(a.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes the archive root", key)
	}
	return p, nil
}
