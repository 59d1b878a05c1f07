package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// filesystem stores each key as a file below basePath.
type filesystem struct {
	basePath string
	logger   *slog.Logger
}

// New creates a filesystem storage system rooted at cfg.BasePath. The path is
// made absolute here; the directory itself is created by Init.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &filesystem{
		basePath: abs,
		logger:   logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Init(ctx context.Context) error {
	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		return fmt.Errorf("create base path: %w", err)
	}
	f.logger.Debug("storage ready", "base_path", f.basePath)
	return nil
}

// Store writes through a temp file in the target directory and renames it
// into place, so readers never observe a partial report or page.
func (f *filesystem) Store(ctx context.Context, key string, data []byte) error {
	path, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return mapFSError(err, "create directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return mapFSError(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return mapFSError(err, "chmod temp file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return mapFSError(err, "rename temp file")
	}
	return nil
}

func (f *filesystem) Retrieve(ctx context.Context, key string) ([]byte, error) {
	path, err := f.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mapFSError(err, "read file")
	}
	return data, nil
}

// Delete removes key and then any directories it leaves empty, stopping at
// the base path.
func (f *filesystem) Delete(ctx context.Context, key string) error {
	path, err := f.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return mapFSError(err, "remove file")
	}

	for dir := filepath.Dir(path); dir != f.basePath; dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			f.logger.Warn("failed to prune empty directory", "dir", dir, "error", err)
			break
		}
	}
	return nil
}

func (f *filesystem) Exists(ctx context.Context, key string) (bool, error) {
	path, err := f.resolve(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, mapFSError(err, "stat file")
	}
}

func (f *filesystem) Path(ctx context.Context, key string) (string, error) {
	return f.resolve(key)
}

// resolve maps a slash-separated key to a path below basePath. Keys that are
// empty, absolute, or climb out of the base are rejected.
func (f *filesystem) resolve(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.basePath, rel), nil
}

func mapFSError(err error, op string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, op)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
