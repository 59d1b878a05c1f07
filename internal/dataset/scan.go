// Package dataset discovers labelled images on disk. Each immediate subfolder
// of the dataset root names a ground-truth class; the files inside are that
// class's images.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/pkg/logging"
)

// Options controls which files a scan accepts.
type Options struct {
	// Extensions lists accepted image extensions including the dot.
	// Empty accepts DefaultExtensions.
	Extensions []string

	// MaxImageSize rejects larger files at load time. Zero disables the limit.
	MaxImageSize int64

	// Pages expands PDF files into per-page items. Nil skips PDFs.
	Pages *PageRenderer

	Logger *slog.Logger
}

// Dataset is the result of a scan: classes sorted by name and items grouped
// by class in natural file order.
type Dataset struct {
	Root    string
	Classes []string
	Items   []classify.Item
}

// Count returns the number of items per class.
func (d *Dataset) Count(class string) int {
	n := 0
	for _, it := range d.Items {
		if it.Class == class {
			n++
		}
	}
	return n
}

// Scan walks the immediate subfolders of root. Files directly inside root and
// nested folders below a class folder are ignored. Images are not read.
func Scan(ctx context.Context, root string, opts Options) (*Dataset, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	accept := make(map[string]bool, len(exts))
	for _, ext := range exts {
		accept[strings.ToLower(ext)] = true
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	ds := &Dataset{Root: root}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		class := entry.Name()
		items, err := scanClass(class, filepath.Join(root, class), accept, opts, logger)
		if err != nil {
			return nil, err
		}

		ds.Classes = append(ds.Classes, class)
		ds.Items = append(ds.Items, items...)
	}

	logger.Info("dataset scanned", "root", root, "classes", len(ds.Classes), "items", len(ds.Items))
	return ds, nil
}

func scanClass(class, dir string, accept map[string]bool, opts Options, logger *slog.Logger) ([]classify.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read class %s: %w", class, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.SortStableFunc(names, naturalCompare)

	items := make([]classify.Item, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		ext := strings.ToLower(filepath.Ext(name))

		switch {
		case ext == ".pdf" && opts.Pages != nil:
			pages, err := pageItems(class, path, opts.Pages)
			if err != nil {
				logger.Warn("skipping scouting sheet", "class", class, "file", name, "error", err)
				continue
			}
			items = append(items, pages...)
		case accept[ext]:
			img := NewFile(path, opts.MaxImageSize)
			items = append(items, classify.Item{Class: class, FileID: img.ID(), Image: img})
		}
	}

	return items, nil
}

func pageItems(class, path string, r *PageRenderer) ([]classify.Item, error) {
	count, err := r.PageCount(path)
	if err != nil {
		return nil, err
	}

	items := make([]classify.Item, 0, count)
	for n := 1; n <= count; n++ {
		page := r.Page(class, path, n)
		items = append(items, classify.Item{Class: class, FileID: page.ID(), Image: page})
	}
	return items, nil
}
