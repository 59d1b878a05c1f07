package dataset

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is a lazily loaded image on the local filesystem.
type File struct {
	id      string
	path    string
	maxSize int64
}

// NewFile creates an image handle for path. A maxSize of zero disables the limit.
func NewFile(path string, maxSize int64) *File {
	return &File{
		id:      filepath.Base(path),
		path:    path,
		maxSize: maxSize,
	}
}

// ID returns the file name.
func (f *File) ID() string { return f.id }

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Load reads the image bytes and resolves the content type, first by extension
// and then by sniffing the data.
func (f *File) Load(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", f.id, err)
	}
	if f.maxSize > 0 && info.Size() > f.maxSize {
		return nil, "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrImageTooLarge, f.id, info.Size(), f.maxSize)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", f.id, err)
	}

	contentType, err := detectContentType(f.path, data)
	if err != nil {
		return nil, "", err
	}

	return data, contentType, nil
}

func detectContentType(path string, data []byte) (string, error) {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ct)
	}
	return mediaType, nil
}
