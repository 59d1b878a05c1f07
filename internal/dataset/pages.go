package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/JaimeStill/pest-lab/pkg/storage"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const pdfContentType = "application/pdf"

// PageRenderer turns PDF scouting sheet pages into images and caches the
// rendered pages in storage.
type PageRenderer struct {
	store  storage.System
	format document.ImageFormat
	dpi    int
	logger *slog.Logger
}

// NewPageRenderer creates a renderer for the configured page format and DPI.
func NewPageRenderer(cfg *Config, store storage.System, logger *slog.Logger) (*PageRenderer, error) {
	format, err := document.ParseImageFormat(cfg.PageFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	return &PageRenderer{
		store:  store,
		format: format,
		dpi:    cfg.PageDPI,
		logger: logger.With("system", "pages"),
	}, nil
}

// PageCount reads the number of pages in the PDF at path.
func (r *PageRenderer) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	count, err := api.PageCount(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: page count: %v", ErrRenderFailed, err)
	}
	return count, nil
}

// Page returns a lazy image handle for page n (1-based) of the PDF at path.
func (r *PageRenderer) Page(class, path string, n int) *Page {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	return &Page{
		id:       fmt.Sprintf("%s#p%d", name, n),
		path:     path,
		number:   n,
		cacheKey: fmt.Sprintf("pages/%s/%s-p%d-%ddpi.%s", class, stem, n, r.dpi, r.format),
		renderer: r,
	}
}

func (r *PageRenderer) imageConfig() config.ImageConfig {
	cfg := config.ImageConfig{
		Format:  string(r.format),
		DPI:     r.dpi,
		Options: map[string]any{"background": "white"},
	}
	if r.format == document.JPEG {
		cfg.Quality = 90
	}
	return cfg
}

func (r *PageRenderer) render(ctx context.Context, p *Page) ([]byte, error) {
	if ok, err := r.store.Exists(ctx, p.cacheKey); err == nil && ok {
		return r.store.Retrieve(ctx, p.cacheKey)
	}

	doc, err := document.Open(p.path, pdfContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(r.imageConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	page, err := doc.ExtractPage(p.number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	data, err := page.ToImage(renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	if err := r.store.Store(ctx, p.cacheKey, data); err != nil {
		r.logger.Warn("failed to cache rendered page", "key", p.cacheKey, "error", err)
	}

	r.logger.Debug("page rendered", "image", p.id, "bytes", len(data))
	return data, nil
}

// Page is a single rendered page of a PDF scouting sheet.
type Page struct {
	id       string
	path     string
	number   int
	cacheKey string
	renderer *PageRenderer
}

// ID returns "{file}.pdf#p{n}".
func (p *Page) ID() string { return p.id }

// Number returns the 1-based page number.
func (p *Page) Number() int { return p.number }

// Load renders the page on first use and serves later loads from the cache.
func (p *Page) Load(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := p.renderer.render(ctx, p)
	if err != nil {
		return nil, "", err
	}
	contentType, err := p.renderer.format.MimeType()
	if err != nil {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
