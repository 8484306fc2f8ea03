// Package readme loads and renders package README pages.
package readme

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"sync"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/foundation/segment"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// DefaultFilename is the README file looked up inside each package directory.
const DefaultFilename = "home-README.md"

// Page is a rendered README.
type Page struct {
	Package     string
	Title       string
	Description string
	HTML        template.HTML
	Headings    []markdown.Heading
}

// Loader reads <package>/<filename> from an fs.FS and renders it.
type Loader struct {
	fsys     fs.FS
	filename string
	renderer *markdown.Renderer
	cache    bool
	recorder metrics.Recorder
	logger   *slog.Logger

	mu    sync.RWMutex
	pages map[string]*Page
	// gen is bumped by Invalidate and Purge; a render only caches its page
	// if gen is unchanged since the render started.
	gen uint64
}

// Option configures a Loader.
type Option func(*Loader)

// WithFilename overrides DefaultFilename.
func WithFilename(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.filename = name
		}
	}
}

// WithCache toggles caching of rendered pages (default on).
func WithCache(enabled bool) Option {
	return func(l *Loader) { l.cache = enabled }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loader) { l.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a Loader over fsys using renderer for Markdown.
func NewLoader(fsys fs.FS, renderer *markdown.Renderer, opts ...Option) *Loader {
	l := &Loader{
		fsys:     fsys,
		filename: DefaultFilename,
		renderer: renderer,
		cache:    true,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		pages:    make(map[string]*Page),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the rendered README of pkg. A missing file yields a NotFound
// classified error; identifiers that are not a single path segment yield a
// validation error.
func (l *Loader) Load(ctx context.Context, pkg string) (*Page, error) {
	if err := segment.Validate("package", pkg); err != nil {
		return nil, err
	}
	var gen uint64
	if l.cache {
		l.mu.RLock()
		p, ok := l.pages[pkg]
		gen = l.gen
		l.mu.RUnlock()
		l.recorder.IncCacheLookup(metrics.CacheReadme, ok)
		if ok {
			return p, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := l.render(pkg)
	l.recorder.IncReadmeLoad(err == nil)
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "Rendered README",
		logfields.Package(pkg),
		slog.Int("headings", len(p.Headings)))

	if l.cache {
		l.mu.Lock()
		if l.gen == gen {
			l.pages[pkg] = p
		}
		l.mu.Unlock()
	}
	return p, nil
}

func (l *Loader) render(pkg string) (*Page, error) {
	name := path.Join(pkg, l.filename)
	src, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NotFoundError("README not found").
				WithContext("package", pkg).
				Build()
		}
		return nil, derrors.FileSystemError("failed to read README").
			WithCause(err).
			WithContext("path", name).
			Build()
	}

	meta, body, err := frontmatter.Parse(src)
	if err != nil {
		return nil, derrors.RenderError("invalid README frontmatter").
			WithCause(err).
			WithContext("package", pkg).
			Build()
	}
	doc, err := l.renderer.Render(body)
	if err != nil {
		return nil, derrors.RenderError("failed to render README").
			WithCause(err).
			WithContext("package", pkg).
			Build()
	}

	page := &Page{
		Package:     pkg,
		Title:       meta.Title,
		Description: meta.Description,
		HTML:        doc.HTML,
		Headings:    doc.Headings,
	}
	if page.Title == "" {
		page.Title = firstTitle(doc.Headings, pkg)
	}
	return page, nil
}

func firstTitle(headings []markdown.Heading, fallback string) string {
	for _, h := range headings {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	return fallback
}

// Invalidate drops the cached page of pkg.
func (l *Loader) Invalidate(pkg string) {
	l.mu.Lock()
	delete(l.pages, pkg)
	l.gen++
	l.mu.Unlock()
	l.recorder.IncCacheInvalidation(metrics.CacheReadme)
}

// Cached reports how many rendered pages are held in memory.
func (l *Loader) Cached() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pages)
}

// Purge drops every cached page.
func (l *Loader) Purge() {
	l.mu.Lock()
	l.pages = make(map[string]*Page)
	l.gen++
	l.mu.Unlock()
	l.recorder.IncCacheInvalidation(metrics.CacheReadme)
}
