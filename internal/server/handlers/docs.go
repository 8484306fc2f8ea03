package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/readme"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/view"
)

// DefaultVersion is preferred when redirecting a bare package URL.
const DefaultVersion = "main"

// ModelSource loads API models by package and version.
type ModelSource interface {
	Load(ctx context.Context, pkg, version string) (*apimodel.Model, error)
	Versions(pkg string) ([]string, error)
}

// ReadmeSource loads rendered README pages by package.
type ReadmeSource interface {
	Load(ctx context.Context, pkg string) (*readme.Page, error)
}

// DocsHandlers serves the HTML documentation pages.
type DocsHandlers struct {
	models   ModelIndex
	readmes  ReadmeSource
	view     *view.Renderer
	errors   *derrors.HTTPErrorAdapter
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewDocsHandlers wires the page handlers. A nil recorder or logger falls back to a no-op recorder and slog.Default.
func NewDocsHandlers(models ModelIndex, readmes ReadmeSource, v *view.Renderer, adapter *derrors.HTTPErrorAdapter, recorder metrics.Recorder, logger *slog.Logger) *DocsHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	if adapter == nil {
		adapter = derrors.NewHTTPErrorAdapter(logger)
	}
	return &DocsHandlers{
		models:   models,
		readmes:  readmes,
		view:     v,
		errors:   adapter,
		recorder: metrics.OrNoop(recorder),
		logger:   logger,
	}
}

// HandleIndex redirects the site root to the first package.
func (h *DocsHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.models.Packages()
	if err == nil && len(pkgs) == 0 {
		err = derrors.NotFoundError("no packages available").Build()
	}
	if err != nil {
		h.fail(w, r, view.PageReadme, view.Layout{}, err)
		return
	}
	http.Redirect(w, r, "/docs/packages/"+url.PathEscape(pkgs[0]), http.StatusFound)
}

// HandlePackage redirects /docs/packages/{package} to its default version.
func (h *DocsHandlers) HandlePackage(w http.ResponseWriter, r *http.Request) {
	pkg := r.PathValue("package")
	versions, err := h.models.Versions(pkg)
	if err == nil && len(versions) == 0 {
		err = derrors.NotFoundError("package has no API models").WithContext("package", pkg).Build()
	}
	if err != nil {
		h.fail(w, r, view.PageReadme, view.Layout{}, err)
		return
	}
	version := versions[len(versions)-1]
	if slices.Contains(versions, DefaultVersion) {
		version = DefaultVersion
	}
	http.Redirect(w, r, apimodel.PackagePath(pkg, version), http.StatusFound)
}

// HandleReadme serves GET /docs/packages/{package}/{version}.
func (h *DocsHandlers) HandleReadme(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	pkg, version := r.PathValue("package"), r.PathValue("version")

	m, err := h.models.Load(r.Context(), pkg, version)
	if err != nil {
		h.fail(w, r, view.PageReadme, view.Layout{}, err)
		return
	}
	layout := h.layout(m, "")

	page, err := h.readmes.Load(r.Context(), pkg)
	if err != nil {
		h.fail(w, r, view.PageReadme, layout, err)
		return
	}

	var buf bytes.Buffer
	if err := h.view.Readme(&buf, layout, page); err != nil {
		h.fail(w, r, view.PageReadme, layout, err)
		return
	}
	h.send(w, r, view.PageReadme, start, &buf, logfields.Package(pkg), logfields.Version(version))
}

// HandleItem serves GET /docs/packages/{package}/{version}/{item}.
func (h *DocsHandlers) HandleItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	pkg, version, segment := r.PathValue("package"), r.PathValue("version"), r.PathValue("item")

	m, err := h.models.Load(r.Context(), pkg, version)
	if err != nil {
		h.fail(w, r, view.PageItem, view.Layout{}, err)
		return
	}
	layout := h.layout(m, segment)

	it, ok := m.ItemByHref(segment)
	if !ok {
		h.fail(w, r, view.PageItem, layout, derrors.NotFoundError("API item not found").
			WithContext("package", pkg).
			WithContext("version", version).
			WithContext("item", segment).
			Build())
		return
	}

	var buf bytes.Buffer
	if err := h.view.Item(&buf, layout, m, it); err != nil {
		h.fail(w, r, view.PageItem, layout, err)
		return
	}
	h.send(w, r, view.PageItem, start, &buf,
		logfields.Package(pkg), logfields.Version(version), logfields.Item(segment))
}

// WriteError renders err as a standalone error page.
func (h *DocsHandlers) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	h.fail(w, r, view.PageError, view.Layout{}, err)
}

func (h *DocsHandlers) layout(m *apimodel.Model, segment string) view.Layout {
	versions, err := h.models.Versions(m.PackageName)
	if err != nil {
		h.logger.Debug("Failed to list versions", logfields.Package(m.PackageName), logfields.Error(err))
	}
	return view.Layout{
		Package:  m.PackageName,
		Version:  m.Version,
		Versions: versions,
		Sidebar:  sidebar.Build(m, segment),
	}
}

func (h *DocsHandlers) send(w http.ResponseWriter, r *http.Request, pageKind string, start time.Time, body *bytes.Buffer, attrs ...slog.Attr) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := body.WriteTo(w); err != nil {
		h.logger.DebugContext(r.Context(), "Failed writing page", logfields.Error(err))
	}
	d := time.Since(start)
	h.recorder.ObservePageRender(pageKind, d)
	h.recorder.IncPageResult(pageKind, metrics.ResultSuccess)
	h.logger.LogAttrs(r.Context(), slog.LevelDebug, "Rendered page",
		append(attrs, logfields.PageKind(pageKind), logfields.Duration(d))...)
}

// fail renders the error page with the status derived from the error category.
func (h *DocsHandlers) fail(w http.ResponseWriter, r *http.Request, pageKind string, l view.Layout, err error) {
	status := h.errors.StatusCodeFor(err)
	h.errors.Log(r, err)

	result := metrics.ResultError
	if status == http.StatusNotFound {
		result = metrics.ResultNotFound
	}
	h.recorder.IncPageResult(pageKind, result)

	message := publicMessage(err, status)
	var buf bytes.Buffer
	if rerr := h.view.Error(&buf, l, status, message); rerr != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render error page", logfields.Error(rerr))
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// publicMessage hides causes of unclassified and server-side failures.
func publicMessage(err error, status int) string {
	c, ok := derrors.AsClassified(err)
	if !ok || status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return c.Message()
}
