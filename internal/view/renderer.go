package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/readme"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var sharedTemplates = []string{
	"templates/layout.gohtml",
	"templates/sidebar.gohtml",
	"templates/partials.gohtml",
}

// Page names accepted by Renderer.
const (
	PageReadme = "readme"
	PageItem   = "item"
	PageError  = "error"
)

// Site carries site-wide settings shown on every page.
type Site struct {
	Title       string
	Description string
	LiveReload  bool
}

// Layout is the page shell data.
type Layout struct {
	Site        Site
	Title       string
	Description string
	Package     string
	Version     string
	Versions    []string
	Sidebar     []sidebar.Section
}

// PackagePath is the README route of the current package version.
func (l Layout) PackagePath() string {
	if l.Package == "" || l.Version == "" {
		return ""
	}
	return apimodel.PackagePath(l.Package, l.Version)
}

// ReadmeData is the data of a README page.
type ReadmeData struct {
	Layout
	Readme *readme.Page
}

// ItemData is the data of an item page.
type ItemData struct {
	Layout
	Item *ItemView
}

// ErrorData is the data of an error page.
type ErrorData struct {
	Layout
	Status     int
	StatusText string
	Message    string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	md    *markdown.Renderer
	site  Site
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New(md *markdown.Renderer, site Site) (*Renderer, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, sharedTemplates...)
	if err != nil {
		return nil, fmt.Errorf("parse layout templates: %w", err)
	}
	r := &Renderer{md: md, site: site, pages: make(map[string]*template.Template)}
	for _, page := range []string{PageReadme, PageItem, PageError} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", page, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+page+".gohtml"); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Site returns the site settings applied to every page.
func (r *Renderer) Site() Site { return r.site }

// Readme renders a README page.
func (r *Renderer) Readme(w io.Writer, l Layout, page *readme.Page) error {
	if l.Title == "" {
		l.Title = page.Title
	}
	if l.Description == "" {
		l.Description = page.Description
	}
	return r.execute(w, PageReadme, ReadmeData{Layout: r.withSite(l), Readme: page})
}

// Item renders the page of a top-level API item.
func (r *Renderer) Item(w io.Writer, l Layout, m *apimodel.Model, it *apimodel.Item) error {
	v, err := r.ItemView(m, it)
	if err != nil {
		return err
	}
	if l.Title == "" {
		l.Title = it.Name
	}
	return r.execute(w, PageItem, ItemData{Layout: r.withSite(l), Item: v})
}

// Error renders a page-level error.
func (r *Renderer) Error(w io.Writer, l Layout, status int, message string) error {
	if l.Title == "" {
		l.Title = http.StatusText(status)
	}
	return r.execute(w, PageError, ErrorData{
		Layout:     r.withSite(l),
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

// WriteHighlightCSS writes the chroma stylesheet for code blocks.
func (r *Renderer) WriteHighlightCSS(w io.Writer) error {
	return r.md.WriteCSS(w)
}

// execute renders into a buffer first so a template error never leaves a
// half-written response.
func (r *Renderer) execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute %s template: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) withSite(l Layout) Layout {
	l.Site = r.site
	return l
}

// Static returns the embedded static assets (CSS, JS) rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded directory always exists
	}
	return sub
}

var funcs = template.FuncMap{
	"itemPath":    apimodel.ItemPath,
	"packagePath": apimodel.PackagePath,
	"lower":       strings.ToLower,
	"kindLabel":   kindLabel,
}

func kindLabel(k apimodel.Kind) string {
	switch k {
	case apimodel.KindTypeAlias:
		return "Type alias"
	case apimodel.KindPropertySignature:
		return "Property"
	case apimodel.KindMethodSignature:
		return "Method"
	case apimodel.KindEnumMember:
		return "Enum member"
	}
	return string(k)
}
