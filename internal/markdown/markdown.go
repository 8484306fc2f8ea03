// Package markdown renders README and documentation Markdown to HTML.
//
// The pipeline is goldmark with GitHub Flavored Markdown, raw HTML
// passthrough and chroma syntax highlighting for code blocks. After
// rendering, every heading (including headings written as raw HTML) receives
// a GitHub-compatible slug id.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Options configures a Renderer.
type Options struct {
	HighlightStyle string
	LineNumbers    bool
	TabWidth       int
}

// Document is the result of rendering a Markdown source.
type Document struct {
	HTML     template.HTML
	Headings []Heading
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New builds a Renderer. An unknown highlight style falls back to chroma's default.
func New(opts Options) *Renderer {
	style := styles.Get(opts.HighlightStyle)
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	code := newCodeBlockRenderer(style, opts.LineNumbers, opts.TabWidth)

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(code, 100)),
		),
	)
	return &Renderer{md: md, style: style, formatter: code.formatter}
}

// Render converts a full Markdown document.
func (r *Renderer) Render(src []byte) (*Document, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	annotated, headings, err := annotateHeadings(buf.Bytes())
	if err != nil {
		return nil, err
	}
	// #nosec G203 -- raw HTML passthrough is intended for trusted README content.
	return &Document{HTML: template.HTML(annotated), Headings: headings}, nil
}

// RenderInline converts a short Markdown snippet such as a TSDoc section.
// A lone paragraph is unwrapped so the result can sit inside table cells.
func (r *Renderer) RenderInline(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	// #nosec G203 -- documentation comments come from the trusted API model.
	return template.HTML(out), nil
}

// WriteCSS writes the stylesheet matching the configured highlight style.
func (r *Renderer) WriteCSS(w io.Writer) error {
	return r.formatter.WriteCSS(w, r.style)
}
