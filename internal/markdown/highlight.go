package markdown

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeBlockRenderer replaces goldmark's <pre><code> output with chroma-highlighted markup.
type codeBlockRenderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newCodeBlockRenderer(style *chroma.Style, lineNumbers bool, tabWidth int) *codeBlockRenderer {
	return &codeBlockRenderer{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(lineNumbers),
			chromahtml.TabWidth(tabWidth),
		),
	}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := ""
	if l := n.Language(source); l != nil {
		lang = string(l)
	}
	return ast.WalkSkipChildren, r.write(w, lang, blockText(n, source))
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return ast.WalkSkipChildren, r.write(w, "", blockText(node, source))
}

func (r *codeBlockRenderer) write(w util.BufWriter, lang, code string) error {
	_, _ = w.WriteString(`<div class="code-block"`)
	if lang != "" {
		_, _ = fmt.Fprintf(w, ` data-lang="%s"><span class="code-lang">%s</span>`, html.EscapeString(lang), html.EscapeString(lang))
	} else {
		_ = w.WriteByte('>')
	}
	if err := Highlight(w, r.formatter, r.style, lang, code); err != nil {
		return err
	}
	_, _ = w.WriteString("</div>\n")
	return nil
}

// Highlight tokenises code with the lexer registered for lang and writes HTML.
// Unknown languages fall back to plain text.
func Highlight(w io.Writer, f *chromahtml.Formatter, style *chroma.Style, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenise %q code block: %w", lang, err)
	}
	if err := f.Format(w, style, iterator); err != nil {
		return fmt.Errorf("format %q code block: %w", lang, err)
	}
	return nil
}

func blockText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}
