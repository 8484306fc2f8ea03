package view

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
)

// ExcerptHTML renders an excerpt with its text escaped. Reference tokens that
// resolve to a page of m become links.
func ExcerptHTML(m *apimodel.Model, ex apimodel.Excerpt) template.HTML {
	var b strings.Builder
	for _, tok := range ex.Tokens {
		text := template.HTMLEscapeString(tok.Text)
		if tok.Kind == apimodel.TokenReference {
			if href, ok := referenceHref(m, tok.CanonicalReference); ok {
				b.WriteString(`<a class="ref" href="`)
				b.WriteString(template.HTMLEscapeString(href))
				b.WriteString(`">`)
				b.WriteString(text)
				b.WriteString(`</a>`)
				continue
			}
		}
		b.WriteString(text)
	}
	// #nosec G203 -- every token is escaped above.
	return template.HTML(b.String())
}

func referenceHref(m *apimodel.Model, ref string) (string, bool) {
	target, ok := m.FindByCanonicalReference(ref)
	if !ok {
		return "", false
	}
	return m.Path(target)
}

var declarationPrefixes = []string{"export declare ", "export default ", "export ", "declare "}

// signatureExcerpt drops the export/declare keywords and a trailing semicolon.
func signatureExcerpt(ex apimodel.Excerpt) apimodel.Excerpt {
	if len(ex.Tokens) == 0 {
		return ex
	}
	tokens := make([]apimodel.Token, len(ex.Tokens))
	copy(tokens, ex.Tokens)

	first := &tokens[0]
	for _, p := range declarationPrefixes {
		if strings.HasPrefix(first.Text, p) {
			first.Text = strings.TrimPrefix(first.Text, p)
			break
		}
	}
	last := &tokens[len(tokens)-1]
	trimmed := strings.TrimRight(last.Text, " \n\t")
	last.Text = strings.TrimSuffix(trimmed, ";")
	return apimodel.Excerpt{Tokens: tokens}
}
