package tsdoc

import (
	"strings"
)

// rewriteInlineTags converts {@link ...}, {@linkcode ...} and {@linkplain ...}
// into Markdown. {@inheritDoc} and unknown inline tags are dropped.
func rewriteInlineTags(text string, resolve LinkResolver) string {
	var b strings.Builder
	for {
		start := strings.Index(text, "{@")
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			b.WriteString(text)
			return b.String()
		}
		end += start

		b.WriteString(text[:start])
		b.WriteString(renderInlineTag(text[start+2:end], resolve))
		text = text[end+1:]
	}
}

func renderInlineTag(body string, resolve LinkResolver) string {
	tag, rest, _ := strings.Cut(strings.TrimSpace(body), " ")
	switch tag {
	case "link", "linkcode", "linkplain":
		return renderLink(strings.TrimSpace(rest), tag == "linkcode", resolve)
	default:
		return ""
	}
}

func renderLink(rest string, code bool, resolve LinkResolver) string {
	target, text, hasText := strings.Cut(rest, "|")
	target = strings.TrimSpace(target)
	text = strings.TrimSpace(text)
	if !hasText || text == "" {
		text = displayName(target)
	}
	label := text
	if code {
		label = "`" + text + "`"
	}

	if isURL(target) {
		return "[" + label + "](" + target + ")"
	}
	if resolve != nil {
		if href, ok := resolve(target); ok {
			return "[" + label + "](" + href + ")"
		}
	}
	return "`" + text + "`"
}

// displayName strips declaration reference decorations such as "pkg!" and ":class".
func displayName(target string) string {
	if _, after, ok := strings.Cut(target, "!"); ok {
		target = after
	}
	target = strings.Trim(target, "()")
	if name, _, ok := strings.Cut(target, ":"); ok {
		target = name
	}
	return target
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
