// Package tsdoc parses TSDoc documentation comments attached to API model items.
//
// The parser understands the block tags used on reference pages (@remarks,
// @param, @typeParam, @returns, @deprecated, @defaultValue, @example, @see,
// @throws), collects modifier tags, and rewrites {@link} inline tags into
// Markdown links. Section bodies stay Markdown so they can go through the
// same renderer as README content.
package tsdoc

import (
	"strings"
)

// Comment is a parsed TSDoc comment. Section fields hold Markdown.
type Comment struct {
	Summary      string
	Remarks      string
	Returns      string
	Deprecated   string
	IsDeprecated bool
	DefaultValue string
	Params       []ParamBlock
	TypeParams   []ParamBlock
	Examples     []string
	SeeAlso      []string
	Throws       []string
	Modifiers    []string
}

// ParamBlock documents a single parameter or type parameter.
type ParamBlock struct {
	Name    string
	Content string
}

// LinkResolver maps a {@link} declaration reference to an href.
type LinkResolver func(target string) (href string, ok bool)

// Param returns the documentation of the named parameter.
func (c *Comment) Param(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, p := range c.Params {
		if p.Name == name {
			return p.Content, p.Content != ""
		}
	}
	return "", false
}

// IsEmpty reports whether the comment carries no renderable prose.
func (c *Comment) IsEmpty() bool {
	return c == nil || (c.Summary == "" && c.Remarks == "" && c.Returns == "" &&
		!c.IsDeprecated && c.DefaultValue == "" && len(c.Params) == 0 &&
		len(c.Examples) == 0 && len(c.SeeAlso) == 0 && len(c.Throws) == 0)
}

var modifierTags = map[string]struct{}{
	"@alpha":                {},
	"@beta":                 {},
	"@experimental":         {},
	"@public":               {},
	"@internal":             {},
	"@readonly":             {},
	"@override":             {},
	"@sealed":               {},
	"@virtual":              {},
	"@eventProperty":        {},
	"@packageDocumentation": {},
}

type section int

const (
	secSummary section = iota
	secRemarks
	secReturns
	secDeprecated
	secDefaultValue
	secParam
	secTypeParam
	secExample
	secSee
	secThrows
	secDiscard
)

var blockTags = map[string]section{
	"@remarks":        secRemarks,
	"@returns":        secReturns,
	"@return":         secReturns,
	"@deprecated":     secDeprecated,
	"@defaultValue":   secDefaultValue,
	"@default":        secDefaultValue,
	"@param":          secParam,
	"@typeParam":      secTypeParam,
	"@template":       secTypeParam,
	"@example":        secExample,
	"@see":            secSee,
	"@throws":         secThrows,
	"@privateRemarks": secDiscard,
}

// Parse parses a raw comment (with or without /** */ delimiters). It returns
// nil when the comment has no content at all.
func Parse(raw string, resolve LinkResolver) *Comment {
	lines := stripDelimiters(raw)
	if len(lines) == 0 {
		return nil
	}

	p := &parser{comment: &Comment{}, resolve: resolve}
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			p.appendLine(line)
			continue
		}
		if inFence {
			p.appendLine(line)
			continue
		}
		p.parseLine(line)
	}
	p.flush()

	if p.empty {
		return nil
	}
	return p.comment
}

type parser struct {
	comment *Comment
	resolve LinkResolver

	current section
	name    string
	buf     []string
	empty   bool
}

func (p *parser) parseLine(line string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "@") {
		p.appendLine(line)
		return
	}

	tag, rest, _ := strings.Cut(trimmed, " ")
	if _, ok := modifierTags[tag]; ok {
		p.comment.Modifiers = append(p.comment.Modifiers, tag)
		if rest = strings.TrimSpace(rest); rest != "" {
			p.parseLine(rest)
		}
		return
	}

	sec, ok := blockTags[tag]
	if !ok {
		p.appendLine(line)
		return
	}

	p.flush()
	p.current = sec
	p.name = ""
	rest = strings.TrimSpace(rest)
	if sec == secParam || sec == secTypeParam {
		p.name, rest = splitParamName(rest)
	}
	if sec == secDeprecated {
		p.comment.IsDeprecated = true
	}
	if rest != "" {
		p.appendLine(rest)
	}
}

func (p *parser) appendLine(line string) {
	p.buf = append(p.buf, line)
}

func (p *parser) flush() {
	content := p.render(strings.Join(p.buf, "\n"))
	p.buf = p.buf[:0]

	c := p.comment
	switch p.current {
	case secSummary:
		c.Summary = content
	case secRemarks:
		c.Remarks = joinSection(c.Remarks, content)
	case secReturns:
		c.Returns = joinSection(c.Returns, content)
	case secDeprecated:
		c.Deprecated = joinSection(c.Deprecated, content)
	case secDefaultValue:
		c.DefaultValue = content
	case secParam:
		if p.name != "" {
			c.Params = append(c.Params, ParamBlock{Name: p.name, Content: content})
		}
	case secTypeParam:
		if p.name != "" {
			c.TypeParams = append(c.TypeParams, ParamBlock{Name: p.name, Content: content})
		}
	case secExample:
		c.Examples = append(c.Examples, content)
	case secSee:
		if content != "" {
			c.SeeAlso = append(c.SeeAlso, content)
		}
	case secThrows:
		if content != "" {
			c.Throws = append(c.Throws, content)
		}
	case secDiscard:
	}
	p.empty = c.IsEmpty() && len(c.Modifiers) == 0 && len(c.TypeParams) == 0
}

func (p *parser) render(text string) string {
	return strings.TrimSpace(rewriteInlineTags(dedent(text), p.resolve))
}

func joinSection(existing, next string) string {
	switch {
	case existing == "":
		return next
	case next == "":
		return existing
	default:
		return existing + "\n\n" + next
	}
}

// splitParamName separates "name - description" (the hyphen is optional).
func splitParamName(rest string) (name, description string) {
	name, description, _ = strings.Cut(rest, " ")
	name = strings.TrimSuffix(name, "-")
	description = strings.TrimSpace(description)
	description = strings.TrimSpace(strings.TrimPrefix(description, "-"))
	return name, description
}

// stripDelimiters removes the comment markers and the leading " * " of each line.
func stripDelimiters(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimPrefix(line, " ")
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}

	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// dedent removes the indentation common to all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " "))
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return text
	}
	for i, l := range lines {
		if len(l) >= common {
			lines[i] = l[common:]
		}
	}
	return strings.Join(lines, "\n")
}
