package apimodel

import (
	"strings"

	"git.home.luguber.info/inful/docsite/internal/tsdoc"
)

// ParameterDescriptor is a parameter merged with its documentation.
// Description is Markdown; empty means undocumented.
type ParameterDescriptor struct {
	Name        string
	TypeExcerpt Excerpt
	IsOptional  bool
	IsRest      bool
	Description string
}

// ResolveParameters pairs item's parameters with @param blocks from comment.
// Blocks are matched by name; a parameter without a matching block falls
// back to the block at the same position in comment, then in each fallback
// (typically sibling overloads). A positional block that names another
// parameter of item is never borrowed.
func ResolveParameters(item *Item, comment *tsdoc.Comment, fallbacks ...*tsdoc.Comment) []ParameterDescriptor {
	out := make([]ParameterDescriptor, 0, len(item.Parameters))
	for idx, p := range item.Parameters {
		d := ParameterDescriptor{
			Name:        p.Name,
			TypeExcerpt: p.TypeExcerpt,
			IsOptional:  p.IsOptional,
			IsRest:      p.IsRest,
		}
		if desc, ok := comment.Param(p.Name); ok {
			d.Description = desc
		} else if block, ok := positional(idx, comment, fallbacks); ok && !item.hasParameter(block.Name) {
			d.Description = block.Content
		}
		out = append(out, d)
	}
	return out
}

func positional(idx int, comment *tsdoc.Comment, fallbacks []*tsdoc.Comment) (tsdoc.ParamBlock, bool) {
	for _, c := range append([]*tsdoc.Comment{comment}, fallbacks...) {
		if c != nil && idx < len(c.Params) && c.Params[idx].Content != "" {
			return c.Params[idx], true
		}
	}
	return tsdoc.ParamBlock{}, false
}

// Parameters resolves item's parameters using its own doc comment and those of its overloads.
func (m *Model) Parameters(item *Item) []ParameterDescriptor {
	var fallbacks []*tsdoc.Comment
	for _, sib := range item.Siblings() {
		if c := m.Comment(sib); c != nil {
			fallbacks = append(fallbacks, c)
		}
	}
	return ResolveParameters(item, m.Comment(item), fallbacks...)
}

// ParametersString renders a parameter list as "name?: Type, other: Type".
func ParametersString(item *Item) string {
	var b strings.Builder
	for i, p := range item.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.IsRest {
			b.WriteString("...")
		}
		b.WriteString(p.Name)
		if p.IsOptional {
			b.WriteByte('?')
		}
		if t := strings.TrimSpace(p.TypeExcerpt.Text()); t != "" {
			b.WriteString(": ")
			b.WriteString(t)
		}
	}
	return b.String()
}

func (i *Item) hasParameter(name string) bool {
	for _, p := range i.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}
