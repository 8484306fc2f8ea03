package view

import (
	"html/template"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
	"git.home.luguber.info/inful/docsite/internal/tsdoc"
)

// DocView holds the rendered sections of a doc comment.
type DocView struct {
	Summary      template.HTML
	Remarks      template.HTML
	Returns      template.HTML
	Deprecated   template.HTML
	IsDeprecated bool
	DefaultValue template.HTML
	Examples     []template.HTML
	SeeAlso      []template.HTML
	Throws       []template.HTML
	Modifiers    []string
}

// IsEmpty reports whether there is nothing to show.
func (d DocView) IsEmpty() bool {
	return d.Summary == "" && d.Remarks == "" && d.Returns == "" && !d.IsDeprecated &&
		d.DefaultValue == "" && len(d.Examples) == 0 && len(d.SeeAlso) == 0 && len(d.Throws) == 0
}

// ParameterRow is one row of a parameter table.
type ParameterRow struct {
	Name        string
	Type        template.HTML
	Optional    string
	Description template.HTML
}

// ConstructorView is the constructor section of a class page.
type ConstructorView struct {
	Heading    string
	Doc        DocView
	Parameters []ParameterRow
}

// EnumMemberView is one member of an enum page.
type EnumMemberView struct {
	ID          string
	Name        string
	Initializer template.HTML
	Summary     template.HTML
}

// MemberView is a property or method of a class or interface.
type MemberView struct {
	ID         string
	Name       string
	Kind       apimodel.Kind
	Signature  template.HTML
	Doc        DocView
	Parameters []ParameterRow
	IsStatic   bool
	IsReadonly bool
	IsOptional bool
	IsAbstract bool
	Protected  bool
}

// TypeParameterRow documents a generic type parameter.
type TypeParameterRow struct {
	Name        string
	Constraint  template.HTML
	Default     template.HTML
	Optional    string
	Description template.HTML
}

// OverloadLink points at another overload of a function.
type OverloadLink struct {
	Index  int
	Href   string
	Active bool
}

// ItemView is everything an item page shows.
type ItemView struct {
	Kind           apimodel.Kind
	Name           string
	Signature      template.HTML
	Doc            DocView
	Extends        []template.HTML
	Implements     []template.HTML
	TypeParameters []TypeParameterRow
	Constructor    *ConstructorView
	Properties     []MemberView
	Methods        []MemberView
	EnumMembers    []EnumMemberView
	Parameters     []ParameterRow
	ReturnType     template.HTML
	Type           template.HTML
	Overloads      []OverloadLink
	SourcePath     string
}

// ParameterRows builds the parameter table of a function-like item.
// Optional is "Yes" or "No"; Description is the rendered @param block or
// the literal "None".
func (r *Renderer) ParameterRows(m *apimodel.Model, item *apimodel.Item) ([]ParameterRow, error) {
	params := m.Parameters(item)
	rows := make([]ParameterRow, 0, len(params))
	for _, p := range params {
		desc, err := r.describe(p.Description)
		if err != nil {
			return nil, err
		}
		name := p.Name
		if p.IsRest {
			name = "..." + name
		}
		rows = append(rows, ParameterRow{
			Name:        name,
			Type:        ExcerptHTML(m, p.TypeExcerpt),
			Optional:    yesNo(p.IsOptional),
			Description: desc,
		})
	}
	return rows, nil
}

// Constructor builds the constructor section: a "constructor(...)" heading,
// the doc comment and the parameter table.
func (r *Renderer) Constructor(m *apimodel.Model, ctor *apimodel.Item) (*ConstructorView, error) {
	doc, err := r.Doc(m.Comment(ctor))
	if err != nil {
		return nil, err
	}
	rows, err := r.ParameterRows(m, ctor)
	if err != nil {
		return nil, err
	}
	return &ConstructorView{
		Heading:    "constructor(" + apimodel.ParametersString(ctor) + ")",
		Doc:        doc,
		Parameters: rows,
	}, nil
}

// EnumMember builds one enum member: its anchor id is the member name and the
// initializer and summary are included when present.
func (r *Renderer) EnumMember(m *apimodel.Model, member *apimodel.Item) (EnumMemberView, error) {
	v := EnumMemberView{ID: member.Name, Name: member.Name}
	if !member.InitializerExcerpt.IsEmpty() {
		v.Initializer = ExcerptHTML(m, member.InitializerExcerpt)
	}
	if c := m.Comment(member); c != nil {
		summary, err := r.block(c.Summary)
		if err != nil {
			return EnumMemberView{}, err
		}
		v.Summary = summary
	}
	return v, nil
}

// Doc renders every section of c. A nil comment yields an empty DocView.
func (r *Renderer) Doc(c *tsdoc.Comment) (DocView, error) {
	var d DocView
	if c == nil {
		return d, nil
	}
	var err error
	render := func(src string) template.HTML {
		if err != nil {
			return ""
		}
		var out template.HTML
		out, err = r.block(src)
		return out
	}
	renderAll := func(srcs []string) []template.HTML {
		var out []template.HTML
		for _, s := range srcs {
			if h := render(s); h != "" {
				out = append(out, h)
			}
		}
		return out
	}

	d.Summary = render(c.Summary)
	d.Remarks = render(c.Remarks)
	d.Returns = render(c.Returns)
	d.Deprecated = render(c.Deprecated)
	d.IsDeprecated = c.IsDeprecated
	d.DefaultValue = render(c.DefaultValue)
	d.Examples = renderAll(c.Examples)
	d.SeeAlso = renderAll(c.SeeAlso)
	d.Throws = renderAll(c.Throws)
	for _, mod := range c.Modifiers {
		d.Modifiers = append(d.Modifiers, strings.TrimPrefix(mod, "@"))
	}
	if err != nil {
		return DocView{}, err
	}
	return d, nil
}

func (r *Renderer) member(m *apimodel.Model, it *apimodel.Item) (MemberView, error) {
	doc, err := r.Doc(m.Comment(it))
	if err != nil {
		return MemberView{}, err
	}
	v := MemberView{
		ID:         it.Name,
		Name:       it.Name,
		Kind:       it.Kind,
		Doc:        doc,
		IsStatic:   it.IsStatic,
		IsReadonly: it.IsReadonly,
		IsOptional: it.IsOptional,
		IsAbstract: it.IsAbstract,
		Protected:  it.IsProtected,
	}
	if it.Kind.HasParameters() {
		if it.OverloadIndex > 1 {
			v.ID = it.Name + "-" + strconv.Itoa(it.OverloadIndex)
		}
		rows, err := r.ParameterRows(m, it)
		if err != nil {
			return MemberView{}, err
		}
		v.Parameters = rows
		v.Signature = callSignature(m, it)
	} else {
		v.Signature = propertySignature(m, it)
	}
	return v, nil
}

// callSignature renders "name(a?: T): R" with linked type references.
func callSignature(m *apimodel.Model, it *apimodel.Item) template.HTML {
	var b strings.Builder
	b.WriteString(template.HTMLEscapeString(it.Name))
	b.WriteByte('(')
	for i, p := range it.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.IsRest {
			b.WriteString("...")
		}
		b.WriteString(template.HTMLEscapeString(p.Name))
		if p.IsOptional {
			b.WriteByte('?')
		}
		if !p.TypeExcerpt.IsEmpty() {
			b.WriteString(": ")
			b.WriteString(string(ExcerptHTML(m, p.TypeExcerpt)))
		}
	}
	b.WriteByte(')')
	if !it.ReturnTypeExcerpt.IsEmpty() {
		b.WriteString(": ")
		b.WriteString(string(ExcerptHTML(m, it.ReturnTypeExcerpt)))
	}
	// #nosec G203 -- names are escaped and excerpts are escaped by ExcerptHTML.
	return template.HTML(b.String())
}

func propertySignature(m *apimodel.Model, it *apimodel.Item) template.HTML {
	var b strings.Builder
	b.WriteString(template.HTMLEscapeString(it.Name))
	if it.IsOptional {
		b.WriteByte('?')
	}
	if !it.TypeExcerpt.IsEmpty() {
		b.WriteString(": ")
		b.WriteString(string(ExcerptHTML(m, it.TypeExcerpt)))
	}
	// #nosec G203 -- see callSignature.
	return template.HTML(b.String())
}

// describe renders a parameter description, or "None" when there is none.
func (r *Renderer) describe(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "None", nil
	}
	return r.md.RenderInline(src)
}

func (r *Renderer) block(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	doc, err := r.md.Render([]byte(src))
	if err != nil {
		return "", err
	}
	return doc.HTML, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
