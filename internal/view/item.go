package view

import (
	"cmp"
	"slices"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
)

// ItemView assembles the page data for a top-level item.
func (r *Renderer) ItemView(m *apimodel.Model, it *apimodel.Item) (*ItemView, error) {
	doc, err := r.Doc(m.Comment(it))
	if err != nil {
		return nil, err
	}
	v := &ItemView{
		Kind:       it.Kind,
		Name:       it.Name,
		Signature:  ExcerptHTML(m, signatureExcerpt(it.Excerpt)),
		Doc:        doc,
		SourcePath: it.FileURLPath,
	}
	for _, ex := range it.ExtendsExcerpts {
		if !ex.IsEmpty() {
			v.Extends = append(v.Extends, ExcerptHTML(m, ex))
		}
	}
	for _, ex := range it.ImplementsExcerpts {
		if !ex.IsEmpty() {
			v.Implements = append(v.Implements, ExcerptHTML(m, ex))
		}
	}
	if v.TypeParameters, err = r.typeParameters(m, it); err != nil {
		return nil, err
	}

	switch it.Kind {
	case apimodel.KindClass, apimodel.KindInterface:
		err = r.fillMembers(m, it, v)
	case apimodel.KindEnum:
		for _, member := range it.MembersOf(apimodel.KindEnumMember) {
			ev, err := r.EnumMember(m, member)
			if err != nil {
				return nil, err
			}
			v.EnumMembers = append(v.EnumMembers, ev)
		}
	case apimodel.KindFunction:
		v.Parameters, err = r.ParameterRows(m, it)
		v.ReturnType = ExcerptHTML(m, it.ReturnTypeExcerpt)
		v.Overloads = overloads(m, it)
	case apimodel.KindTypeAlias, apimodel.KindVariable:
		v.Type = ExcerptHTML(m, it.TypeExcerpt)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Renderer) fillMembers(m *apimodel.Model, it *apimodel.Item, v *ItemView) error {
	if ctors := it.MembersOf(apimodel.KindConstructor); len(ctors) > 0 {
		ctor, err := r.Constructor(m, ctors[0])
		if err != nil {
			return err
		}
		v.Constructor = ctor
	}
	for _, member := range it.Members {
		switch member.Kind {
		case apimodel.KindProperty, apimodel.KindPropertySignature:
			mv, err := r.member(m, member)
			if err != nil {
				return err
			}
			v.Properties = append(v.Properties, mv)
		case apimodel.KindMethod, apimodel.KindMethodSignature:
			mv, err := r.member(m, member)
			if err != nil {
				return err
			}
			v.Methods = append(v.Methods, mv)
		}
	}
	return nil
}

func (r *Renderer) typeParameters(m *apimodel.Model, it *apimodel.Item) ([]TypeParameterRow, error) {
	if len(it.TypeParameters) == 0 {
		return nil, nil
	}
	c := m.Comment(it)
	rows := make([]TypeParameterRow, 0, len(it.TypeParameters))
	for _, tp := range it.TypeParameters {
		var content string
		if c != nil {
			for _, block := range c.TypeParams {
				if block.Name == tp.Name {
					content = block.Content
					break
				}
			}
		}
		desc, err := r.describe(content)
		if err != nil {
			return nil, err
		}
		rows = append(rows, TypeParameterRow{
			Name:        tp.Name,
			Constraint:  ExcerptHTML(m, tp.ConstraintExcerpt),
			Default:     ExcerptHTML(m, tp.DefaultExcerpt),
			Optional:    yesNo(tp.IsOptional),
			Description: desc,
		})
	}
	return rows, nil
}

// overloads lists every overload of a function, including it, when there is more than one.
func overloads(m *apimodel.Model, it *apimodel.Item) []OverloadLink {
	siblings := it.Siblings()
	if len(siblings) == 0 {
		return nil
	}
	all := append([]*apimodel.Item{it}, siblings...)
	links := make([]OverloadLink, 0, len(all))
	for _, o := range all {
		href, ok := m.Path(o)
		if !ok {
			continue
		}
		idx := o.OverloadIndex
		if idx == 0 {
			idx = 1
		}
		links = append(links, OverloadLink{Index: idx, Href: href, Active: o == it})
	}
	slices.SortFunc(links, func(a, b OverloadLink) int { return cmp.Compare(a.Index, b.Index) })
	return links
}
