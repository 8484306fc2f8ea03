package apimodel

import (
	"strconv"
	"strings"
)

// Parameter is one entry of a function-like item's parameter list.
type Parameter struct {
	Name        string
	TypeExcerpt Excerpt
	IsOptional  bool
	IsRest      bool
}

// TypeParameter is a generic type parameter with its optional constraint and default.
type TypeParameter struct {
	Name              string
	ConstraintExcerpt Excerpt
	DefaultExcerpt    Excerpt
	IsOptional        bool
}

// Item is a declaration in the API model.
type Item struct {
	Kind               Kind
	Name               string
	CanonicalReference string
	DocComment         string
	ReleaseTag         string
	FileURLPath        string

	Excerpt            Excerpt
	TypeExcerpt        Excerpt
	InitializerExcerpt Excerpt
	ReturnTypeExcerpt  Excerpt
	ExtendsExcerpts    []Excerpt
	ImplementsExcerpts []Excerpt

	Parameters     []Parameter
	TypeParameters []TypeParameter
	Members        []*Item

	OverloadIndex int
	IsStatic      bool
	IsOptional    bool
	IsReadonly    bool
	IsProtected   bool
	IsAbstract    bool

	Parent *Item
}

// Href is the route segment of a top-level item: name, a colon and the
// lowercased kind, followed by the overload index when it is greater than one.
func (i *Item) Href() string {
	href := i.Name + ":" + strings.ToLower(string(i.Kind))
	if i.OverloadIndex > 1 {
		href += ":" + strconv.Itoa(i.OverloadIndex)
	}
	return href
}

// MembersOf returns the direct members of kind k in declaration order.
func (i *Item) MembersOf(kinds ...Kind) []*Item {
	var out []*Item
	for _, m := range i.Members {
		for _, k := range kinds {
			if m.Kind == k {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Siblings returns the other overloads sharing this item's name and kind.
func (i *Item) Siblings() []*Item {
	if i.Parent == nil {
		return nil
	}
	var out []*Item
	for _, m := range i.Parent.Members {
		if m != i && m.Name == i.Name && m.Kind == i.Kind {
			out = append(out, m)
		}
	}
	return out
}

// Signature returns the declaration text with the leading "export declare" noise removed.
func (i *Item) Signature() string {
	text := strings.TrimSpace(i.Excerpt.Text())
	text = strings.TrimPrefix(text, "export ")
	text = strings.TrimPrefix(text, "declare ")
	return strings.TrimSuffix(text, ";")
}

// ParseHref splits a route segment produced by Href into its parts.
// A missing overload suffix yields overload index 1.
func ParseHref(segment string) (name string, kind string, overload int, ok bool) {
	parts := strings.Split(segment, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, false
	}
	overload = 1
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			return "", "", 0, false
		}
		overload = n
	}
	return parts[0], parts[1], overload, true
}
