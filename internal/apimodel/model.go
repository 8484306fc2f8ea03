package apimodel

import (
	"net/url"
	"strings"
	"sync"

	"git.home.luguber.info/inful/docsite/internal/tsdoc"
)

// Model is a decoded API model for one package version.
type Model struct {
	PackageName string
	Version     string
	Root        *Item

	byRef    map[string]*Item
	comments sync.Map // *Item -> *tsdoc.Comment
}

// NewModel indexes root for lookups. packageName and version are the route
// values the model was loaded for.
func NewModel(packageName, version string, root *Item) *Model {
	m := &Model{
		PackageName: packageName,
		Version:     version,
		Root:        root,
		byRef:       make(map[string]*Item),
	}
	var index func(*Item)
	index = func(it *Item) {
		if it.CanonicalReference != "" {
			if _, exists := m.byRef[it.CanonicalReference]; !exists {
				m.byRef[it.CanonicalReference] = it
			}
		}
		for _, child := range it.Members {
			index(child)
		}
	}
	if root != nil {
		index(root)
	}
	return m
}

// Members returns the members of every entry point in declaration order.
func (m *Model) Members() []*Item {
	if m == nil || m.Root == nil {
		return nil
	}
	var out []*Item
	for _, ep := range m.Root.Members {
		if ep.Kind == KindEntryPoint {
			out = append(out, ep.Members...)
		}
	}
	return out
}

// Lookup returns the first entry-point member with the given name and kind.
// kind is matched case-insensitively.
func (m *Model) Lookup(name string, kind Kind) (*Item, bool) {
	for _, it := range m.Members() {
		if it.Name == name && strings.EqualFold(string(it.Kind), string(kind)) {
			return it, true
		}
	}
	return nil, false
}

// ItemByHref resolves a route segment produced by Item.Href.
func (m *Model) ItemByHref(segment string) (*Item, bool) {
	name, kind, overload, ok := ParseHref(segment)
	if !ok {
		return nil, false
	}
	for _, it := range m.Members() {
		if it.Name != name || !strings.EqualFold(string(it.Kind), kind) {
			continue
		}
		if it.OverloadIndex == overload || (overload == 1 && it.OverloadIndex == 0) {
			return it, true
		}
	}
	return nil, false
}

// FindByCanonicalReference returns the item with exactly this canonical reference.
func (m *Model) FindByCanonicalReference(ref string) (*Item, bool) {
	if m == nil || ref == "" {
		return nil, false
	}
	it, ok := m.byRef[ref]
	return it, ok
}

// PackagePath is the README route of the model's package version.
func (m *Model) PackagePath() string {
	return PackagePath(m.PackageName, m.Version)
}

// Path returns the page URL of it: its own page for top-level items, or an
// anchor on the owning page for members. The second result is false for items
// that have no page.
func (m *Model) Path(it *Item) (string, bool) {
	switch {
	case it == nil || it.Parent == nil:
		return "", false
	case it.Parent.Kind == KindEntryPoint:
		return ItemPath(m.PackageName, m.Version, it.Href()), true
	case it.Parent.Parent != nil && it.Parent.Parent.Kind == KindEntryPoint:
		parent, _ := m.Path(it.Parent)
		return parent + "#" + url.PathEscape(it.Name), true
	}
	return "", false
}

// ResolveLink maps a TSDoc declaration reference such as "Client",
// "Client.login" or "pkg!Client:class" to a page URL.
func (m *Model) ResolveLink(target string) (string, bool) {
	if it, ok := m.FindByCanonicalReference(target); ok {
		return m.Path(it)
	}
	ref := target
	if i := strings.Index(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	parts := splitReference(ref)
	owner := m.topLevel(parts)
	if i := strings.Index(ref, "#"); owner == nil && i >= 0 {
		// "package#Name" references
		parts = splitReference(ref[i+1:])
		owner = m.topLevel(parts)
	}
	if owner == nil {
		return "", false
	}
	if len(parts) == 1 {
		return m.Path(owner)
	}
	for _, member := range owner.Members {
		if member.Name == parts[1] {
			return m.Path(member)
		}
	}
	return m.Path(owner)
}

// Comment returns the parsed doc comment of it, with {@link} targets resolved
// against this model. Results are memoized; nil means undocumented.
func (m *Model) Comment(it *Item) *tsdoc.Comment {
	if it == nil || it.DocComment == "" {
		return nil
	}
	if c, ok := m.comments.Load(it); ok {
		return c.(*tsdoc.Comment)
	}
	c := tsdoc.Parse(it.DocComment, m.ResolveLink)
	actual, _ := m.comments.LoadOrStore(it, c)
	return actual.(*tsdoc.Comment)
}

func (m *Model) topLevel(parts []string) *Item {
	if len(parts) == 0 {
		return nil
	}
	for _, it := range m.Members() {
		if it.Name == parts[0] {
			return it
		}
	}
	return nil
}

// PackagePath returns the README route of a package version.
func PackagePath(pkg, version string) string {
	return "/docs/packages/" + url.PathEscape(pkg) + "/" + url.PathEscape(version)
}

// ItemPath returns the route of an item page.
func ItemPath(pkg, version, href string) string {
	return PackagePath(pkg, version) + "/" + url.PathEscape(href)
}

func splitReference(ref string) []string {
	parts := strings.FieldsFunc(ref, func(r rune) bool { return r == '.' || r == '#' })
	for i, p := range parts {
		parts[i] = trimSelector(p)
	}
	return parts
}

// trimSelector drops call signatures and ":kind" selectors from a reference component.
func trimSelector(s string) string {
	if i := strings.IndexAny(s, "(:"); i >= 0 {
		s = s[:i]
	}
	return s
}
