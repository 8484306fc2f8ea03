// Package sidebar builds the navigation sidebar for a package version.
//
// Entries are projected from the API model, partitioned by kind into six
// fixed groups and rendered as ordered, collapsible sections. The entry whose
// href matches the current (URL-decoded) route segment is marked active.
package sidebar

import (
	"git.home.luguber.info/inful/docsite/internal/apimodel"
)

// Entry is a navigation link to one top-level API item.
type Entry struct {
	Href          string        `json:"href"`
	Kind          apimodel.Kind `json:"kind"`
	Name          string        `json:"name"`
	OverloadIndex int           `json:"overloadIndex,omitempty"`
}

// Groups holds entries partitioned by kind, each in input order.
type Groups struct {
	Classes    []Entry
	Enums      []Entry
	Interfaces []Entry
	Types      []Entry
	Variables  []Entry
	Functions  []Entry
}

// Icon names a section glyph in the embedded icon sprite.
type Icon string

const (
	IconClass     Icon = "class"
	IconEnum      Icon = "enum"
	IconInterface Icon = "interface"
	IconVariable  Icon = "variable"
	IconMethod    Icon = "method"
)

// Item is an entry prepared for display.
type Item struct {
	Entry
	Active       bool `json:"active"`
	ShowOverload bool `json:"showOverload"`
}

// Section is a titled, non-empty group of items.
type Section struct {
	Title string `json:"title"`
	Icon  Icon   `json:"icon"`
	Items []Item `json:"items"`
}

// Entries projects the entry-point members of m into sidebar entries.
func Entries(m *apimodel.Model) []Entry {
	members := m.Members()
	out := make([]Entry, 0, len(members))
	for _, it := range members {
		out = append(out, Entry{
			Href:          it.Href(),
			Kind:          it.Kind,
			Name:          it.Name,
			OverloadIndex: it.OverloadIndex,
		})
	}
	return out
}

// Group partitions entries by kind in a single pass. Kinds outside the six
// groups are dropped.
func Group(entries []Entry) Groups {
	var g Groups
	for _, e := range entries {
		switch e.Kind {
		case apimodel.KindClass:
			g.Classes = append(g.Classes, e)
		case apimodel.KindEnum:
			g.Enums = append(g.Enums, e)
		case apimodel.KindInterface:
			g.Interfaces = append(g.Interfaces, e)
		case apimodel.KindTypeAlias:
			g.Types = append(g.Types, e)
		case apimodel.KindVariable:
			g.Variables = append(g.Variables, e)
		case apimodel.KindFunction:
			g.Functions = append(g.Functions, e)
		}
	}
	return g
}

// Sections orders the groups for display (Classes, Functions, Enums,
// Interfaces, Types, Variables), omits empty ones and marks the entry whose
// href equals segment as active. segment is the route segment as delivered by
// the router, already URL-decoded; it is compared verbatim.
func Sections(g Groups, segment string) []Section {
	ordered := []struct {
		title   string
		icon    Icon
		entries []Entry
	}{
		{"Classes", IconClass, g.Classes},
		{"Functions", IconMethod, g.Functions},
		{"Enums", IconEnum, g.Enums},
		{"Interfaces", IconInterface, g.Interfaces},
		{"Types", IconVariable, g.Types},
		{"Variables", IconVariable, g.Variables},
	}

	var out []Section
	for _, grp := range ordered {
		if len(grp.entries) == 0 {
			continue
		}
		items := make([]Item, len(grp.entries))
		for i, e := range grp.entries {
			items[i] = Item{
				Entry:        e,
				Active:       segment != "" && e.Href == segment,
				ShowOverload: e.OverloadIndex > 1,
			}
		}
		out = append(out, Section{Title: grp.title, Icon: grp.icon, Items: items})
	}
	return out
}

// Build is Sections(Group(Entries(m)), segment).
func Build(m *apimodel.Model, segment string) []Section {
	return Sections(Group(Entries(m)), segment)
}
