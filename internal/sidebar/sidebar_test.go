package sidebar

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
)

func entry(name string, kind apimodel.Kind) Entry {
	return Entry{Href: name + ":" + string(kind), Kind: kind, Name: name}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestGroupIsStablePartition(t *testing.T) {
	in := []Entry{
		entry("B", apimodel.KindClass),
		entry("f", apimodel.KindFunction),
		entry("A", apimodel.KindClass),
		entry("E", apimodel.KindEnum),
		entry("I", apimodel.KindInterface),
		entry("T", apimodel.KindTypeAlias),
		entry("v", apimodel.KindVariable),
		entry("N", apimodel.KindNamespace),
		entry("g", apimodel.KindFunction),
	}

	g := Group(in)

	assert.Equal(t, []string{"B", "A"}, names(g.Classes))
	assert.Equal(t, []string{"f", "g"}, names(g.Functions))
	assert.Equal(t, []string{"E"}, names(g.Enums))
	assert.Equal(t, []string{"I"}, names(g.Interfaces))
	assert.Equal(t, []string{"T"}, names(g.Types))
	assert.Equal(t, []string{"v"}, names(g.Variables))

	total := len(g.Classes) + len(g.Functions) + len(g.Enums) + len(g.Interfaces) + len(g.Types) + len(g.Variables)
	assert.Equal(t, len(in)-1, total, "namespace is dropped, everything else kept once")
}

func TestGroupEmptyInput(t *testing.T) {
	assert.Empty(t, Sections(Group(nil), ""))
}

func TestSectionsOrderAndOmitEmpty(t *testing.T) {
	g := Group([]Entry{
		entry("v", apimodel.KindVariable),
		entry("C", apimodel.KindClass),
		entry("f", apimodel.KindFunction),
	})

	sections := Sections(g, "")
	require.Len(t, sections, 3)
	assert.Equal(t, "Classes", sections[0].Title)
	assert.Equal(t, IconClass, sections[0].Icon)
	assert.Equal(t, "Functions", sections[1].Title)
	assert.Equal(t, IconMethod, sections[1].Icon)
	assert.Equal(t, "Variables", sections[2].Title)
	assert.Equal(t, IconVariable, sections[2].Icon)
}

func TestSectionsMarksExactlyTheActiveEntry(t *testing.T) {
	g := Group([]Entry{
		{Href: "Client:class", Kind: apimodel.KindClass, Name: "Client"},
		{Href: "ClientUser:class", Kind: apimodel.KindClass, Name: "ClientUser"},
		{Href: "Foo Bar:class", Kind: apimodel.KindClass, Name: "Foo Bar"},
	})

	tests := []struct {
		segment string
		active  string
	}{
		{"Client:class", "Client"},
		{"Foo Bar:class", "Foo Bar"},
		{"Client%3Aclass", ""},
		{"Client", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			var active []string
			for _, it := range Sections(g, tt.segment)[0].Items {
				if it.Active {
					active = append(active, it.Name)
				}
			}
			if tt.active == "" {
				assert.Empty(t, active)
				return
			}
			assert.Equal(t, []string{tt.active}, active)
		})
	}
}

func TestOverloadBadge(t *testing.T) {
	g := Group([]Entry{
		{Href: "create:function", Kind: apimodel.KindFunction, Name: "create", OverloadIndex: 1},
		{Href: "create:function:2", Kind: apimodel.KindFunction, Name: "create", OverloadIndex: 2},
		{Href: "other:function", Kind: apimodel.KindFunction, Name: "other"},
	})

	items := Sections(g, "")[0].Items
	assert.False(t, items[0].ShowOverload)
	assert.True(t, items[1].ShowOverload)
	assert.False(t, items[2].ShowOverload)
}

func TestBuildFromModel(t *testing.T) {
	f, err := os.Open("../apimodel/testdata/core/main.api.json")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	root, err := apimodel.Decode(f)
	require.NoError(t, err)
	m := apimodel.NewModel("core", "main", root)

	sections := Build(m, "createClient:function:2")

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Classes", "Functions", "Enums", "Interfaces", "Types", "Variables"}, titles)

	fns := sections[1].Items
	require.Len(t, fns, 2)
	assert.False(t, fns[0].Active)
	assert.True(t, fns[1].Active)
	assert.Equal(t, "createClient:function:2", fns[1].Href)
	assert.True(t, fns[1].ShowOverload)
}
