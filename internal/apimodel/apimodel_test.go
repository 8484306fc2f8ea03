package apimodel

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/tsdoc"
)

func loadFixture(t *testing.T) *Model {
	t.Helper()
	f, err := os.Open("testdata/core/main.api.json")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	root, err := Decode(f)
	require.NoError(t, err)
	return NewModel("core", "main", root)
}

func TestDecodeResolvesExcerptsAndParents(t *testing.T) {
	m := loadFixture(t)

	require.NotNil(t, m.Root)
	assert.Equal(t, KindPackage, m.Root.Kind)
	assert.Equal(t, "@acme/core", m.Root.Name)

	client, ok := m.Lookup("Client", KindClass)
	require.True(t, ok)
	assert.Equal(t, KindEntryPoint, client.Parent.Kind)
	assert.Equal(t, "export declare class Client extends EventEmitter ", client.Excerpt.Text())
	require.Len(t, client.ExtendsExcerpts, 1)
	assert.Equal(t, "EventEmitter", client.ExtendsExcerpts[0].Text())

	ctor := client.MembersOf(KindConstructor)
	require.Len(t, ctor, 1)
	assert.Same(t, client, ctor[0].Parent)
	require.Len(t, ctor[0].Parameters, 2)
	assert.Equal(t, "ClientOptions", ctor[0].Parameters[0].TypeExcerpt.Text())
	assert.Equal(t, TokenReference, ctor[0].Parameters[0].TypeExcerpt.Tokens[0].Kind)
	assert.True(t, ctor[0].Parameters[1].IsRest)
	assert.True(t, ctor[0].Parameters[1].IsOptional)

	login := client.MembersOf(KindMethod)[0]
	assert.Equal(t, "Promise<string>", login.ReturnTypeExcerpt.Text())

	status, ok := m.Lookup("Status", KindEnum)
	require.True(t, ok)
	assert.Equal(t, "0", status.Members[0].InitializerExcerpt.Text())
	assert.True(t, status.Members[1].InitializerExcerpt.IsEmpty())

	alias, ok := m.Lookup("Snowflake", "typealias")
	require.True(t, ok)
	assert.Equal(t, "string", alias.TypeExcerpt.Text())
	assert.Equal(t, "type Snowflake = string", alias.Signature())
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"not json":     `{"kind":`,
		"wrong root":   `{"kind":"Class","name":"X"}`,
		"range bounds": `{"kind":"Package","members":[{"kind":"EntryPoint","members":[{"kind":"TypeAlias","name":"A","excerptTokens":[{"kind":"Content","text":"x"}],"typeTokenRange":{"startIndex":0,"endIndex":4}}]}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, derrors.HasCategory(err, derrors.CategoryModel))
		})
	}
}

func TestMembersPreserveDeclarationOrder(t *testing.T) {
	m := loadFixture(t)

	var names []string
	for _, it := range m.Members() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Client", "ClientOptions", "Status", "Snowflake", "createClient", "createClient", "version", "Util"}, names)
}

func TestHrefAndItemByHref(t *testing.T) {
	m := loadFixture(t)
	members := m.Members()

	assert.Equal(t, "Client:class", members[0].Href())
	assert.Equal(t, "createClient:function", members[4].Href())
	assert.Equal(t, "createClient:function:2", members[5].Href())

	it, ok := m.ItemByHref("createClient:function:2")
	require.True(t, ok)
	assert.Equal(t, 2, it.OverloadIndex)

	it, ok = m.ItemByHref("createClient:function")
	require.True(t, ok)
	assert.Equal(t, 1, it.OverloadIndex)

	_, ok = m.ItemByHref("Client")
	assert.False(t, ok)
	_, ok = m.ItemByHref("Missing:class")
	assert.False(t, ok)
	_, ok = m.ItemByHref("createClient:function:x")
	assert.False(t, ok)
}

func TestPathsAndLinks(t *testing.T) {
	m := loadFixture(t)

	client, _ := m.Lookup("Client", KindClass)
	p, ok := m.Path(client)
	require.True(t, ok)
	assert.Equal(t, "/docs/packages/core/main/Client:class", p)

	token := client.Members[1]
	p, ok = m.Path(token)
	require.True(t, ok)
	assert.Equal(t, "/docs/packages/core/main/Client:class#token", p)

	ref, ok := m.FindByCanonicalReference("@acme/core!ClientOptions:interface")
	require.True(t, ok)
	assert.Equal(t, "ClientOptions", ref.Name)

	_, ok = m.FindByCanonicalReference("!Promise:interface")
	assert.False(t, ok)

	tests := map[string]string{
		"Client":                   "/docs/packages/core/main/Client:class",
		"Client.login":             "/docs/packages/core/main/Client:class#login",
		"Client#token":             "/docs/packages/core/main/Client:class#token",
		"@acme/core!Status:enum":   "/docs/packages/core/main/Status:enum",
		"core#Snowflake":           "/docs/packages/core/main/Snowflake:typealias",
		"createClient:function(1)": "/docs/packages/core/main/createClient:function",
	}
	for target, want := range tests {
		got, ok := m.ResolveLink(target)
		assert.True(t, ok, target)
		assert.Equal(t, want, got, target)
	}
	_, ok = m.ResolveLink("Unknown")
	assert.False(t, ok)
}

func TestCommentResolvesLinksAgainstModel(t *testing.T) {
	m := loadFixture(t)

	opts, _ := m.Lookup("ClientOptions", KindInterface)
	c := m.Comment(opts)
	require.NotNil(t, c)
	assert.Equal(t, "Options for a [Client](/docs/packages/core/main/Client:class).", c.Summary)
	assert.Same(t, c, m.Comment(opts))

	ns, _ := m.Lookup("Util", KindNamespace)
	assert.Nil(t, m.Comment(ns))
}

func TestResolveParameters(t *testing.T) {
	m := loadFixture(t)
	client, _ := m.Lookup("Client", KindClass)
	ctor := client.MembersOf(KindConstructor)[0]

	params := m.Parameters(ctor)
	require.Len(t, params, 2)
	assert.Equal(t, "options", params[0].Name)
	assert.Equal(t, "Options for the client", params[0].Description)
	assert.False(t, params[0].IsOptional)
	assert.Equal(t, "plugins", params[1].Name)
	assert.Empty(t, params[1].Description)
	assert.True(t, params[1].IsOptional)
}

func TestResolveParametersFallsBackToPosition(t *testing.T) {
	item := &Item{Parameters: []Parameter{{Name: "a"}, {Name: "b"}}}

	renamed := &tsdoc.Comment{Params: []tsdoc.ParamBlock{{Name: "first", Content: "First"}}}
	params := ResolveParameters(item, renamed)
	assert.Equal(t, "First", params[0].Description)
	assert.Empty(t, params[1].Description)

	onlyB := &tsdoc.Comment{Params: []tsdoc.ParamBlock{{Name: "b", Content: "Second"}}}
	params = ResolveParameters(item, onlyB)
	assert.Empty(t, params[0].Description, "a block naming another parameter is never borrowed")
	assert.Equal(t, "Second", params[1].Description)

	sibling := &tsdoc.Comment{Params: []tsdoc.ParamBlock{{Name: "x", Content: "From overload"}}}
	params = ResolveParameters(item, nil, sibling)
	assert.Equal(t, "From overload", params[0].Description)
}

func TestOverloadBorrowsSiblingDocs(t *testing.T) {
	m := loadFixture(t)
	second, ok := m.ItemByHref("createClient:function:2")
	require.True(t, ok)

	params := m.Parameters(second)
	require.Len(t, params, 1)
	assert.Equal(t, "options", params[0].Name)
	assert.Equal(t, "The bot token", params[0].Description)
}

func TestParametersString(t *testing.T) {
	m := loadFixture(t)
	client, _ := m.Lookup("Client", KindClass)

	assert.Equal(t, "options: ClientOptions, ...plugins?: string[]", ParametersString(client.MembersOf(KindConstructor)[0]))
	assert.Equal(t, "token?: string", ParametersString(client.MembersOf(KindMethod)[0]))
	assert.Empty(t, ParametersString(&Item{}))
}

func TestStoreLoadCachesAndInvalidates(t *testing.T) {
	data, err := os.ReadFile("testdata/core/main.api.json")
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"core/main.api.json":   {Data: data},
		"core/v1.0.0.api.json": {Data: data},
		"core/notes.txt":       {Data: []byte("ignored")},
		"empty/.keep":          {Data: nil},
	}
	store := NewStore(fsys)
	ctx := context.Background()

	first, err := store.Load(ctx, "core", "main")
	require.NoError(t, err)
	second, err := store.Load(ctx, "core", "main")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.Cached())

	store.Invalidate("core")
	assert.Equal(t, 0, store.Cached())
	third, err := store.Load(ctx, "core", "main")
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	_, err = store.Load(ctx, "core", "v1.0.0")
	require.NoError(t, err)
	store.Purge()
	assert.Equal(t, 0, store.Cached())

	versions, err := store.Versions("core")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "v1.0.0"}, versions)

	pkgs, err := store.Packages()
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, pkgs)
}

func TestStoreErrors(t *testing.T) {
	store := NewStore(fstest.MapFS{"core/main.api.json": {Data: []byte(`{"kind":"Package"`)}})
	ctx := context.Background()

	_, err := store.Load(ctx, "core", "v9")
	require.Error(t, err)
	assert.True(t, derrors.IsNotFound(err))

	_, err = store.Load(ctx, "..", "main")
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))

	_, err = store.Load(ctx, "core", "main")
	assert.True(t, derrors.HasCategory(err, derrors.CategoryModel))

	_, err = store.Versions("nope")
	assert.True(t, derrors.IsNotFound(err))
}

func TestStoreWithoutCache(t *testing.T) {
	data, err := os.ReadFile("testdata/core/main.api.json")
	require.NoError(t, err)
	store := NewStore(fstest.MapFS{"core/main.api.json": {Data: data}}, WithCache(false))

	a, err := store.Load(context.Background(), "core", "main")
	require.NoError(t, err)
	b, err := store.Load(context.Background(), "core", "main")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 0, store.Cached())
}

// gatedFS blocks the first Open of name until release is closed.
type gatedFS struct {
	fsys    fstest.MapFS
	name    string
	opened  chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedFS) Open(name string) (fs.File, error) {
	f, err := g.fsys.Open(name)
	if name == g.name {
		g.once.Do(func() {
			close(g.opened)
			<-g.release
		})
	}
	return f, err
}

func TestStoreDropsLoadRacingWithPurge(t *testing.T) {
	data, err := os.ReadFile("testdata/core/main.api.json")
	require.NoError(t, err)
	gated := &gatedFS{
		fsys:    fstest.MapFS{"core/main.api.json": {Data: data}},
		name:    "core/main.api.json",
		opened:  make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewStore(gated)
	ctx := context.Background()

	inflight := make(chan *Model, 1)
	go func() {
		m, err := store.Load(ctx, "core", "main")
		assert.NoError(t, err)
		inflight <- m
	}()

	<-gated.opened
	store.Purge()
	close(gated.release)

	stale := <-inflight
	require.NotNil(t, stale)
	assert.Equal(t, 0, store.Cached())

	fresh, err := store.Load(ctx, "core", "main")
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, 1, store.Cached())

	again, err := store.Load(ctx, "core", "main")
	require.NoError(t, err)
	assert.Same(t, fresh, again)
}

func TestStoreDropsLoadRacingWithInvalidate(t *testing.T) {
	data, err := os.ReadFile("testdata/core/main.api.json")
	require.NoError(t, err)
	gated := &gatedFS{
		fsys:    fstest.MapFS{"core/main.api.json": {Data: data}},
		name:    "core/main.api.json",
		opened:  make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewStore(gated)

	inflight := make(chan *Model, 1)
	go func() {
		m, err := store.Load(context.Background(), "core", "main")
		assert.NoError(t, err)
		inflight <- m
	}()

	<-gated.opened
	store.Invalidate("core")
	close(gated.release)

	require.NotNil(t, <-inflight)
	assert.Equal(t, 0, store.Cached())
}
