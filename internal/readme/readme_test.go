package readme

import (
	"context"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

const coreReadme = `<div align="center">
	<h1>discord.js</h1>
</div>

## About

| Feature | Supported |
| ------- | --------- |
| Voice   | Yes       |

` + "```ts\nconst client = new Client();\n```\n"

func newLoader(fsys fstest.MapFS, opts ...Option) *Loader {
	return NewLoader(fsys, markdown.New(markdown.Options{HighlightStyle: "github"}), opts...)
}

func findByID(t *testing.T, fragment string, id string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id && found == nil {
				found = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func TestLoadRendersReadme(t *testing.T) {
	l := newLoader(fstest.MapFS{"core/home-README.md": {Data: []byte(coreReadme)}})

	page, err := l.Load(context.Background(), "core")
	require.NoError(t, err)

	out := string(page.HTML)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `<div align="center">`)
	assert.Contains(t, out, "chroma")

	h1 := findByID(t, out, "discordjs")
	require.NotNil(t, h1)
	assert.Equal(t, "h1", h1.Data)
	h2 := findByID(t, out, "about")
	require.NotNil(t, h2)
	assert.Equal(t, "h2", h2.Data)

	assert.Equal(t, "discord.js", page.Title)
	assert.Equal(t, "core", page.Package)
}

func TestLoadUsesFrontmatter(t *testing.T) {
	src := "---\ntitle: Core Library\ndescription: The core package\n---\n# Heading\n"
	l := newLoader(fstest.MapFS{"core/home-README.md": {Data: []byte(src)}})

	page, err := l.Load(context.Background(), "core")
	require.NoError(t, err)
	assert.Equal(t, "Core Library", page.Title)
	assert.Equal(t, "The core package", page.Description)
	assert.NotContains(t, string(page.HTML), "title:")
}

func TestLoadMissingReadmeIsNotFound(t *testing.T) {
	l := newLoader(fstest.MapFS{})

	_, err := l.Load(context.Background(), "core")
	require.Error(t, err)
	assert.True(t, derrors.IsNotFound(err))
}

func TestLoadRejectsTraversal(t *testing.T) {
	l := newLoader(fstest.MapFS{"secret/home-README.md": {Data: []byte("x")}})

	for _, pkg := range []string{"..", "../secret", "core/../secret", `..\secret`, ""} {
		_, err := l.Load(context.Background(), pkg)
		require.Error(t, err, pkg)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation), pkg)
	}
}

func TestLoadBrokenFrontmatterIsRenderError(t *testing.T) {
	l := newLoader(fstest.MapFS{"core/home-README.md": {Data: []byte("---\ntitle: x\n")}})

	_, err := l.Load(context.Background(), "core")
	assert.True(t, derrors.HasCategory(err, derrors.CategoryRender))
}

func TestCustomFilename(t *testing.T) {
	l := newLoader(fstest.MapFS{"core/README.md": {Data: []byte("# Core")}}, WithFilename("README.md"))

	page, err := l.Load(context.Background(), "core")
	require.NoError(t, err)
	assert.Equal(t, "Core", page.Title)
}

func TestCacheAndInvalidate(t *testing.T) {
	fsys := fstest.MapFS{"core/home-README.md": {Data: []byte("# One")}}
	l := newLoader(fsys)
	ctx := context.Background()

	first, err := l.Load(ctx, "core")
	require.NoError(t, err)
	fsys["core/home-README.md"] = &fstest.MapFile{Data: []byte("# Two")}

	cached, err := l.Load(ctx, "core")
	require.NoError(t, err)
	assert.Same(t, first, cached)

	assert.Equal(t, 1, l.Cached())
	l.Invalidate("core")
	assert.Equal(t, 0, l.Cached())
	fresh, err := l.Load(ctx, "core")
	require.NoError(t, err)
	assert.Equal(t, "Two", fresh.Title)

	fsys["core/home-README.md"] = &fstest.MapFile{Data: []byte("# Three")}
	l.Purge()
	purged, err := l.Load(ctx, "core")
	require.NoError(t, err)
	assert.Equal(t, "Three", purged.Title)
}

// gatedFS blocks the first Open of name until release is closed.
type gatedFS struct {
	fsys    fstest.MapFS
	name    string
	opened  chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedFS(fsys fstest.MapFS, name string) *gatedFS {
	return &gatedFS{fsys: fsys, name: name, opened: make(chan struct{}), release: make(chan struct{})}
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

func TestInvalidateDuringLoadDropsStalePage(t *testing.T) {
	fsys := fstest.MapFS{"core/home-README.md": {Data: []byte("# Old")}}
	gated := newGatedFS(fsys, "core/home-README.md")
	l := NewLoader(gated, markdown.New(markdown.Options{HighlightStyle: "github"}))
	ctx := context.Background()

	inflight := make(chan *Page, 1)
	go func() {
		p, err := l.Load(ctx, "core")
		assert.NoError(t, err)
		inflight <- p
	}()

	<-gated.opened
	fsys["core/home-README.md"] = &fstest.MapFile{Data: []byte("# New")}
	l.Invalidate("core")
	close(gated.release)

	stale := <-inflight
	require.NotNil(t, stale)
	assert.Equal(t, "Old", stale.Title)
	assert.Equal(t, 0, l.Cached())

	fresh, err := l.Load(ctx, "core")
	require.NoError(t, err)
	assert.Equal(t, "New", fresh.Title)
	assert.Equal(t, 1, l.Cached())
}
