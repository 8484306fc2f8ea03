package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
)

func testComponents(t *testing.T) *components {
	t.Helper()
	readmes := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(readmes, "core"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(readmes, "core", "home-README.md"),
		[]byte("# Core\n\n## Install\n\n## Usage\n"), 0o600))

	cfg := config.Default()
	cfg.Content.ReadmeDir = readmes
	cfg.Content.ModelDir = filepath.Join("..", "..", "..", "internal", "apimodel", "testdata")
	c, err := newComponents(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.NoopRecorder{}, false)
	require.NoError(t, err)
	return c
}

func TestSidebarText(t *testing.T) {
	var out bytes.Buffer
	cmd := &SidebarCmd{Package: "core", Version: "main", Segment: "Client:class"}
	require.NoError(t, cmd.print(context.Background(), testComponents(t), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Classes", lines[0])
	assert.Equal(t, "* Client\tClient:class", lines[1])
	assert.Contains(t, out.String(), "createClient (2)\tcreateClient:function:2")
}

func TestSidebarJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := &SidebarCmd{Package: "core", Version: "main", JSON: true}
	require.NoError(t, cmd.print(context.Background(), testComponents(t), &out))

	var resp responses.SidebarResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "main", resp.Version)
	assert.NotEmpty(t, resp.Sections)
}

func TestSidebarMissingModel(t *testing.T) {
	cmd := &SidebarCmd{Package: "core", Version: "v0"}
	err := cmd.print(context.Background(), testComponents(t), io.Discard)
	require.Error(t, err)
	assert.True(t, derrors.IsNotFound(err))
}

func TestRenderReadme(t *testing.T) {
	comps := testComponents(t)

	var out bytes.Buffer
	require.NoError(t, (&RenderReadmeCmd{Package: "core"}).render(context.Background(), comps, &out))
	assert.Contains(t, out.String(), `id="install"`)

	out.Reset()
	require.NoError(t, (&RenderReadmeCmd{Package: "core", TOC: true}).render(context.Background(), comps, &out))
	assert.Equal(t, "- Core (#core)\n  - Install (#install)\n  - Usage (#usage)\n", out.String())
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := (&CLI{Config: DefaultConfigPath}).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAddr, cfg.HTTP.Addr)

	_, err = (&CLI{Config: "missing.yaml"}).LoadConfig()
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	require.NoError(t, RunInit("site.yaml", false))
	cfg, err = (&CLI{Config: "site.yaml"}).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "API Documentation", cfg.Site.Title)
}
