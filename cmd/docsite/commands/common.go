// Package commands implements the docsite CLI subcommands.
package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/apimodel"
	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/readme"
	"git.home.luguber.info/inful/docsite/internal/view"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "docsite.yaml"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve        ServeCmd        `cmd:"" help:"Serve the documentation site"`
	RenderReadme RenderReadmeCmd `cmd:"" name:"render-readme" help:"Render a package README to HTML"`
	Sidebar      SidebarCmd      `cmd:"" help:"Print the grouped sidebar of a package version"`
	Init         InitCmd         `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs a default logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// LoadConfig reads the configuration file. A missing file at the default path
// yields the built-in defaults so the site can run without any setup.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if _, err := os.Stat(c.Config); errors.Is(err, fs.ErrNotExist) && c.Config == DefaultConfigPath {
		slog.Debug("No configuration file, using defaults", "path", c.Config)
		return config.Default(), nil
	}
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to load configuration").
			WithContext("path", c.Config).
			Build()
	}
	return cfg, nil
}

// components are the content services shared by every command.
type components struct {
	models  *apimodel.Store
	readmes *readme.Loader
	view    *view.Renderer
}

func newComponents(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder, liveReload bool) (*components, error) {
	md := markdown.New(markdown.Options{
		HighlightStyle: cfg.Render.HighlightStyle,
		LineNumbers:    cfg.Render.LineNumbers,
		TabWidth:       cfg.Render.TabWidth,
	})
	v, err := view.New(md, view.Site{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		LiveReload:  liveReload,
	})
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to load page templates").Build()
	}
	return &components{
		models: apimodel.NewStore(os.DirFS(cfg.Content.ModelDir),
			apimodel.WithCache(cfg.Cache.Enabled),
			apimodel.WithRecorder(recorder),
			apimodel.WithLogger(logger)),
		readmes: readme.NewLoader(os.DirFS(cfg.Content.ReadmeDir), md,
			readme.WithFilename(cfg.Content.ReadmeFilename),
			readme.WithCache(cfg.Cache.Enabled),
			readme.WithRecorder(recorder),
			readme.WithLogger(logger)),
		view: v,
	}, nil
}
