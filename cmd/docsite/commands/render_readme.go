package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// RenderReadmeCmd implements the 'render-readme' command.
type RenderReadmeCmd struct {
	Package string `arg:"" help:"Package whose README to render"`
	Output  string `short:"o" help:"Write the HTML to this file instead of stdout"`
	TOC     bool   `name:"toc" help:"Print the heading outline instead of HTML"`
}

func (c *RenderReadmeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	comps, err := newComponents(cfg, g.Logger, metrics.NoopRecorder{}, false)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return derrors.FileSystemError("failed to create output file").
				WithCause(err).
				WithContext("path", c.Output).
				Build()
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return c.render(context.Background(), comps, out)
}

func (c *RenderReadmeCmd) render(ctx context.Context, comps *components, out io.Writer) error {
	page, err := comps.readmes.Load(ctx, c.Package)
	if err != nil {
		return err
	}
	if c.TOC {
		for _, h := range page.Headings {
			if _, err := fmt.Fprintf(out, "%*s- %s (#%s)\n", (h.Level-1)*2, "", h.Text, h.ID); err != nil {
				return err
			}
		}
		return nil
	}
	_, err = fmt.Fprintln(out, page.HTML)
	return err
}
