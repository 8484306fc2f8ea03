package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
)

// SidebarCmd implements the 'sidebar' command.
type SidebarCmd struct {
	Package string `arg:"" help:"Package name"`
	Version string `arg:"" help:"Package version"`
	Segment string `short:"s" help:"Route segment to mark active, e.g. Client:class"`
	JSON    bool   `name:"json" help:"Print JSON instead of text"`
}

func (c *SidebarCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	comps, err := newComponents(cfg, g.Logger, metrics.NoopRecorder{}, false)
	if err != nil {
		return err
	}
	return c.print(context.Background(), comps, os.Stdout)
}

func (c *SidebarCmd) print(ctx context.Context, comps *components, out io.Writer) error {
	m, err := comps.models.Load(ctx, c.Package, c.Version)
	if err != nil {
		return err
	}
	sections := sidebar.Build(m, c.Segment)

	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(responses.SidebarResponse{
			Package:  c.Package,
			Version:  c.Version,
			Segment:  c.Segment,
			Sections: sections,
		})
	}

	for _, s := range sections {
		if _, err := fmt.Fprintln(out, s.Title); err != nil {
			return err
		}
		for _, it := range s.Items {
			marker := " "
			if it.Active {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s", marker, it.Name)
			if it.ShowOverload {
				line += fmt.Sprintf(" (%d)", it.OverloadIndex)
			}
			if _, err := fmt.Fprintf(out, "%s\t%s\n", line, it.Href); err != nil {
				return err
			}
		}
	}
	return nil
}
