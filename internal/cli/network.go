package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/pipeline"
)

// networkCommand creates the network command for drawing the character
// network of a layout document.
func (c *CLI) networkCommand() *cobra.Command {
	var (
		output, format string
		noCache        bool
		ro             pipeline.RenderOptions
	)

	cmd := &cobra.Command{
		Use:   "network [layout.json]",
		Short: "Render the character network of a layout",
		Long: `Render the character network of a layout document as Graphviz DOT or SVG.

Node positions come from the layout's force simulation and are pinned, so
the drawing matches the layout. Unselected characters and conversations are
greyed out, or dropped with --only-selected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNetwork(cmd.Context(), args[0], output, format, noCache, ro)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.network.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ro.Detailed, "detailed", false, "label nodes with full names and line counts")
	cmd.Flags().BoolVar(&ro.OnlySelected, "only-selected", false, "omit unselected characters and conversations")

	return cmd
}

// runNetwork reads a layout file and writes its network drawing.
func (c *CLI) runNetwork(ctx context.Context, input, output, format string, noCache bool, ro pipeline.RenderOptions) error {
	if format != pipeline.FormatSVG && format != pipeline.FormatDOT {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot)", format)
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering network...")
	spinner.Start()
	data, cached, err := runner.RenderNetwork(ctx, l, format, ro)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render network: %w", err)
	}
	spinner.Stop()

	if output == "" {
		output = networkPath(input, format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Network rendered")
	printFile(output)
	printStats(pipeline.Stats{Nodes: len(l.Nodes), Links: len(l.Links)}, cached)
	return nil
}

// networkPath derives "show.network.svg" from "show.layout.json".
func networkPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	return base + ".network." + format
}
