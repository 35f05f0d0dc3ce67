package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/libretto/pkg/graph"
)

// themesCommand creates the themes command for listing grouped themes.
func (c *CLI) themesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes [corpus-dir | layout.json]",
		Short: "List the grouped themes of a corpus or layout",
		Long: `List the themes of a corpus directory or an existing layout document,
grouped by theme type in first-appearance order.

For a corpus directory the layout is computed first, so selection flags
apply; for a layout file the stored selection is shown.`,
		Args: cobra.ExactArgs(1),
	}
	f := addLayoutFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		l, err := c.resolveLayout(cmd, args[0], f)
		if err != nil {
			return err
		}
		printThemes(l)
		return nil
	}
	return cmd
}

// resolveLayout reads path as a layout file, or computes the layout when
// path is a corpus directory.
func (c *CLI) resolveLayout(cmd *cobra.Command, path string, f *layoutFlags) (graph.Layout, error) {
	info, err := os.Stat(path)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return graph.ReadLayoutFile(path)
	}

	cfg, opts, err := c.layoutOptions(f)
	if err != nil {
		return graph.Layout{}, err
	}
	result, err := c.compute(cmd.Context(), path, cfg, opts, f)
	if err != nil {
		return graph.Layout{}, err
	}
	return result.Layout, nil
}

func printThemes(l graph.Layout) {
	total, selected := 0, 0
	for _, g := range l.Themes {
		for _, d := range g.Diamonds {
			total++
			if d.Selected {
				selected++
			}
		}
	}

	if l.Title != "" {
		fmt.Println(StyleTitle.Render(l.Title))
	}
	if total == 0 {
		printInfo("No themes")
		return
	}
	fmt.Println(themeTable(l.Themes))
	printKeyValue("Types", fmt.Sprint(len(l.Themes)))
	printKeyValue("Themes", fmt.Sprint(total))
	printKeyValue("Selected", fmt.Sprint(selected))
}
