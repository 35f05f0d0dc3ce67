package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/libretto/pkg/corpus"
)

// pickCommand creates the pick command, an interactive front end to layout.
func (c *CLI) pickCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "pick [corpus-dir]",
		Short: "Choose characters and themes interactively, then compute the layout",
		Args:  cobra.ExactArgs(1),
	}
	f := addLayoutFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <corpus-dir>.layout.json)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml (default: from output extension)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		tables, err := corpus.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load corpus %s: %w", dir, err)
		}

		m := NewPickModel(tables)
		if len(m.Items) == 0 {
			printInfo("Nothing to pick: no visible characters or themes")
			return nil
		}
		finalModel, err := tea.NewProgram(m).Run()
		if err != nil {
			return err
		}
		fm, ok := finalModel.(PickModel)
		if !ok || !fm.Confirmed {
			printDetail("No selection made")
			return nil
		}

		cfg, opts, err := c.layoutOptions(f)
		if err != nil {
			return err
		}
		opts.Characters = append(opts.Characters, fm.Selected(kindCharacter)...)
		opts.Themes = append(opts.Themes, fm.Selected(kindTheme)...)
		return c.runLayout(cmd.Context(), dir, cfg, opts, f, output, format)
	}
	return cmd
}
