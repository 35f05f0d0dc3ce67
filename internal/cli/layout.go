package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/libretto/internal/config"
	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/observability"
	"github.com/matzehuels/libretto/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layout documents.
func (c *CLI) layoutCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "layout [corpus-dir]",
		Short: "Compute a layout document from a corpus directory",
		Long: `Compute a layout document from a corpus directory.

The directory holds the six corpus tables (char_list.json, song_list.json,
lines.json, theme_list.json, characters.json, themes.json) and optionally a
libretto.toml manifest. The output contains the positioned character
network, the timeline of lines and theme diamonds, and the grouped theme
legend, filtered by the selected characters, conversations and themes.

A conversation id such as "A-B" is attached to the lines of its first
character only. Pass --tag-both to tag the lines of both characters, so
both halves of a duet carry the conversation.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
	}
	f := addLayoutFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <corpus-dir>.layout.json)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml (default: from output extension)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, opts, err := c.layoutOptions(f)
		if err != nil {
			return err
		}
		return c.runLayout(cmd.Context(), args[0], cfg, opts, f, output, format)
	}
	return cmd
}

// layoutOptions loads the config and applies flag overrides.
func (c *CLI) layoutOptions(f *layoutFlags) (*config.Config, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	return cfg, f.options(cfg), nil
}

// runLayout computes the layout of dir and writes it to output.
func (c *CLI) runLayout(ctx context.Context, dir string, cfg *config.Config, opts pipeline.Options, f *layoutFlags, output, format string) error {
	if output == "" {
		ext := ".json"
		if format == graph.FormatYAML {
			ext = ".yaml"
		}
		output = filepath.Clean(dir) + ".layout" + ext
	}
	if format == "" {
		format = graph.FormatFromPath(output)
	}
	if format != graph.FormatJSON && format != graph.FormatYAML {
		return fmt.Errorf("invalid format: %q (must be one of: json, yaml)", format)
	}

	result, err := c.compute(ctx, dir, cfg, opts, f)
	if err != nil {
		return err
	}

	if err := writeLayout(result.Layout, output, format); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(result.Stats, result.CacheHit)
	printDiagnostics(result.Layout.Diagnostics)
	printNewline()
	printNextStep("Render network", appName+" network "+output)

	return nil
}

// compute loads the corpus in dir and runs the pipeline with a spinner, or
// a progress bar when --progress is set.
func (c *CLI) compute(ctx context.Context, dir string, cfg *config.Config, opts pipeline.Options, f *layoutFlags) (*pipeline.Result, error) {
	p := newProgress(c.Logger)
	tables, err := corpus.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", dir, err)
	}
	p.done("Loaded corpus", "dir", dir, "lines", tables.Lines.Len(), "characters", tables.Characters.Len())

	runner, err := c.newRunner(cfg, f.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	var rec *observability.Recorder
	if f.timings {
		rec = observability.NewRecorder()
		observability.SetPipelineHooks(rec)
		observability.SetCacheHooks(rec)
		defer observability.Reset()
	}

	var (
		result *pipeline.Result
		runErr error
	)
	if f.progress {
		opts.SetLayoutDefaults()
		bar := newLazyReporter(newTickReporter(os.Stderr), opts.Iterations)
		opts.OnTick = bar.Tick
		result, runErr = runner.Execute(ctx, tables, opts)
		bar.Finish()
	} else {
		spinner := newSpinnerWithContext(ctx, "Computing layout...")
		spinner.Start()
		result, runErr = runner.Execute(ctx, tables, opts)
		if runErr != nil {
			spinner.StopWithError("Layout failed")
		} else {
			spinner.Stop()
		}
	}
	if runErr != nil {
		return nil, fmt.Errorf("compute layout: %w", runErr)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if rec != nil {
		printTimings(rec)
	}
	return result, nil
}

func writeLayout(l graph.Layout, path, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.WriteLayout(file, l, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
