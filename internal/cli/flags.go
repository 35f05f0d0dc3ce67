package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/libretto/internal/config"
	"github.com/matzehuels/libretto/pkg/pipeline"
)

// layoutFlags are the per-run overrides shared by commands that compute a
// layout. Only flags set on the command line replace config values.
type layoutFlags struct {
	width, height    float64
	seed             uint64
	iterations       int
	minWeight        float64
	maxWeight        float64
	skipMissing      bool
	tagBoth          bool
	characters       []string
	conversations    []string
	themes           []string
	refresh, noCache bool
	progress         bool
	timings          bool
	cmd              *cobra.Command
}

func addLayoutFlags(cmd *cobra.Command) *layoutFlags {
	f := &layoutFlags{cmd: cmd}
	fl := cmd.Flags()

	fl.Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width")
	fl.Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height")
	fl.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "force layout seed")
	fl.IntVar(&f.iterations, "iterations", pipeline.DefaultIterations, "force simulation ticks")
	fl.Float64Var(&f.minWeight, "min-weight", 0, "thinnest conversation link width")
	fl.Float64Var(&f.maxWeight, "max-weight", 0, "thickest conversation link width")
	fl.BoolVar(&f.skipMissing, "skip-missing", false, "skip unresolved references instead of failing")
	fl.BoolVar(&f.tagBoth, "tag-both", false, "tag the lines of both conversation partners, not only the first")

	fl.StringSliceVarP(&f.characters, "character", "c", nil, "select characters (repeatable)")
	fl.StringSliceVar(&f.conversations, "conversation", nil, "select conversations, e.g. A-B (repeatable)")
	fl.StringSliceVarP(&f.themes, "theme", "t", nil, "select themes (repeatable)")

	fl.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.progress, "progress", false, "show force simulation progress")
	fl.BoolVar(&f.timings, "timings", false, "print per-stage timings and cache traffic")
	return f
}

// options builds pipeline options from cfg and the flags that were set.
func (f *layoutFlags) options(cfg *config.Config) pipeline.Options {
	opts := cfg.PipelineOptions()
	changed := f.cmd.Flags().Changed

	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("iterations") {
		opts.Iterations = f.iterations
	}
	if changed("min-weight") {
		opts.MinWeight = f.minWeight
	}
	if changed("max-weight") {
		opts.MaxWeight = f.maxWeight
	}
	if changed("skip-missing") {
		opts.SkipMissing = f.skipMissing
	}
	if changed("tag-both") {
		opts.TagBothEndpoints = f.tagBoth
	}
	opts.Characters = f.characters
	opts.Conversations = f.conversations
	opts.Themes = f.themes
	opts.Refresh = f.refresh
	return opts
}
