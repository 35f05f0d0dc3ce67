// Package pipeline runs the libretto stages end to end.
//
// This package implements the complete expand → network → motif → select →
// timeline pipeline that the CLI uses. By centralizing this logic, every
// command computes layouts the same way and shares one cache.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Expand: one Line per singer per lyric line (pkg/lines)
//  2. Network: character nodes, conversation links and force layout (pkg/network)
//  3. Motif: theme diamonds and theme tagging (pkg/motif)
//  4. Select: character, conversation and theme filters (pkg/selection)
//  5. Timeline: line and diamond positions (pkg/timeline)
//
// The result is serialized as a [graph.Layout].
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Width:      960,
//	    Characters: []string{"hamilton", "burr"},
//	}
//	result, err := runner.Execute(ctx, tables, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = graph.WriteLayoutFile(result.Layout, "out.json")
//
// Run the stages without caching:
//
//	recs, err := pipeline.Compute(ctx, tables, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/libretto/pkg/cache"
	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/network"
	"github.com/matzehuels/libretto/pkg/selection"
	"github.com/matzehuels/libretto/pkg/timeline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultWidth is the default canvas width.
	DefaultWidth = 960.0

	// DefaultHeight is the default canvas height.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed for the force layout.
	DefaultSeed = uint64(1)

	// DefaultIterations is the number of force simulation steps.
	DefaultIterations = 1000
)

// Format constants for rendered network artifacts.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = graph.FormatJSON
	FormatYAML = graph.FormatYAML
)

// ValidFormats is the set of supported network output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatYAML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Canvas
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Network
	Seed             uint64  `json:"seed,omitempty"`
	Iterations       int     `json:"iterations,omitempty"`
	MinWeight        float64 `json:"min_weight,omitempty"`
	MaxWeight        float64 `json:"max_weight,omitempty"`
	ImagePath        string  `json:"image_path,omitempty"`
	TagBothEndpoints bool    `json:"tag_both_endpoints,omitempty"`

	// Legend
	ThemeSizeMin float64 `json:"theme_size_min,omitempty"`
	ThemeSizeMax float64 `json:"theme_size_max,omitempty"`

	// Timeline; zero value uses timeline.DefaultConfig.
	Timeline timeline.Config `json:"timeline"`

	// Input handling
	SkipMissing bool `json:"skip_missing,omitempty"`

	// Selection
	Characters    []string `json:"characters,omitempty"`
	Conversations []string `json:"conversations,omitempty"`
	Themes        []string `json:"themes,omitempty"`

	// Refresh recomputes even when a cached layout exists.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	OnTick func(tick int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// CorpusHash is the content hash of the input tables.
	CorpusHash string

	// Layout is the serialized view.
	Layout graph.Layout

	// Records holds the in-memory records. Nil when the layout came from
	// the cache.
	Records *Records

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Lines       int
	Nodes       int
	Links       int
	Diamonds    int
	Diagnostics int
	Stages      map[string]time.Duration
	Total       time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json, yaml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks ranges.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.MinWeight == 0 && o.MaxWeight == 0 {
		o.MinWeight, o.MaxWeight = network.DefaultMinWeight, network.DefaultMaxWeight
	}
	if o.ImagePath == "" {
		o.ImagePath = network.DefaultImagePath
	}
	if o.ThemeSizeMin == 0 && o.ThemeSizeMax == 0 {
		o.ThemeSizeMin, o.ThemeSizeMax = selection.DefaultMinThemeSize, selection.DefaultMaxThemeSize
	}
	if o.Timeline == (timeline.Config{}) {
		o.Timeline = timeline.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks that sizes and ranges are usable.
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", o.Iterations)
	}
	if o.MinWeight > o.MaxWeight {
		return fmt.Errorf("min_weight %g exceeds max_weight %g", o.MinWeight, o.MaxWeight)
	}
	if o.ThemeSizeMin > o.ThemeSizeMax {
		return fmt.Errorf("theme_size_min %g exceeds theme_size_max %g", o.ThemeSizeMin, o.ThemeSizeMax)
	}
	if o.Timeline.LineSize <= 0 {
		return fmt.Errorf("timeline line size must be positive, got %g", o.Timeline.LineSize)
	}
	return nil
}

// Selection returns the filter state named by the options.
func (o *Options) Selection() selection.Selection {
	return selection.Selection{
		Characters:    selection.NewSet(o.Characters...),
		Conversations: selection.NewSet(o.Conversations...),
		Themes:        selection.NewSet(o.Themes...),
	}
}

// NetworkOptions returns the options passed to network.Build.
func (o *Options) NetworkOptions() network.Options {
	n := network.DefaultOptions()
	n.ImagePath = o.ImagePath
	n.MinWeight, n.MaxWeight = o.MinWeight, o.MaxWeight
	n.Force.Seed = o.Seed
	n.Force.Iterations = o.Iterations
	n.TagBothEndpoints = o.TagBothEndpoints
	n.OnTick = o.OnTick
	return n
}

// LayoutKeyOpts returns cache key options for layout computation.
// Selection ids are sorted so equal selections share a key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	sel := o.Selection()
	tc := o.Timeline
	return cache.LayoutKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		Seed:          o.Seed,
		Iterations:    o.Iterations,
		MinWeight:     o.MinWeight,
		MaxWeight:     o.MaxWeight,
		ThemeSizeMin:  o.ThemeSizeMin,
		ThemeSizeMax:  o.ThemeSizeMax,
		Timeline:      []float64{tc.LineSize, tc.PadX, tc.SongGap, tc.RowGap, tc.RightMargin, tc.LeftMargin, tc.InitialY},
		SkipMissing:   o.SkipMissing,
		TagBoth:       o.TagBothEndpoints,
		ImagePath:     o.ImagePath,
		Characters:    sel.Characters.Sorted(),
		Conversations: sel.Conversations.Sorted(),
		Themes:        sel.Themes.Sorted(),
	}
}
