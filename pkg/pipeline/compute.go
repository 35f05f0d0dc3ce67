package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/lines"
	"github.com/matzehuels/libretto/pkg/motif"
	"github.com/matzehuels/libretto/pkg/network"
	"github.com/matzehuels/libretto/pkg/observability"
	"github.com/matzehuels/libretto/pkg/scale"
	"github.com/matzehuels/libretto/pkg/selection"
	"github.com/matzehuels/libretto/pkg/show"
	"github.com/matzehuels/libretto/pkg/timeline"
)

// StageSelection names the filter step in stage timings.
const StageSelection = "selection"

// Records holds every intermediate result of one pipeline run.
type Records struct {
	Title    string
	Lines    *show.LineStore
	Songs    *show.SongStore
	Network  *network.Result
	Motif    *motif.Result
	View     selection.View
	Timeline *timeline.Result

	// Diagnostics merges the diagnostics of every stage in stage order.
	Diagnostics errors.Diagnostics

	// Stages records how long each stage took.
	Stages map[string]time.Duration
}

// Compute runs every stage over t without caching. Options are defaulted
// and validated first. The context is checked between stages only.
func Compute(ctx context.Context, t *corpus.Tables, opts Options) (*Records, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if t == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no corpus")
	}
	logger := opts.Logger
	recs := &Records{Title: t.Title, Stages: make(map[string]time.Duration)}

	err := recs.stage(ctx, lines.Stage, t.Lines.Len(), func() (int, errors.Diagnostics, error) {
		res, err := lines.Expand(t, lines.Options{SkipMissing: opts.SkipMissing})
		if err != nil {
			return 0, nil, err
		}
		recs.Lines, recs.Songs = res.Lines, res.Songs
		return res.Lines.Len(), res.Diagnostics, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("expanded lines", "lines", recs.Lines.Len(), "songs", recs.Songs.Len(), "duration", recs.Stages[lines.Stage])

	err = recs.stage(ctx, network.Stage, recs.Lines.Len(), func() (int, errors.Diagnostics, error) {
		no := opts.NetworkOptions()
		res, err := network.Build(recs.Lines, t, opts.Width, opts.Height, &no)
		if err != nil {
			return 0, nil, err
		}
		recs.Network = res
		return res.Nodes.Len(), res.Diagnostics, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("built network",
		"nodes", recs.Network.Nodes.Len(),
		"links", recs.Network.Links.Len(),
		"radius", recs.Network.Radius,
		"duration", recs.Stages[network.Stage])

	err = recs.stage(ctx, motif.Stage, t.Themes.Len(), func() (int, errors.Diagnostics, error) {
		res, err := motif.Extract(recs.Lines, t, scale.NewOrdinal(nil))
		if err != nil {
			return 0, nil, err
		}
		recs.Motif = res
		return res.Diamonds.Len(), res.Diagnostics, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted themes", "diamonds", recs.Motif.Diamonds.Len(), "duration", recs.Stages[motif.Stage])

	err = recs.stage(ctx, StageSelection, recs.Lines.Len(), func() (int, errors.Diagnostics, error) {
		eng := selection.Engine{
			Lines:        recs.Lines,
			Diamonds:     recs.Motif.Diamonds,
			Nodes:        recs.Network.Nodes,
			Links:        recs.Network.Links,
			Grouped:      recs.Motif.Grouped,
			ThemeSizeMin: opts.ThemeSizeMin,
			ThemeSizeMax: opts.ThemeSizeMax,
		}
		recs.View = eng.Apply(opts.Selection())
		return len(recs.View.Lines), nil, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("applied selection", "lines", len(recs.View.Lines), "diamonds", len(recs.View.Diamonds))

	err = recs.stage(ctx, timeline.Stage, len(recs.View.Lines), func() (int, errors.Diagnostics, error) {
		cfg := opts.Timeline
		recs.Timeline = timeline.Layout(recs.View.Lines, recs.View.Diamonds, recs.Songs, opts.Width, &cfg)
		return len(recs.Timeline.Songs), recs.Timeline.Diagnostics, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("laid out timeline", "songs", len(recs.Timeline.Songs), "height", recs.Timeline.Height)

	return recs, nil
}

// stage runs fn between pipeline hooks, times it and merges its
// diagnostics.
func (r *Records) stage(ctx context.Context, name string, inputs int, fn func() (int, errors.Diagnostics, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name, inputs)

	start := time.Now()
	outputs, diags, err := fn()
	d := time.Since(start)
	r.Stages[name] = d
	r.Diagnostics.Merge(diags)

	hooks.OnStageComplete(ctx, name, outputs, len(diags), d, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Layout serializes the filtered, positioned view.
func (r *Records) Layout(opts Options) graph.Layout {
	sel := opts.Selection()
	return graph.FromRecords(graph.Records{
		Title:     r.Title,
		Width:     opts.Width,
		Height:    opts.Height,
		Radius:    r.Network.Radius,
		ThemeSize: r.View.ThemeSize,
		Timeline:  r.Timeline.Height,
		Selection: graph.Selection{
			Characters:    members(sel.Characters),
			Conversations: members(sel.Conversations),
			Themes:        members(sel.Themes),
		},
		Nodes:       r.View.Nodes,
		Links:       r.View.Links,
		Endpoints:   r.Network.Nodes.All(),
		Lines:       r.View.Lines,
		Songs:       r.Timeline.Songs,
		Diamonds:    r.Timeline.Diamonds,
		Themes:      r.View.Grouped,
		Diagnostics: r.Diagnostics,
	})
}

func members(s selection.Set) []string {
	if !s.Active() {
		return nil
	}
	return s.Sorted()
}
