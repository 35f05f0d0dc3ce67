package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/libretto/pkg/cache"
	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/corpus/corpustest"
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/observability"
	"github.com/matzehuels/libretto/pkg/timeline"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"json", false},
		{"yaml", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var opts Options
	opts.SetLayoutDefaults()

	assert.Equal(t, DefaultWidth, opts.Width)
	assert.Equal(t, DefaultHeight, opts.Height)
	assert.Equal(t, DefaultSeed, opts.Seed)
	assert.Equal(t, DefaultIterations, opts.Iterations)
	assert.Equal(t, 3.0, opts.MinWeight)
	assert.Equal(t, 8.0, opts.MaxWeight)
	assert.Equal(t, 8.0, opts.ThemeSizeMin)
	assert.Equal(t, 12.0, opts.ThemeSizeMax)
	assert.Equal(t, timeline.DefaultConfig(), opts.Timeline)
	assert.NotNil(t, opts.Logger)
}

func TestSetLayoutDefaultsKeepsValues(t *testing.T) {
	opts := Options{Width: 400, Seed: 7, MinWeight: 1, MaxWeight: 2}
	opts.SetLayoutDefaults()

	assert.Equal(t, 400.0, opts.Width)
	assert.Equal(t, uint64(7), opts.Seed)
	assert.Equal(t, 1.0, opts.MinWeight)
	assert.Equal(t, 2.0, opts.MaxWeight)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative width", func(o *Options) { o.Width = -1 }},
		{"negative iterations", func(o *Options) { o.Iterations = -5 }},
		{"weight range", func(o *Options) { o.MinWeight, o.MaxWeight = 9, 3 }},
		{"theme size range", func(o *Options) { o.ThemeSizeMin, o.ThemeSizeMax = 12, 8 }},
		{"line size", func(o *Options) { o.Timeline.LineSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			opts.SetLayoutDefaults()
			tt.mutate(&opts)
			assert.Error(t, opts.Validate())
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())
	first := opts.LayoutKeyOpts()
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, first, opts.LayoutKeyOpts())
}

func TestLayoutKeyOptsSelectionOrder(t *testing.T) {
	a := Options{Characters: []string{"B", "A"}}
	b := Options{Characters: []string{"A", "B", "A"}}
	a.SetLayoutDefaults()
	b.SetLayoutDefaults()

	k := cache.NewDefaultKeyer()
	assert.Equal(t, k.LayoutKey("h", a.LayoutKeyOpts()), k.LayoutKey("h", b.LayoutKeyOpts()))

	c := Options{Themes: []string{"A", "B"}}
	c.SetLayoutDefaults()
	assert.NotEqual(t, k.LayoutKey("h", a.LayoutKeyOpts()), k.LayoutKey("h", c.LayoutKeyOpts()))
}

func TestCompute(t *testing.T) {
	rec := observability.NewRecorder()
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	recs, err := Compute(context.Background(), corpustest.Duet(), Options{Width: 400})
	require.NoError(t, err)

	assert.Equal(t, []string{"lines", "network", "motif", "selection", "timeline"}, rec.StageNames())
	assert.Len(t, recs.Stages, 5)

	l := recs.Layout(Options{Width: 400})
	assert.Len(t, l.Lines, 3)
	assert.Len(t, l.Nodes, 2)
	assert.Len(t, l.Links, 1)
	assert.Len(t, l.Songs, 1)
	assert.Empty(t, l.Diamonds)
	assert.Equal(t, 20.0, l.Radius)
	assert.Equal(t, 170.0, l.Lines[0].FocusX)
	assert.Nil(t, l.Selection.Characters)
}

func TestComputeDeterministic(t *testing.T) {
	opts := Options{Characters: []string{"A"}}
	run := func() []byte {
		recs, err := Compute(context.Background(), corpustest.Show(), opts)
		require.NoError(t, err)
		o := opts
		o.SetLayoutDefaults()
		data, err := graph.MarshalLayout(recs.Layout(o))
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, run(), run())
}

func TestComputeSelection(t *testing.T) {
	full, err := Compute(context.Background(), corpustest.Show(), Options{})
	require.NoError(t, err)
	picked, err := Compute(context.Background(), corpustest.Show(), Options{Themes: []string{"t2"}})
	require.NoError(t, err)

	assert.Less(t, len(picked.View.Lines), len(full.View.Lines))
	for _, d := range picked.View.Diamonds {
		assert.Equal(t, "t2", d.ThemeID)
	}
	assert.NotEmpty(t, full.Diagnostics)
}

// soloConversation has A and B in separate songs, with A's only line
// tagged as talking to B.
func soloConversation() *corpus.Tables {
	return corpus.New().
		AddCharacter("A", corpus.Character{Name: "Alpha", Visible: true}).
		AddCharacter("B", corpus.Character{Name: "Beta", Visible: true}).
		AddSong("1", "Opening").
		AddSong("2", "Reply").
		AddLine("1:0-0", "A").
		AddLine("2:0-0", "B").
		AddRelation("A", "1:0-0").
		AddRelation("B", "2:0-0").
		AddConversing("A-B", "1:0-0")
}

func TestComputeCharacterFilterRoundTrip(t *testing.T) {
	opts := Options{Characters: []string{"A"}}
	recs, err := Compute(context.Background(), soloConversation(), opts)
	require.NoError(t, err)

	o := opts
	o.SetLayoutDefaults()
	l := recs.Layout(o)
	require.Len(t, l.Links, 1)
	require.Len(t, l.Nodes, 2)
	assert.False(t, l.Nodes[0].Hidden)
	assert.Equal(t, "B", l.Nodes[1].ID)
	assert.True(t, l.Nodes[1].Hidden, "link end outside the view")

	data, err := graph.MarshalLayout(l)
	require.NoError(t, err)
	got, err := graph.UnmarshalLayout(data)
	require.NoError(t, err)
	assert.Len(t, got.Nodes, 2)
	assert.True(t, got.Nodes[1].Hidden)
	assert.Equal(t, "B", got.Links[0].Target)
}

func TestRunnerCachesCharacterFilter(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Characters: []string{"A"}}
	first, err := runner.Execute(ctx, soloConversation(), opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := runner.Execute(ctx, soloConversation(), opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, second.Stats.Nodes)
}

func TestComputeErrors(t *testing.T) {
	missing := corpus.New().
		AddCharacter("A", corpus.Character{Name: "Alpha", Visible: true}).
		AddSong("1", "Opening").
		AddLine("1:0-0", "A").
		AddLine("1:1-1", "Z")

	_, err := Compute(context.Background(), missing, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingReference))

	recs, err := Compute(context.Background(), missing, Options{SkipMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 1, recs.Lines.Len())
	assert.Equal(t, 1, recs.Diagnostics.Count(errors.KindMissingCharacter))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Compute(ctx, corpustest.Duet(), Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Compute(context.Background(), nil, Options{})
	assert.Error(t, err)

	_, err = Compute(context.Background(), corpustest.Duet(), Options{Width: -1})
	assert.Error(t, err)
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	rec := observability.NewRecorder()
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	first, err := runner.Execute(ctx, corpustest.Show(), Options{})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.NotNil(t, first.Records)
	assert.NotEmpty(t, first.RunID)
	assert.Equal(t, first.RunID, first.Layout.RunID)

	second, err := runner.Execute(ctx, corpustest.Show(), Options{})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Nil(t, second.Records)
	assert.NotEqual(t, first.RunID, second.RunID)

	want, _ := graph.MarshalLayout(first.Layout)
	got, _ := graph.MarshalLayout(second.Layout)
	assert.JSONEq(t, string(want), string(got))
	assert.Equal(t, 1, rec.Hits[KeyTypeLayout])
	assert.Equal(t, 1, rec.Sets[KeyTypeLayout])

	refreshed, err := runner.Execute(ctx, corpustest.Show(), Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)

	other, err := runner.Execute(ctx, corpustest.Show(), Options{Characters: []string{"A"}})
	require.NoError(t, err)
	assert.False(t, other.CacheHit)
}

func TestRunnerNullCache(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	for i := 0; i < 2; i++ {
		res, err := runner.Execute(context.Background(), corpustest.Duet(), Options{})
		require.NoError(t, err)
		assert.False(t, res.CacheHit)
	}
}

func TestRenderNetwork(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	res, err := runner.Execute(ctx, corpustest.Duet(), Options{})
	require.NoError(t, err)

	dot, hit, err := runner.RenderNetwork(ctx, res.Layout, FormatDOT, RenderOptions{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Contains(t, string(dot), `"A" -- "B"`)

	again, hit, err := runner.RenderNetwork(ctx, res.Layout, FormatDOT, RenderOptions{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, dot, again)

	data, _, err := runner.RenderNetwork(ctx, res.Layout, FormatJSON, RenderOptions{})
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "nodes")

	_, _, err = runner.RenderNetwork(ctx, res.Layout, "png", RenderOptions{})
	assert.Error(t, err)
}
