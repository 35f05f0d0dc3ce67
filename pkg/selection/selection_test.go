package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/libretto/pkg/corpus/corpustest"
	"github.com/matzehuels/libretto/pkg/lines"
	"github.com/matzehuels/libretto/pkg/motif"
	"github.com/matzehuels/libretto/pkg/network"
	"github.com/matzehuels/libretto/pkg/show"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	tb := corpustest.Show()
	exp, err := lines.Expand(tb, lines.Options{})
	require.NoError(t, err)
	net, err := network.Build(exp.Lines, tb, 600, 400, nil)
	require.NoError(t, err)
	mot, err := motif.Extract(exp.Lines, tb, nil)
	require.NoError(t, err)
	return &Engine{
		Lines:    exp.Lines,
		Diamonds: mot.Diamonds,
		Nodes:    net.Nodes,
		Links:    net.Links,
		Grouped:  mot.Grouped,
	}
}

func lineIDs(ls []*show.Line) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func selectedIDs(ls []*show.Line) []string {
	var out []string
	for _, l := range ls {
		if l.Selected {
			out = append(out, l.ID)
		}
	}
	return out
}

func diamondIDs(ds []*show.Diamond) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

type flags struct{ Selected, Filtered bool }

func snapshot(e *Engine) map[string]flags {
	out := make(map[string]flags)
	for _, l := range e.Lines.All() {
		out["line:"+l.ID] = flags{l.Selected, l.Filtered}
	}
	for _, d := range e.Diamonds.All() {
		out["diamond:"+d.ID] = flags{d.Selected, d.Filtered}
	}
	for _, n := range e.Nodes.All() {
		out["node:"+n.ID] = flags{n.Selected, n.Filtered}
	}
	for _, l := range e.Links.All() {
		out["link:"+l.ID] = flags{l.Selected, l.Filtered}
	}
	for _, g := range e.Grouped {
		for _, s := range g.Diamonds {
			out["theme:"+s.ID] = flags{s.Selected, s.Filtered}
		}
	}
	return out
}

var allLines = []string{
	"A/1:0-0", "A/1:1-1", "B/1:1-1", "C/1:2-3", "B/1:4-4", "C/1:4-4",
	"A/2:0-0", "B/2:1-2", "A/2:3-3", "C/2:3-3", "H/2:4-4",
}

func TestApplyNoSelection(t *testing.T) {
	e := newEngine(t)
	v := e.Apply(Selection{})

	assert.Equal(t, allLines, lineIDs(v.Lines))
	assert.Equal(t, allLines, selectedIDs(v.Lines))
	assert.Len(t, v.Diamonds, 4)

	require.Len(t, v.Nodes, 3)
	for _, n := range v.Nodes {
		assert.True(t, n.Selected, n.ID)
		assert.True(t, n.Filtered, n.ID)
	}
	require.Len(t, v.Links, 3)
	for _, l := range v.Links {
		assert.True(t, l.Selected, l.ID)
		assert.True(t, l.Filtered, l.ID)
	}

	assert.Equal(t, 12.0, v.ThemeSize)
	t1 := v.Grouped[0].Diamonds[0]
	assert.Equal(t, "t1", t1.ID)
	assert.Equal(t, 2, t1.Length)
	assert.Equal(t, []show.Position{{X: 6, Y: 6, Size: 6}}, t1.Positions)
	t2 := v.Grouped[0].Diamonds[1]
	assert.Equal(t, []show.Position{{X: 6, Y: 6, Size: 5}}, t2.Positions)
}

func TestFilterByCharacter(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selection
		kept     []string
		selected []string
		diamonds []string
	}{
		{
			name:     "single character",
			sel:      Selection{Characters: NewSet("A")},
			kept:     allLines,
			selected: []string{"A/1:0-0", "A/1:1-1", "A/2:0-0", "A/2:3-3"},
			diamonds: []string{"t1/1:0", "t1/2:0", "t2/1:2", "t3/2:3"},
		},
		{
			name:     "set equality drops songs",
			sel:      Selection{Characters: NewSet("B", "H")},
			kept:     []string{"A/2:0-0", "B/2:1-2", "A/2:3-3", "C/2:3-3", "H/2:4-4"},
			selected: []string{"B/2:1-2", "H/2:4-4"},
			diamonds: []string{"t1/2:0", "t3/2:3"},
		},
		{
			name:     "conversation only",
			sel:      Selection{Conversations: NewSet("B-C")},
			kept:     allLines,
			selected: []string{"B/1:4-4", "B/2:1-2"},
			diamonds: []string{"t1/1:0", "t1/2:0", "t2/1:2", "t3/2:3"},
		},
		{
			name:     "character and conversation",
			sel:      Selection{Characters: NewSet("C"), Conversations: NewSet("A-B")},
			kept:     []string{"A/1:0-0", "A/1:1-1", "B/1:1-1", "C/1:2-3", "B/1:4-4", "C/1:4-4"},
			selected: []string{"A/1:1-1", "C/1:2-3", "C/1:4-4"},
			diamonds: []string{"t1/1:0", "t2/1:2"},
		},
		{
			name:     "unknown character",
			sel:      Selection{Characters: NewSet("Z")},
			kept:     nil,
			selected: nil,
			diamonds: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			kept, diamonds := FilterByCharacter(tt.sel, e.Lines.All(), e.Diamonds.All())

			if tt.kept == nil {
				assert.Empty(t, kept)
			} else {
				assert.Equal(t, tt.kept, lineIDs(kept))
			}
			assert.Equal(t, tt.selected, selectedIDs(e.Lines.All()), "dropped lines are unselected")
			if tt.diamonds == nil {
				assert.Empty(t, diamonds)
			} else {
				assert.Equal(t, tt.diamonds, diamondIDs(diamonds))
			}
		})
	}
}

func TestDiamondSelectedFromAnchors(t *testing.T) {
	e := newEngine(t)
	_, diamonds := FilterByCharacter(Selection{Characters: NewSet("B")}, e.Lines.All(), e.Diamonds.All())

	got := make(map[string]bool)
	for _, d := range diamonds {
		got[d.ID] = d.Selected
	}
	// t1/1:0 ends on 1:1-1, which B sings.
	assert.True(t, got["t1/1:0"])
	assert.False(t, got["t2/1:2"])
}

func TestFilterByTheme(t *testing.T) {
	e := newEngine(t)
	lines, diamonds := FilterByTheme(Selection{Themes: NewSet("t2")}, e.Lines.All(), e.Diamonds.All())

	assert.Equal(t, []string{"A/1:0-0", "A/1:1-1", "B/1:1-1", "C/1:2-3", "B/1:4-4", "C/1:4-4"}, lineIDs(lines))
	assert.Equal(t, []string{"C/1:2-3"}, selectedIDs(e.Lines.All()))
	assert.Equal(t, []string{"t2/1:2"}, diamondIDs(diamonds))

	same, sameD := FilterByTheme(Selection{}, lines, diamonds)
	assert.Equal(t, lines, same)
	assert.Equal(t, diamonds, sameD)
}

func TestApplyIdempotent(t *testing.T) {
	sels := []Selection{
		{},
		{Characters: NewSet("A")},
		{Characters: NewSet("A", "C"), Themes: NewSet("t3")},
		{Conversations: NewSet("B-C"), Themes: NewSet("t1")},
	}
	for _, sel := range sels {
		e := newEngine(t)
		first := e.Apply(sel)
		snap := snapshot(e)
		second := e.Apply(sel)

		assert.Equal(t, snap, snapshot(e))
		assert.Equal(t, lineIDs(first.Lines), lineIDs(second.Lines))
		assert.Equal(t, diamondIDs(first.Diamonds), diamondIDs(second.Diamonds))
	}
}

func TestApplyComposition(t *testing.T) {
	both := Selection{Characters: NewSet("A"), Themes: NewSet("t3")}

	stepwise := newEngine(t)
	stepwise.Apply(Selection{Characters: NewSet("A")})
	got := stepwise.Apply(both)

	fresh := newEngine(t)
	want := fresh.Apply(both)

	assert.Equal(t, lineIDs(want.Lines), lineIDs(got.Lines))
	assert.Equal(t, snapshot(fresh), snapshot(stepwise))
	assert.Equal(t, []string{"A/2:0-0", "B/2:1-2", "A/2:3-3", "C/2:3-3", "H/2:4-4"}, lineIDs(got.Lines))
	assert.Equal(t, []string{"A/2:3-3"}, selectedIDs(got.Lines))
}

func TestReversedOrderDiffers(t *testing.T) {
	sel := Selection{Characters: NewSet("A"), Themes: NewSet("t3")}

	fixed := newEngine(t)
	l, d := FilterByCharacter(sel, fixed.Lines.All(), fixed.Diamonds.All())
	l, _ = FilterByTheme(sel, l, d)
	want := selectedIDs(l)

	reversed := newEngine(t)
	l, d = FilterByTheme(sel, reversed.Lines.All(), reversed.Diamonds.All())
	l, _ = FilterByCharacter(sel, l, d)
	got := selectedIDs(l)

	assert.Equal(t, []string{"A/2:3-3"}, want)
	assert.NotEqual(t, want, got, "the character pass resets the theme narrowing")
	assert.Contains(t, got, "A/2:0-0", "a line without the theme is wrongly selected")
}

func TestAnnotateFlags(t *testing.T) {
	e := newEngine(t)
	v := e.Apply(Selection{Characters: NewSet("A")})

	nodes := make(map[string]*show.CharacterNode)
	for _, n := range v.Nodes {
		nodes[n.ID] = n
	}
	require.Len(t, nodes, 3)
	assert.True(t, nodes["A"].Selected)
	assert.True(t, nodes["A"].Filtered)
	assert.False(t, nodes["B"].Selected)
	assert.False(t, nodes["B"].Filtered)

	links := make(map[string]*show.CharacterLink)
	for _, l := range v.Links {
		links[l.ID] = l
	}
	assert.False(t, links["A-B"].Selected)
	assert.True(t, links["A-B"].Filtered, "A sings the A-B line")
	assert.False(t, links["B-C"].Filtered)
}

func TestAnnotateDropsAbsentNodes(t *testing.T) {
	e := newEngine(t)
	v := e.Apply(Selection{Themes: NewSet("t2")})

	// Only song 1 survives, so conversations of song 2 disappear.
	var ids []string
	for _, l := range v.Links {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"A-B", "B-C"}, ids)
	assert.Equal(t, 3, e.Links.Len(), "records are kept")
}

func TestAnnotateEmptyDiamonds(t *testing.T) {
	e := newEngine(t)
	ann := Annotate(e.Lines.All(), nil, Selection{}, e.Nodes, e.Links, e.Grouped, 8, 12)

	assert.True(t, ann.ThemeScale.Degenerate())
	assert.Equal(t, 8.0, ann.ThemeSize)
	for _, g := range e.Grouped {
		for _, s := range g.Diamonds {
			assert.Zero(t, s.Length)
			assert.False(t, s.Filtered)
			assert.Equal(t, 4.0, s.Positions[0].Size)
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSet("b", "", "a")
	assert.True(t, s.Active())
	assert.Equal(t, []string{"a", "b"}, s.Sorted())
	assert.False(t, NewSet().Active())
	assert.True(t, Selection{}.None())
	assert.False(t, Selection{Themes: s}.None())
}
