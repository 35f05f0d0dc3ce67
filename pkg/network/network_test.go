package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/corpus/corpustest"
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/lines"
	"github.com/matzehuels/libretto/pkg/show"
)

func expand(t *testing.T, tb *corpus.Tables) *show.LineStore {
	t.Helper()
	res, err := lines.Expand(tb, lines.Options{})
	require.NoError(t, err)
	return res.Lines
}

func TestBuildDuet(t *testing.T) {
	tb := corpustest.Duet()
	ls := expand(t, tb)

	res, err := Build(ls, tb, 600, 400, nil)
	require.NoError(t, err)

	require.Equal(t, 3, ls.Len())
	require.Equal(t, 1, res.Links.Len())

	link, ok := res.Links.Get("A-B")
	require.True(t, ok)
	assert.Equal(t, DefaultMinWeight, link.Weight, "single count maps to range minimum")
	assert.Equal(t, 1, link.Count)
	assert.Equal(t, "#1f77b4", link.Color)
	assert.Equal(t, "A", link.Source)
	assert.Equal(t, "B", link.Target)

	a, _ := ls.Get("A/1:1-1")
	b, _ := ls.Get("B/1:1-1")
	solo, _ := ls.Get("A/1:0-0")
	assert.Equal(t, "A-B", a.Conversing)
	assert.Empty(t, b.Conversing, "only the source singer is tagged")
	assert.Empty(t, solo.Conversing)
	assert.Empty(t, res.Diagnostics)
}

func TestBuildDuetTagBothEndpoints(t *testing.T) {
	tb := corpustest.Duet()
	ls := expand(t, tb)

	opts := DefaultOptions()
	opts.TagBothEndpoints = true
	_, err := Build(ls, tb, 600, 400, &opts)
	require.NoError(t, err)

	for _, l := range ls.ByLineID("1:1-1") {
		assert.Equal(t, "A-B", l.Conversing, l.ID)
	}
	solo, _ := ls.Get("A/1:0-0")
	assert.Empty(t, solo.Conversing)
}

func TestBuildNodes(t *testing.T) {
	tb := corpustest.Show()
	ls := expand(t, tb)

	res, err := Build(ls, tb, 600, 400, nil)
	require.NoError(t, err)

	require.Equal(t, 3, res.Nodes.Len(), "hidden character left out")
	_, ok := res.Nodes.Get("H")
	assert.False(t, ok)
	assert.Equal(t, 1, res.Diagnostics.Count(errors.KindHiddenCharacter))

	a, ok := res.Nodes.Get("A")
	require.True(t, ok)
	assert.Equal(t, "AA", a.Initials)
	assert.Equal(t, "images/A.png", a.Image)
	assert.Equal(t, 4, a.NumLines)
	assert.True(t, a.Selected)

	b, _ := res.Nodes.Get("B")
	assert.Empty(t, b.Image)
	assert.Equal(t, "B", b.Initials)
}

func TestBuildLinks(t *testing.T) {
	tb := corpustest.Show()
	ls := expand(t, tb)

	res, err := Build(ls, tb, 600, 400, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Links.Len(), "A-H has a hidden endpoint")
	assert.Equal(t, 1, res.Diagnostics.Count(errors.KindMissingEndpoint))

	bc, _ := res.Links.Get("B-C")
	ab, _ := res.Links.Get("A-B")
	assert.Equal(t, DefaultMaxWeight, bc.Weight)
	assert.Equal(t, DefaultMinWeight, ab.Weight)

	hidden, _ := ls.Get("H/2:4-4")
	assert.Empty(t, hidden.Conversing)
	b21, _ := ls.Get("B/2:1-2")
	assert.Equal(t, "B-C", b21.Conversing)
}

func TestWeightMonotone(t *testing.T) {
	tb := corpustest.Duet()
	for _, c := range []string{"C", "D", "E", "F"} {
		tb.AddCharacter(c, corpus.Character{Name: c, Visible: true, Color: "#000"})
	}
	tb.AddConversing("A-C", "x", "y")
	tb.AddConversing("A-D", "x", "y", "z")
	tb.AddConversing("A-E", "x", "y", "z", "w", "v")
	tb.AddConversing("A-F", "x", "y")
	for _, c := range []string{"C", "D", "E", "F"} {
		tb.AddRelation(c)
	}
	ls := expand(t, tb)

	res, err := Build(ls, tb, 600, 400, nil)
	require.NoError(t, err)

	links := res.Links.All()
	for _, l1 := range links {
		assert.GreaterOrEqual(t, l1.Weight, DefaultMinWeight)
		assert.LessOrEqual(t, l1.Weight, DefaultMaxWeight)
		for _, l2 := range links {
			if l1.Count < l2.Count {
				assert.LessOrEqual(t, l1.Weight, l2.Weight, "%s vs %s", l1.ID, l2.ID)
			}
		}
	}
}

func TestLayoutRows(t *testing.T) {
	tb := corpustest.Show()
	ls := expand(t, tb)

	res, err := Build(ls, tb, 600, 400, nil)
	require.NoError(t, err)

	assert.Equal(t, 20.0, res.Radius)
	a, _ := res.Nodes.Get("A")
	b, _ := res.Nodes.Get("B")
	c, _ := res.Nodes.Get("C")

	// A has 4 lines, B and C 3 each: ceil(3/2)=2 nodes on the top row,
	// ties keep table order.
	assert.Equal(t, 0.0, a.Y)
	assert.Equal(t, 0.0, b.Y)
	assert.Equal(t, -80.0, c.Y)
	for _, n := range res.Nodes.All() {
		require.NotNil(t, n.FY)
		assert.Equal(t, *n.FY, n.Y)
		assert.Equal(t, res.Radius, n.Radius)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	run := func() []*show.CharacterNode {
		tb := corpustest.Show()
		ls := expand(t, tb)
		res, err := Build(ls, tb, 600, 400, nil)
		require.NoError(t, err)
		return res.Nodes.All()
	}

	first, second := run(), run()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].X, second[i].X, first[i].ID)
		assert.Equal(t, first[i].Y, second[i].Y, first[i].ID)
	}
}

func TestNodeRadius(t *testing.T) {
	tests := []struct {
		n     int
		width float64
		want  float64
	}{
		{3, 600, 20},
		{10, 60, 4},
		{1, 30, 10},
		{0, 100, MaxRadius},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NodeRadius(tt.n, tt.width), 1e-12)
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AH", Initials("Alexander Hamilton"))
	assert.Equal(t, "KG", Initials("  King   George "))
	assert.Equal(t, "É", Initials("Éliza"))
	assert.Empty(t, Initials(""))
}

func TestBuildEmpty(t *testing.T) {
	tb := corpus.New()
	res, err := Build(show.NewLineStore(), tb, 600, 400, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Nodes.Len())
	assert.Zero(t, res.Links.Len())
}

func TestMalformedConversingKey(t *testing.T) {
	tb := corpustest.Duet().AddConversing("AB", "1:0-0")
	res, err := Build(expand(t, tb), tb, 600, 400, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Diagnostics.Count(errors.KindMalformedKey))
}
