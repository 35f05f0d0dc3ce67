// Package network builds the character network: one node per visible
// character, one weighted edge per conversation, and a force-directed
// layout that spreads the nodes over two rows.
package network

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/network/force"
	"github.com/matzehuels/libretto/pkg/scale"
	"github.com/matzehuels/libretto/pkg/show"
)

// Stage names this step in diagnostics.
const Stage = "network"

// Default option values.
const (
	DefaultImagePath = "images/{id}.png"
	DefaultMinWeight = 3.0
	DefaultMaxWeight = 8.0
	MaxRadius        = 20.0
)

// Options configures Build.
type Options struct {
	// ImagePath is the portrait reference pattern; "{id}" is replaced by
	// the character id.
	ImagePath string
	// MinWeight and MaxWeight bound edge weights.
	MinWeight float64
	MaxWeight float64
	// Force tunes the layout simulation. Iterations and Seed are honoured;
	// LinkDistance is always derived from the node radius.
	Force force.Options
	// TagBothEndpoints also marks the target's Lines with the conversation.
	// By default only Lines sung by the source character are tagged.
	TagBothEndpoints bool
	// OnTick observes simulation progress.
	OnTick func(tick int)
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ImagePath == "" {
		o.ImagePath = d.ImagePath
	}
	if o.MinWeight == 0 && o.MaxWeight == 0 {
		o.MinWeight, o.MaxWeight = d.MinWeight, d.MaxWeight
	}
	if o.Force == (force.Options{}) {
		o.Force = d.Force
	}
	return o
}

// DefaultOptions returns the standard network options.
func DefaultOptions() Options {
	return Options{
		ImagePath: DefaultImagePath,
		MinWeight: DefaultMinWeight,
		MaxWeight: DefaultMaxWeight,
		Force:     force.DefaultOptions(),
	}
}

// Result holds the positioned network.
type Result struct {
	Nodes       *show.NodeStore
	Links       *show.LinkStore
	Radius      float64
	Width       float64
	Height      float64
	Weights     scale.Linear
	Diagnostics errors.Diagnostics
}

// Build creates nodes and links from the relation table, tags Lines with
// the conversation they belong to, and lays the nodes out for a canvas of
// the given size. A nil opts uses DefaultOptions.
func Build(lines *show.LineStore, t *corpus.Tables, width, height float64, opts *Options) (*Result, error) {
	o := DefaultOptions()
	if opts != nil {
		o = opts.withDefaults()
	}
	opts = &o
	res := &Result{
		Nodes:  show.NewNodeStore(),
		Links:  show.NewLinkStore(),
		Width:  width,
		Height: height,
	}

	if err := buildNodes(res, lines, t, opts); err != nil {
		return nil, err
	}
	if err := buildLinks(res, lines, t, opts); err != nil {
		return nil, err
	}
	if err := Layout(res, width, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func buildNodes(res *Result, lines *show.LineStore, t *corpus.Tables, opts *Options) error {
	counts := lines.CountByCharacter()
	for p := t.Relations.Characters.Oldest(); p != nil; p = p.Next() {
		id := p.Key
		c, ok := t.Characters.Get(id)
		if !ok {
			res.Diagnostics.Add(Stage, errors.KindMissingCharacter, id, id, "relation table")
			continue
		}
		if !c.Visible {
			res.Diagnostics.Add(Stage, errors.KindHiddenCharacter, id, id, "")
			continue
		}

		node := show.CharacterNode{
			ID:       id,
			Name:     c.Name,
			Initials: Initials(c.Name),
			Color:    c.Color,
			Selected: true,
			NumLines: counts[id],
		}
		if c.HasImage {
			node.Image = strings.ReplaceAll(opts.ImagePath, "{id}", id)
		}
		if _, err := res.Nodes.Add(node); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "character %q", id)
		}
	}
	return nil
}

// Initials returns the first rune of each whitespace-separated name token.
func Initials(name string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(tok)
		b.WriteRune(r)
	}
	return b.String()
}

func buildLinks(res *Result, lines *show.LineStore, t *corpus.Tables, opts *Options) error {
	conv := t.Relations.Conversing

	counts := make([]float64, 0, conv.Len())
	for p := conv.Oldest(); p != nil; p = p.Next() {
		counts = append(counts, float64(len(p.Value)))
	}
	lo, hi, _ := scale.Extent(counts)
	res.Weights = scale.NewLinear(lo, hi, opts.MinWeight, opts.MaxWeight)

	for p := conv.Oldest(); p != nil; p = p.Next() {
		key := p.Key
		if err := errors.ValidateConversingKey(key); err != nil {
			res.Diagnostics.Add(Stage, errors.KindMalformedKey, key, key, errors.UserMessage(err))
			continue
		}
		srcID, tgtID, _ := strings.Cut(key, "-")
		src, okS := res.Nodes.Get(srcID)
		if !okS {
			res.Diagnostics.Add(Stage, errors.KindMissingEndpoint, key, srcID, "source")
		}
		_, okT := res.Nodes.Get(tgtID)
		if !okT {
			res.Diagnostics.Add(Stage, errors.KindMissingEndpoint, key, tgtID, "target")
		}
		if !okS || !okT {
			continue
		}

		for _, lineID := range p.Value {
			for _, l := range lines.ByLineID(lineID) {
				if l.CharacterID == srcID || (opts.TagBothEndpoints && l.CharacterID == tgtID) {
					l.Conversing = key
				}
			}
		}

		_, err := res.Links.Add(show.CharacterLink{
			ID:       key,
			Color:    src.Color,
			Weight:   res.Weights.Map(float64(len(p.Value))),
			Count:    len(p.Value),
			Selected: true,
			Source:   srcID,
			Target:   tgtID,
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "conversation %q", key)
		}
	}
	return nil
}

// NodeRadius returns the node radius used for n nodes on a canvas of the
// given width: min(20, width / ceil(n/2) / 3).
func NodeRadius(n int, width float64) float64 {
	if n == 0 {
		return MaxRadius
	}
	middle := math.Ceil(float64(n) / 2)
	return math.Min(MaxRadius, width/middle/3)
}

// Layout pins the busiest half of the nodes to y=0 and the rest to
// y=-4*radius, then runs the force simulation and writes positions back
// into res.Nodes. A nil opts uses DefaultOptions.
func Layout(res *Result, width float64, opts *Options) error {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	nodes := res.Nodes.All()
	if len(nodes) == 0 {
		return nil
	}

	radius := NodeRadius(len(nodes), width)
	res.Radius = radius
	middle := int(math.Ceil(float64(len(nodes)) / 2))

	ranked := append([]*show.CharacterNode(nil), nodes...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].NumLines > ranked[j].NumLines })
	for i, n := range ranked {
		fy := 0.0
		if i >= middle {
			fy = -radius * 4
		}
		n.FY = &fy
		n.Radius = radius
	}

	index := make(map[string]int, len(nodes))
	bodies := make([]force.Node, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		bodies[i] = force.Unplaced(n.Radius)
		bodies[i].FY = n.FY
	}
	var links []force.Link
	for _, l := range res.Links.All() {
		links = append(links, force.Link{Source: index[l.Source], Target: index[l.Target]})
	}

	fo := opts.Force
	fo.LinkDistance = radius
	sim, st, err := force.New(bodies, links, &fo)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "network layout")
	}
	st = sim.Run(st, opts.OnTick)

	for i, n := range nodes {
		b := st.Nodes[i]
		n.X, n.Y = b.X, b.Y
		n.VX, n.VY = b.VX, b.VY
	}
	return nil
}
