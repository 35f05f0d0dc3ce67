package force

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
)

// ErrLinkEndpoint is returned by New when a link refers to a node index
// outside the node slice.
var ErrLinkEndpoint = errors.New("link endpoint out of range")

const initialRadius = 10.0

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Node is one simulated body. Positions are left as given unless both X
// and Y are NaN, in which case New places the node on a phyllotaxis spiral.
type Node struct {
	X, Y   float64
	VX, VY float64
	FX, FY *float64 // pinned coordinates, nil when free
	Radius float64
}

// Link connects two nodes by index.
type Link struct {
	Source, Target int
}

// Options tunes the simulation.
type Options struct {
	Iterations    int     // ticks run by Run
	Seed          uint64  // jiggle seed
	AlphaMin      float64 // alpha reached after 300 ticks
	VelocityDecay float64 // fraction of velocity lost per tick
	LinkDistance  float64
	CollideScale  float64 // collision radius = CollideScale * Radius
	CollideForce  float64 // collision strength in [0, 1]
	CenterX       float64
	CenterY       float64
}

var defaultOpts = Options{
	Iterations:    1000,
	Seed:          1,
	AlphaMin:      0.001,
	VelocityDecay: 0.4,
	LinkDistance:  30,
	CollideScale:  2,
	CollideForce:  1,
}

// DefaultOptions returns the d3-force defaults with a 1000 tick budget.
func DefaultOptions() Options { return defaultOpts }

// State is the mutable part of a simulation between ticks.
type State struct {
	Nodes []Node
	Alpha float64
	Tick  int

	rng rand.PCG
}

// Simulation holds the link structure derived once from the inputs.
type Simulation struct {
	opts       Options
	alphaDecay float64
	links      []Link
	strengths  []float64
	bias       []float64
}

// New prepares a simulation and its initial state. Nodes without a
// position are placed on a phyllotaxis spiral; pinned coordinates are
// applied immediately. A nil opts uses DefaultOptions.
func New(nodes []Node, links []Link, opts *Options) (*Simulation, State, error) {
	if opts == nil {
		o := defaultOpts
		opts = &o
	}

	count := make([]int, len(nodes))
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(nodes) || l.Target < 0 || l.Target >= len(nodes) {
			return nil, State{}, ErrLinkEndpoint
		}
		count[l.Source]++
		count[l.Target]++
	}

	sim := &Simulation{
		opts:       *opts,
		alphaDecay: 1 - math.Pow(opts.AlphaMin, 1.0/300),
		links:      slices.Clone(links),
		strengths:  make([]float64, len(links)),
		bias:       make([]float64, len(links)),
	}
	for i, l := range links {
		s, t := float64(count[l.Source]), float64(count[l.Target])
		sim.strengths[i] = 1 / min(s, t)
		sim.bias[i] = s / (s + t)
	}

	st := State{
		Nodes: slices.Clone(nodes),
		Alpha: 1,
		rng:   *rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef),
	}
	for i := range st.Nodes {
		n := &st.Nodes[i]
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.X = r * math.Cos(a)
			n.Y = r * math.Sin(a)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
	return sim, st, nil
}

// Unplaced returns a node whose position New will choose.
func Unplaced(radius float64) Node {
	return Node{X: math.NaN(), Y: math.NaN(), Radius: radius}
}

// Step advances st by one tick and returns the new state. st is not modified.
func (s *Simulation) Step(st State) State {
	next := st
	next.Nodes = slices.Clone(st.Nodes)
	next.Tick++
	if len(next.Nodes) == 0 {
		return next
	}

	next.Alpha += (0 - next.Alpha) * s.alphaDecay
	rng := rand.New(&next.rng)
	jiggle := func() float64 { return (rng.Float64() - 0.5) * 1e-6 }

	s.collide(next.Nodes, jiggle)
	s.link(next.Nodes, next.Alpha, jiggle)
	s.center(next.Nodes)

	keep := 1 - s.opts.VelocityDecay
	for i := range next.Nodes {
		n := &next.Nodes[i]
		if n.FX == nil {
			n.VX *= keep
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= keep
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}
	return next
}

// Run applies Options.Iterations steps. onTick, when non-nil, is called
// after every step with the number of completed ticks.
func (s *Simulation) Run(st State, onTick func(tick int)) State {
	for i := 0; i < s.opts.Iterations; i++ {
		st = s.Step(st)
		if onTick != nil {
			onTick(i + 1)
		}
	}
	return st
}

func (s *Simulation) collide(nodes []Node, jiggle func() float64) {
	for i := range nodes {
		ni := &nodes[i]
		ri := ni.Radius * s.opts.CollideScale
		ri2 := ri * ri
		xi := ni.X + ni.VX
		yi := ni.Y + ni.VY
		for j := i + 1; j < len(nodes); j++ {
			nj := &nodes[j]
			rj := nj.Radius * s.opts.CollideScale
			r := ri + rj
			x := xi - nj.X - nj.VX
			y := yi - nj.Y - nj.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = jiggle()
				l += x * x
			}
			if y == 0 {
				y = jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l * s.opts.CollideForce
			x *= l
			y *= l
			rj2 := rj * rj
			share := rj2 / (ri2 + rj2)
			ni.VX += x * share
			ni.VY += y * share
			nj.VX -= x * (1 - share)
			nj.VY -= y * (1 - share)
		}
	}
}

func (s *Simulation) link(nodes []Node, alpha float64, jiggle func() float64) {
	for i, lk := range s.links {
		src, tgt := &nodes[lk.Source], &nodes[lk.Target]
		x := tgt.X + tgt.VX - src.X - src.VX
		if x == 0 {
			x = jiggle()
		}
		y := tgt.Y + tgt.VY - src.Y - src.VY
		if y == 0 {
			y = jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - s.opts.LinkDistance) / l * alpha * s.strengths[i]
		x *= l
		y *= l
		b := s.bias[i]
		tgt.VX -= x * b
		tgt.VY -= y * b
		src.VX += x * (1 - b)
		src.VY += y * (1 - b)
	}
}

func (s *Simulation) center(nodes []Node) {
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	sx = sx/float64(len(nodes)) - s.opts.CenterX
	sy = sy/float64(len(nodes)) - s.opts.CenterY
	for i := range nodes {
		nodes[i].X -= sx
		nodes[i].Y -= sy
	}
}
