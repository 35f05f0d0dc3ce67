// Package scale maps data values to visual values.
//
// Scales are plain values constructed by whichever stage computes their
// domain and handed explicitly to the stages that consume them. Nothing in
// this package holds shared state between calls.
package scale

// Linear maps a continuous domain [D0, D1] onto a range [R0, R1].
//
// Values outside the domain extrapolate; no clamping is applied.
// A degenerate domain (D0 == D1) maps every value to R0, which keeps
// scales over empty or single-valued inputs well defined.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear returns a linear scale over the given domain and range.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map returns the range value for v.
func (s Linear) Map(v float64) float64 {
	if s.D0 == s.D1 {
		return s.R0
	}
	t := (v - s.D0) / (s.D1 - s.D0)
	return s.R0 + t*(s.R1-s.R0)
}

// Degenerate reports whether the domain collapses to a single point.
func (s Linear) Degenerate() bool { return s.D0 == s.D1 }

// Extent returns the minimum and maximum of values.
// ok is false for an empty slice.
func Extent(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
