package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearMap(t *testing.T) {
	tests := []struct {
		name  string
		scale Linear
		in    float64
		want  float64
	}{
		{"domain start", NewLinear(1, 5, 3, 8), 1, 3},
		{"domain end", NewLinear(1, 5, 3, 8), 5, 8},
		{"midpoint", NewLinear(0, 10, 8, 12), 5, 10},
		{"extrapolate", NewLinear(0, 1, 0, 10), 2, 20},
		{"degenerate", NewLinear(1, 1, 3, 8), 1, 3},
		{"degenerate zero", NewLinear(0, 0, 8, 12), 0, 8},
		{"inverted range", NewLinear(0, 4, 10, 2), 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.scale.Map(tt.in), 1e-9)
		})
	}
}

func TestLinearMonotone(t *testing.T) {
	s := NewLinear(1, 40, 3, 8)
	prev := s.Map(1)
	for v := 2.0; v <= 40; v++ {
		got := s.Map(v)
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 8.0)
		prev = got
	}
}

func TestExtent(t *testing.T) {
	lo, hi, ok := Extent([]float64{3, 1, 7, 2})
	assert.True(t, ok)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 7.0, hi)

	_, _, ok = Extent(nil)
	assert.False(t, ok)
}

func TestOrdinal(t *testing.T) {
	o := NewOrdinal(nil)

	assert.Equal(t, Category20[0], o.Color("b"))
	assert.Equal(t, Category20[1], o.Color("a"))
	assert.Equal(t, Category20[0], o.Color("b"), "repeat key keeps colour")
	assert.Equal(t, []string{"b", "a"}, o.Domain())
}

func TestOrdinalCycles(t *testing.T) {
	o := NewOrdinal([]string{"#000", "#fff"})
	assert.Equal(t, "#000", o.Color("x"))
	assert.Equal(t, "#fff", o.Color("y"))
	assert.Equal(t, "#000", o.Color("z"))
}
