package scale

// Category20 is the twenty-colour categorical palette, in its canonical order.
var Category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// Ordinal assigns palette entries to keys in first-request order,
// cycling when the palette runs out. A given key always maps to the
// same colour for the lifetime of the scale.
//
// The zero value is not usable; use NewOrdinal.
type Ordinal struct {
	palette []string
	index   map[string]int
	keys    []string
}

// NewOrdinal creates an ordinal scale over palette. A nil or empty
// palette falls back to Category20.
func NewOrdinal(palette []string) *Ordinal {
	if len(palette) == 0 {
		palette = Category20
	}
	return &Ordinal{
		palette: palette,
		index:   make(map[string]int),
	}
}

// Color returns the colour for key, assigning the next palette entry on
// first use.
func (o *Ordinal) Color(key string) string {
	i, ok := o.index[key]
	if !ok {
		i = len(o.keys)
		o.index[key] = i
		o.keys = append(o.keys, key)
	}
	return o.palette[i%len(o.palette)]
}

// Domain returns the keys seen so far, in assignment order.
func (o *Ordinal) Domain() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}
