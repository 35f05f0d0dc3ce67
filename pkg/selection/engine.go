package selection

import (
	"github.com/matzehuels/libretto/pkg/scale"
	"github.com/matzehuels/libretto/pkg/show"
)

// Engine runs the filter passes over the full record sets.
type Engine struct {
	Lines    *show.LineStore
	Diamonds *show.DiamondStore
	Nodes    *show.NodeStore
	Links    *show.LinkStore
	Grouped  []*show.GroupedTheme

	// ThemeSizeMin and ThemeSizeMax bound the theme legend scale. Both
	// zero means [8, 12].
	ThemeSizeMin float64
	ThemeSizeMax float64
}

// View is the filtered state produced by Apply.
type View struct {
	Selection  Selection
	Lines      []*show.Line
	Diamonds   []*show.Diamond
	Nodes      []*show.CharacterNode
	Links      []*show.CharacterLink
	Grouped    []*show.GroupedTheme
	ThemeScale scale.Linear
	ThemeSize  float64
}

// Apply runs the character filter, the theme filter and the annotation
// pass, in that order, starting from every stored Line and Diamond.
// Line and Diamond Filtered flags mark the records that survived.
func (e *Engine) Apply(sel Selection) View {
	sizeMin, sizeMax := e.ThemeSizeMin, e.ThemeSizeMax
	if sizeMin == 0 && sizeMax == 0 {
		sizeMin, sizeMax = DefaultMinThemeSize, DefaultMaxThemeSize
	}

	allLines := e.Lines.All()
	allDiamonds := e.Diamonds.All()

	lines, diamonds := FilterByCharacter(sel, allLines, allDiamonds)
	lines, diamonds = FilterByTheme(sel, lines, diamonds)

	markFiltered(allLines, lines, allDiamonds, diamonds)

	ann := Annotate(lines, diamonds, sel, e.Nodes, e.Links, e.Grouped, sizeMin, sizeMax)
	return View{
		Selection:  sel,
		Lines:      lines,
		Diamonds:   diamonds,
		Nodes:      ann.Nodes,
		Links:      ann.Links,
		Grouped:    e.Grouped,
		ThemeScale: ann.ThemeScale,
		ThemeSize:  ann.ThemeSize,
	}
}

func markFiltered(allLines, lines []*show.Line, allDiamonds, diamonds []*show.Diamond) {
	for _, l := range allLines {
		l.Filtered = false
	}
	for _, l := range lines {
		l.Filtered = true
	}
	for _, d := range allDiamonds {
		d.Filtered = false
	}
	for _, d := range diamonds {
		d.Filtered = true
	}
}
