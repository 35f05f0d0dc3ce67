package selection

import (
	"slices"

	"github.com/matzehuels/libretto/pkg/scale"
	"github.com/matzehuels/libretto/pkg/show"
)

// Default theme marker size band.
const (
	DefaultMinThemeSize = 8.0
	DefaultMaxThemeSize = 12.0
)

// Set is a set of record ids.
type Set map[string]bool

// NewSet builds a set from ids. Empty ids are ignored.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = true
		}
	}
	return s
}

// Active reports whether the set has any member.
func (s Set) Active() bool { return len(s) > 0 }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Selection is the current cross-filtering state.
type Selection struct {
	Characters    Set
	Conversations Set
	Themes        Set
}

// None reports whether no set is active.
func (s Selection) None() bool {
	return !s.Characters.Active() && !s.Conversations.Active() && !s.Themes.Active()
}

// Annotation is the output of Annotate.
type Annotation struct {
	Nodes      []*show.CharacterNode
	Links      []*show.CharacterLink
	ThemeScale scale.Linear
	ThemeSize  float64 // legend box size, ThemeScale(max count)
}

// Annotate flags nodes, links and theme summaries against the current
// lines and diamonds.
//
// Node and link Selected is true when nothing is selected anywhere or the
// id is in the matching set. Filtered is true when the id belongs to a
// selected Line. Nodes and links no current Line refers to are flagged
// but left out of the returned slices.
//
// Theme summaries get Length (diamond count among diamonds), a size from
// a [min, max] scale over [0, largest count], and one centred legend
// position.
func Annotate(lines []*show.Line, diamonds []*show.Diamond, sel Selection,
	nodes *show.NodeStore, links *show.LinkStore, grouped []*show.GroupedTheme,
	sizeMin, sizeMax float64,
) Annotation {
	none := sel.None()

	available := make(Set)
	conversations := make(Set)
	filteredChars := make(Set)
	filteredConvs := make(Set)
	for _, l := range lines {
		available[l.CharacterID] = true
		if l.Conversing != "" {
			conversations[l.Conversing] = true
		}
		if l.Selected {
			filteredChars[l.CharacterID] = true
			if l.Conversing != "" {
				filteredConvs[l.Conversing] = true
			}
		}
	}

	var out Annotation
	for _, n := range nodes.All() {
		n.Selected = none || sel.Characters[n.ID]
		n.Filtered = filteredChars[n.ID]
		if available[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, l := range links.All() {
		l.Selected = none || sel.Conversations[l.ID]
		l.Filtered = filteredConvs[l.ID]
		if conversations[l.ID] {
			out.Links = append(out.Links, l)
		}
	}

	counts := make(map[string]int)
	maxCount := 0
	for _, d := range diamonds {
		counts[d.ThemeID]++
		maxCount = max(maxCount, counts[d.ThemeID])
	}
	out.ThemeScale = scale.NewLinear(0, float64(maxCount), sizeMin, sizeMax)
	out.ThemeSize = out.ThemeScale.Map(float64(maxCount))

	for _, g := range grouped {
		for _, s := range g.Diamonds {
			s.Selected = none || sel.Themes[s.ID]
			_, s.Filtered = counts[s.ID]
			s.Length = counts[s.ID]
			s.Size = out.ThemeSize
			half := out.ThemeSize / 2
			s.Positions = []show.Position{{X: half, Y: half, Size: out.ThemeScale.Map(float64(s.Length)) / 2}}
		}
	}
	return out
}

// FilterByCharacter keeps the songs that match the character and
// conversation sets and the diamonds anchored in them.
//
// With characters selected, a song survives when the selected characters
// singing in it are exactly the selection; its Lines are Selected when
// their singer is selected. With conversations selected, a song survives
// when one of its Lines belongs to a selected conversation; a Line is
// Selected on a match, or additionally keeps its character flag when
// characters are selected too. With neither, every Line is selected.
//
// A diamond survives when its start or end line survives, and is Selected
// when any Line sharing those line ids is. Lines and diamonds that do not
// survive are unselected.
func FilterByCharacter(sel Selection, lines []*show.Line, diamonds []*show.Diamond) ([]*show.Line, []*show.Diamond) {
	kept := lines

	if sel.Characters.Active() {
		kept = nil
		for _, song := range show.GroupBySong(lines) {
			present := make(Set)
			for _, l := range song {
				l.Selected = sel.Characters[l.CharacterID]
				if l.Selected {
					present[l.CharacterID] = true
				}
			}
			if len(present) == len(sel.Characters) {
				kept = append(kept, song...)
			}
		}
	}

	if sel.Conversations.Active() {
		var next []*show.Line
		for _, song := range show.GroupBySong(kept) {
			matched := false
			for _, l := range song {
				match := sel.Conversations[l.Conversing]
				if sel.Characters.Active() {
					l.Selected = l.Selected || match
				} else {
					l.Selected = match
				}
				matched = matched || match
			}
			if matched {
				next = append(next, song...)
			}
		}
		kept = next
	}

	if !sel.Characters.Active() && !sel.Conversations.Active() {
		for _, l := range kept {
			l.Selected = true
		}
	}

	unselectDropped(lines, kept)

	byLineID := show.IndexByLineID(kept)
	var keptDiamonds []*show.Diamond
	for _, d := range diamonds {
		start, okS := byLineID[d.StartLineID]
		end, okE := byLineID[d.EndLineID]
		d.Selected = anySelected(start) || anySelected(end)
		if okS || okE {
			keptDiamonds = append(keptDiamonds, d)
		}
	}
	return kept, keptDiamonds
}

// FilterByTheme keeps the diamonds of selected themes and the songs that
// still have a selected Line carrying one of them. A Line stays Selected
// only if it was selected and carries a selected theme. Without a theme
// selection the inputs are returned unchanged.
func FilterByTheme(sel Selection, lines []*show.Line, diamonds []*show.Diamond) ([]*show.Line, []*show.Diamond) {
	if !sel.Themes.Active() {
		return lines, diamonds
	}

	var keptDiamonds []*show.Diamond
	for _, d := range diamonds {
		d.Selected = sel.Themes[d.ThemeID]
		if d.Selected {
			keptDiamonds = append(keptDiamonds, d)
		}
	}

	var kept []*show.Line
	for _, song := range show.GroupBySong(lines) {
		matched := false
		for _, l := range song {
			l.Selected = l.Selected && l.HasAnyTheme(sel.Themes)
			matched = matched || l.Selected
		}
		if matched {
			kept = append(kept, song...)
		}
	}
	return kept, keptDiamonds
}

func anySelected(lines []*show.Line) bool {
	for _, l := range lines {
		if l.Selected {
			return true
		}
	}
	return false
}

func unselectDropped(all, kept []*show.Line) {
	if len(all) == len(kept) {
		return
	}
	survived := make(map[*show.Line]bool, len(kept))
	for _, l := range kept {
		survived[l] = true
	}
	for _, l := range all {
		if !survived[l] {
			l.Selected = false
		}
	}
}
