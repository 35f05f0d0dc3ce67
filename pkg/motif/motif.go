// Package motif turns theme occurrence runs into diamond markers.
//
// Each occurrence of a visible theme is a run of line keys
// ("song:line/start-end") inside one song. The first key anchors the
// diamond's start, the last key its end. Every Line held by a key in the
// run is tagged with the theme, once.
package motif

import (
	"sort"
	"strconv"

	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/scale"
	"github.com/matzehuels/libretto/pkg/show"
)

// Stage names this step in diagnostics.
const Stage = "motif"

// Result holds the extracted diamonds and their grouping.
type Result struct {
	Diamonds    *show.DiamondStore
	Grouped     []*show.GroupedTheme
	Diagnostics errors.Diagnostics
}

// Extract builds one Diamond per occurrence of every visible theme, in
// occurrence table order, and tags Lines with the themes that touch them.
// Fill colours come from palette keyed by theme id; a nil palette uses a
// fresh Category20 scale.
func Extract(lines *show.LineStore, t *corpus.Tables, palette *scale.Ordinal) (*Result, error) {
	if palette == nil {
		palette = scale.NewOrdinal(nil)
	}
	res := &Result{Diamonds: show.NewDiamondStore()}

	for p := t.Themes.Oldest(); p != nil; p = p.Next() {
		themeID := p.Key
		meta, ok := t.ThemeMeta.Get(themeID)
		if !ok {
			res.Diagnostics.Add(Stage, errors.KindMissingTheme, themeID, themeID, "no metadata")
			continue
		}
		if !meta.Visible {
			continue
		}
		for i, occ := range p.Value {
			d, ok := res.occurrence(lines, themeID, i, meta, occ)
			if !ok {
				continue
			}
			d.Fill = palette.Color(themeID)
			if _, err := res.Diamonds.Add(d); err != nil {
				res.Diagnostics.Add(Stage, errors.KindDuplicate, themeID, d.ID, err.Error())
			}
		}
	}

	res.Grouped = Group(res.Diamonds.All())
	return res, nil
}

func (res *Result) occurrence(lines *show.LineStore, themeID string, i int, meta corpus.ThemeMeta, occ corpus.Occurrence) (show.Diamond, bool) {
	where := themeID + "#" + strconv.Itoa(i)
	if len(occ.Keys) == 0 {
		res.Diagnostics.Add(Stage, errors.KindMalformedKey, where, "", "empty run")
		return show.Diamond{}, false
	}

	keys := make([]show.LineKey, len(occ.Keys))
	for j, raw := range occ.Keys {
		k, err := show.ParseLineKey(raw)
		if err != nil {
			res.Diagnostics.Add(Stage, errors.KindMalformedKey, where, raw, errors.UserMessage(err))
			return show.Diamond{}, false
		}
		keys[j] = k
	}
	first, last := keys[0], keys[len(keys)-1]

	seen := make(map[string]bool)
	for _, k := range keys {
		lineID := k.LineID()
		if seen[lineID] {
			continue
		}
		seen[lineID] = true
		held := lines.ByLineID(lineID)
		if len(held) == 0 {
			res.Diagnostics.Add(Stage, errors.KindMissingLine, where, lineID, "")
			continue
		}
		for _, l := range held {
			l.AddTheme(themeID)
		}
	}

	return show.Diamond{
		ID:          themeID + "/" + first.SongID + ":" + strconv.Itoa(first.Line),
		ThemeID:     themeID,
		ThemeType:   meta.Type,
		ThemeLines:  meta.Label,
		LineID:      show.KeyPrefix(occ.Keys[0]),
		SongID:      first.SongID,
		StartLine:   first.Line,
		EndLine:     last.Line,
		StartLineID: first.SongID + ":" + first.Range,
		EndLineID:   first.SongID + ":" + last.Range,
		Keys:        append([]string(nil), occ.Keys...),
		Lines:       occ.Lines,
		Selected:    true,
	}, true
}

// Group summarizes diamonds by theme type (first appearance order), then
// by theme id. Each summary takes its label and fill from the first
// diamond of the theme; summaries are sorted by descending count with
// ties kept in appearance order.
func Group(diamonds []*show.Diamond) []*show.GroupedTheme {
	var groups []*show.GroupedTheme
	byType := make(map[string]*show.GroupedTheme)
	byTheme := make(map[string]*show.ThemeSummary)

	for _, d := range diamonds {
		g, ok := byType[d.ThemeType]
		if !ok {
			g = &show.GroupedTheme{Name: d.ThemeType}
			byType[d.ThemeType] = g
			groups = append(groups, g)
		}
		s, ok := byTheme[d.ThemeID]
		if !ok {
			s = &show.ThemeSummary{ID: d.ThemeID, Lines: d.ThemeLines, Fill: d.Fill}
			byTheme[d.ThemeID] = s
			g.Diamonds = append(g.Diamonds, s)
		}
		s.Length++
	}

	for _, g := range groups {
		sort.SliceStable(g.Diamonds, func(i, j int) bool {
			return g.Diamonds[i].Length > g.Diamonds[j].Length
		})
	}
	return groups
}
