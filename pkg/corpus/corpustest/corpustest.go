// Package corpustest provides small in-memory corpora for tests.
package corpustest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/libretto/pkg/corpus"
)

// Duet returns two characters A and B in one song: "1:0-0" sung by A
// alone, "1:1-1" sung by A and B, and a conversation A-B on "1:1-1".
func Duet() *corpus.Tables {
	return corpus.New().
		AddCharacter("A", corpus.Character{Name: "Alpha", Visible: true, Color: "#1f77b4"}).
		AddCharacter("B", corpus.Character{Name: "Beta", Visible: true, Color: "#ff7f0e"}).
		AddSong("1", "Opening").
		AddLine("1:0-0", "A").
		AddLine("1:1-1", "A", "B").
		AddRelation("A", "1:0-0", "1:1-1").
		AddRelation("B", "1:1-1").
		AddConversing("A-B", "1:1-1")
}

// Show returns a two-song corpus with four characters (H hidden), four
// conversations (A-H dangling) and four themes (t4 hidden).
//
//	1:0-0 A      2:0-0 A
//	1:1-1 A B    2:1-2 B
//	1:2-3 C      2:3-3 A C
//	1:4-4 B C    2:4-4 H
func Show() *corpus.Tables {
	return corpus.New().
		AddCharacter("A", corpus.Character{Name: "Alpha Able", Visible: true, HasImage: true, Color: "#1f77b4"}).
		AddCharacter("B", corpus.Character{Name: "Beta", Visible: true, Color: "#ff7f0e"}).
		AddCharacter("C", corpus.Character{Name: "Gamma Good", Visible: true, Color: "#2ca02c"}).
		AddCharacter("H", corpus.Character{Name: "Hidden", Color: "#7f7f7f"}).
		AddSong("1", "Opening").
		AddSong("2", "Duel").
		AddLine("1:0-0", "A").
		AddLine("1:1-1", "A", "B").
		AddLine("1:2-3", "C").
		AddLine("1:4-4", "B", "C").
		AddLine("2:0-0", "A").
		AddLine("2:1-2", "B").
		AddLine("2:3-3", "A", "C").
		AddLine("2:4-4", "H").
		AddRelation("A", "1:0-0", "1:1-1", "2:0-0", "2:3-3").
		AddRelation("B", "1:1-1", "1:4-4", "2:1-2").
		AddRelation("C", "1:2-3", "1:4-4", "2:3-3").
		AddRelation("H", "2:4-4").
		AddConversing("A-B", "1:1-1").
		AddConversing("B-C", "1:4-4", "2:1-2").
		AddConversing("A-C", "2:3-3").
		AddConversing("A-H", "2:4-4").
		AddTheme("t1", corpus.ThemeMeta{Label: "first motif", Type: "Motif", Visible: true},
			corpus.Occurrence{Keys: []string{"1:0/0-0", "1:1/1-1"}, Lines: 2},
			corpus.Occurrence{Keys: []string{"2:0/0-0"}, Lines: 1}).
		AddTheme("t2", corpus.ThemeMeta{Label: "second motif", Type: "Motif", Visible: true},
			corpus.Occurrence{Keys: []string{"1:2/2-3", "1:3/2-3"}, Lines: 2}).
		AddTheme("t3", corpus.ThemeMeta{Label: "refrain", Type: "Refrain", Visible: true},
			corpus.Occurrence{Keys: []string{"2:3/3-3"}, Lines: 1}).
		AddTheme("t4", corpus.ThemeMeta{Label: "cut", Type: "Motif"},
			corpus.Occurrence{Keys: []string{"1:4/4-4"}, Lines: 1})
}

// WriteDir writes t to dir under the default table file names, so that
// corpus.LoadDir(dir) reads it back.
func WriteDir(dir string, t *corpus.Tables) error {
	f := corpus.DefaultFiles()
	tables := []struct {
		name string
		v    any
	}{
		{f.Characters, t.Characters},
		{f.Songs, t.Songs},
		{f.Lines, t.Lines},
		{f.ThemeMeta, t.ThemeMeta},
		{f.Relations, t.Relations},
		{f.Themes, t.Themes},
	}
	for _, tb := range tables {
		data, err := json.Marshal(tb.v)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, tb.name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
