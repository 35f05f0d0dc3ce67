package show

import (
	"encoding/json"
	"slices"
)

// Line is one singer's participation in one lyric line.
type Line struct {
	ID            string // CharacterID + "/" + LineID
	LineID        string // "song:start-end"
	SongID        string
	CharacterID   string
	CharacterName string
	SongName      string
	NumSingers    int
	SingerIndex   int // 0-based among simultaneous singers
	Conversing    string
	Themes        []string
	Fill          string
	Selected      bool
	Filtered      bool
	Data          json.RawMessage

	// Timeline geometry, valid once Positioned is set.
	FocusX     float64
	FocusY     float64
	TrueY      float64
	Radius     float64
	FullRadius float64
	Length     float64
	StartLine  int
	EndLine    int
	Positioned bool
}

// AddTheme appends themeID unless the line already carries it.
// It reports whether the theme was added.
func (l *Line) AddTheme(themeID string) bool {
	if l.HasTheme(themeID) {
		return false
	}
	l.Themes = append(l.Themes, themeID)
	return true
}

// HasTheme reports whether the line carries themeID.
func (l *Line) HasTheme(themeID string) bool {
	return slices.Contains(l.Themes, themeID)
}

// HasAnyTheme reports whether the line carries at least one theme in set.
func (l *Line) HasAnyTheme(set map[string]bool) bool {
	for _, t := range l.Themes {
		if set[t] {
			return true
		}
	}
	return false
}

// Song is a named group of lines.
type Song struct {
	ID       string
	Name     string
	Selected bool

	// Layout origin, valid once Positioned is set.
	X, Y       float64
	Positioned bool
}

// CharacterNode is a vertex of the character network.
type CharacterNode struct {
	ID       string
	Name     string
	Initials string
	Color    string
	Image    string // empty when the character has no portrait
	Selected bool
	Filtered bool
	NumLines int

	X, Y   float64
	VX, VY float64
	FY     *float64 // pinned y, nil when free
	Radius float64
}

// CharacterLink is a weighted conversation edge between two characters.
type CharacterLink struct {
	ID       string // "source-target"
	Color    string
	Weight   float64
	Count    int // number of co-occurring lines
	Selected bool
	Filtered bool
	Source   string
	Target   string
}

// Position is one rendered marker location.
type Position struct {
	X    float64
	Y    float64
	Size float64
}

// Diamond is one occurrence of a theme spanning one or more lines.
type Diamond struct {
	ID          string // ThemeID + "/" + SongID + ":" + StartLine
	ThemeID     string
	ThemeType   string
	ThemeLines  string
	LineID      string
	SongID      string
	StartLine   int
	EndLine     int
	StartLineID string
	EndLineID   string
	Fill        string
	Keys        []string
	Lines       int
	Selected    bool
	Filtered    bool
	Size        float64 // marker size
	Length      float64 // horizontal span of the covered lines
	Positions   []Position
}

// MultiLine reports whether the occurrence spans more than one line.
func (d *Diamond) MultiLine() bool { return d.StartLine != d.EndLine }

// ThemeSummary aggregates the diamonds of one theme for legends.
type ThemeSummary struct {
	ID        string
	Lines     string
	Length    int
	Fill      string
	Selected  bool
	Filtered  bool
	Size      float64
	Positions []Position
}

// GroupedTheme lists theme summaries of one theme type, most frequent first.
type GroupedTheme struct {
	Name     string
	Diamonds []*ThemeSummary
}

// GroupBySong splits lines into per-song groups in first-appearance order.
// Line order inside each group is preserved.
func GroupBySong(lines []*Line) [][]*Line {
	var groups [][]*Line
	index := make(map[string]int)
	for _, l := range lines {
		i, ok := index[l.SongID]
		if !ok {
			i = len(groups)
			index[l.SongID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], l)
	}
	return groups
}

// IndexByLineID maps each lineId to the lines in the slice that share it.
func IndexByLineID(lines []*Line) map[string][]*Line {
	idx := make(map[string][]*Line, len(lines))
	for _, l := range lines {
		idx[l.LineID] = append(idx[l.LineID], l)
	}
	return idx
}
