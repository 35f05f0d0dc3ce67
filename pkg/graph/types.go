package graph

import (
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/show"
)

// =============================================================================
// Constants
// =============================================================================

// FormatVersion is the current Layout document version.
const FormatVersion = 1

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Layout - Rendering Document
// =============================================================================

// Layout is the serialization format for a computed libretto view.
type Layout struct {
	Version int    `json:"version" yaml:"version" jsonschema:"required"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	RunID   string `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	// Canvas
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`
	Radius    float64 `json:"radius" yaml:"radius"`
	ThemeSize float64 `json:"theme_size" yaml:"theme_size"`

	// TimelineHeight is the y of the last timeline row.
	TimelineHeight float64 `json:"timeline_height" yaml:"timeline_height"`

	Selection Selection `json:"selection" yaml:"selection"`

	Nodes    []Node         `json:"nodes" yaml:"nodes"`
	Links    []Link         `json:"links" yaml:"links"`
	Lines    []Line         `json:"lines" yaml:"lines"`
	Songs    []Song         `json:"songs" yaml:"songs"`
	Diamonds []Diamond      `json:"diamonds" yaml:"diamonds"`
	Themes   []GroupedTheme `json:"themes" yaml:"themes"`

	Diagnostics []errors.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Selection lists the ids that were selected when the layout was computed.
type Selection struct {
	Characters    []string `json:"characters,omitempty" yaml:"characters,omitempty"`
	Conversations []string `json:"conversations,omitempty" yaml:"conversations,omitempty"`
	Themes        []string `json:"themes,omitempty" yaml:"themes,omitempty"`
}

// =============================================================================
// Network
// =============================================================================

// Node is a positioned character. Hidden marks a node outside the current
// view that is kept because a visible link ends on it.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Initials string   `json:"initials" yaml:"initials"`
	Color    string   `json:"color" yaml:"color"`
	Image    string   `json:"image,omitempty" yaml:"image,omitempty"`
	Selected bool     `json:"selected" yaml:"selected"`
	Filtered bool     `json:"filtered" yaml:"filtered"`
	NumLines int      `json:"num_lines" yaml:"num_lines"`
	X        float64  `json:"x" yaml:"x"`
	Y        float64  `json:"y" yaml:"y"`
	FY       *float64 `json:"fy,omitempty" yaml:"fy,omitempty"`
	Radius   float64  `json:"radius" yaml:"radius"`
	Hidden   bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Link is a conversation edge between two nodes.
type Link struct {
	ID       string  `json:"id" yaml:"id"`
	Source   string  `json:"source" yaml:"source"`
	Target   string  `json:"target" yaml:"target"`
	Color    string  `json:"color" yaml:"color"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Count    int     `json:"count" yaml:"count"`
	Selected bool    `json:"selected" yaml:"selected"`
	Filtered bool    `json:"filtered" yaml:"filtered"`
}

// =============================================================================
// Timeline
// =============================================================================

// Line is a positioned singer line.
type Line struct {
	ID            string   `json:"id" yaml:"id"`
	LineID        string   `json:"line_id" yaml:"line_id"`
	SongID        string   `json:"song_id" yaml:"song_id"`
	CharacterID   string   `json:"character_id" yaml:"character_id"`
	CharacterName string   `json:"character_name" yaml:"character_name"`
	SongName      string   `json:"song_name,omitempty" yaml:"song_name,omitempty"`
	NumSingers    int      `json:"num_singers" yaml:"num_singers"`
	SingerIndex   int      `json:"singer_index" yaml:"singer_index"`
	Conversing    string   `json:"conversing,omitempty" yaml:"conversing,omitempty"`
	Themes        []string `json:"themes" yaml:"themes"`
	Fill          string   `json:"fill" yaml:"fill"`
	Selected      bool     `json:"selected" yaml:"selected"`
	FocusX        float64  `json:"focus_x" yaml:"focus_x"`
	FocusY        float64  `json:"focus_y" yaml:"focus_y"`
	TrueY         float64  `json:"true_y" yaml:"true_y"`
	Radius        float64  `json:"radius" yaml:"radius"`
	FullRadius    float64  `json:"full_radius" yaml:"full_radius"`
	Length        float64  `json:"length" yaml:"length"`
	StartLine     int      `json:"start_line" yaml:"start_line"`
	EndLine       int      `json:"end_line" yaml:"end_line"`
}

// Song is a song block origin.
type Song struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Selected bool    `json:"selected" yaml:"selected"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
}

// Position is one marker location.
type Position struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Size float64 `json:"size" yaml:"size"`
}

// Diamond is a positioned theme occurrence.
type Diamond struct {
	ID          string     `json:"id" yaml:"id"`
	ThemeID     string     `json:"theme_id" yaml:"theme_id"`
	ThemeType   string     `json:"theme_type" yaml:"theme_type"`
	ThemeLines  string     `json:"theme_lines" yaml:"theme_lines"`
	LineID      string     `json:"line_id" yaml:"line_id"`
	SongID      string     `json:"song_id" yaml:"song_id"`
	StartLine   int        `json:"start_line" yaml:"start_line"`
	EndLine     int        `json:"end_line" yaml:"end_line"`
	StartLineID string     `json:"start_line_id" yaml:"start_line_id"`
	EndLineID   string     `json:"end_line_id" yaml:"end_line_id"`
	Fill        string     `json:"fill" yaml:"fill"`
	Lines       int        `json:"lines" yaml:"lines"`
	Selected    bool       `json:"selected" yaml:"selected"`
	Size        float64    `json:"size" yaml:"size"`
	Length      float64    `json:"length" yaml:"length"`
	Positions   []Position `json:"positions" yaml:"positions"`
}

// =============================================================================
// Legend
// =============================================================================

// ThemeSummary is one legend entry.
type ThemeSummary struct {
	ID        string     `json:"id" yaml:"id"`
	Lines     string     `json:"lines" yaml:"lines"`
	Length    int        `json:"length" yaml:"length"`
	Fill      string     `json:"fill" yaml:"fill"`
	Selected  bool       `json:"selected" yaml:"selected"`
	Filtered  bool       `json:"filtered" yaml:"filtered"`
	Size      float64    `json:"size" yaml:"size"`
	Positions []Position `json:"positions" yaml:"positions"`
}

// GroupedTheme is a legend section for one theme type.
type GroupedTheme struct {
	Name     string         `json:"name" yaml:"name"`
	Diamonds []ThemeSummary `json:"diamonds" yaml:"diamonds"`
}

// =============================================================================
// Records → Layout Conversion
// =============================================================================

// Records bundles everything FromRecords serializes.
type Records struct {
	Title       string
	Width       float64
	Height      float64
	Radius      float64
	ThemeSize   float64
	Timeline    float64
	Selection   Selection
	Nodes       []*show.CharacterNode
	Links       []*show.CharacterLink
	// Endpoints resolves link ends missing from Nodes. Those are emitted
	// with Hidden set.
	Endpoints   []*show.CharacterNode
	Lines       []*show.Line
	Songs       []*show.Song
	Diamonds    []*show.Diamond
	Themes      []*show.GroupedTheme
	Diagnostics errors.Diagnostics
}

// FromRecords converts in-memory records into a Layout. Slices are never
// nil in the result so empty sets serialize as [].
func FromRecords(r Records) Layout {
	l := Layout{
		Version:     FormatVersion,
		Title:       r.Title,
		Width:       r.Width,
		Height:      r.Height,
		Radius:      r.Radius,
		ThemeSize:   r.ThemeSize,
		Selection:   r.Selection,

		Nodes:       make([]Node, 0, len(r.Nodes)),
		Links:       make([]Link, 0, len(r.Links)),
		Lines:       make([]Line, 0, len(r.Lines)),
		Songs:       make([]Song, 0, len(r.Songs)),
		Diamonds:    make([]Diamond, 0, len(r.Diamonds)),
		Themes:      make([]GroupedTheme, 0, len(r.Themes)),
		Diagnostics: r.Diagnostics,

		TimelineHeight: r.Timeline,
	}

	present := make(map[string]bool, len(r.Nodes))
	for _, n := range r.Nodes {
		present[n.ID] = true
		l.Nodes = append(l.Nodes, node(n, false))
	}
	missing := make(map[string]bool)
	for _, k := range r.Links {
		for _, id := range []string{k.Source, k.Target} {
			if !present[id] {
				missing[id] = true
			}
		}
	}
	for _, n := range r.Endpoints {
		if missing[n.ID] {
			delete(missing, n.ID)
			l.Nodes = append(l.Nodes, node(n, true))
		}
	}
	for _, k := range r.Links {
		l.Links = append(l.Links, Link{
			ID: k.ID, Source: k.Source, Target: k.Target, Color: k.Color,
			Weight: k.Weight, Count: k.Count, Selected: k.Selected, Filtered: k.Filtered,
		})
	}
	for _, x := range r.Lines {
		l.Lines = append(l.Lines, Line{
			ID: x.ID, LineID: x.LineID, SongID: x.SongID,
			CharacterID: x.CharacterID, CharacterName: x.CharacterName, SongName: x.SongName,
			NumSingers: x.NumSingers, SingerIndex: x.SingerIndex,
			Conversing: x.Conversing, Themes: append([]string{}, x.Themes...),
			Fill: x.Fill, Selected: x.Selected,
			FocusX: x.FocusX, FocusY: x.FocusY, TrueY: x.TrueY,
			Radius: x.Radius, FullRadius: x.FullRadius, Length: x.Length,
			StartLine: x.StartLine, EndLine: x.EndLine,
		})
	}
	for _, s := range r.Songs {
		l.Songs = append(l.Songs, Song{ID: s.ID, Name: s.Name, Selected: s.Selected, X: s.X, Y: s.Y})
	}
	for _, d := range r.Diamonds {
		l.Diamonds = append(l.Diamonds, Diamond{
			ID: d.ID, ThemeID: d.ThemeID, ThemeType: d.ThemeType, ThemeLines: d.ThemeLines,
			LineID: d.LineID, SongID: d.SongID, StartLine: d.StartLine, EndLine: d.EndLine,
			StartLineID: d.StartLineID, EndLineID: d.EndLineID, Fill: d.Fill, Lines: d.Lines,
			Selected: d.Selected, Size: d.Size, Length: d.Length, Positions: positions(d.Positions),
		})
	}
	for _, g := range r.Themes {
		gt := GroupedTheme{Name: g.Name, Diamonds: make([]ThemeSummary, 0, len(g.Diamonds))}
		for _, s := range g.Diamonds {
			gt.Diamonds = append(gt.Diamonds, ThemeSummary{
				ID: s.ID, Lines: s.Lines, Length: s.Length, Fill: s.Fill,
				Selected: s.Selected, Filtered: s.Filtered, Size: s.Size,
				Positions: positions(s.Positions),
			})
		}
		l.Themes = append(l.Themes, gt)
	}
	return l
}

func node(n *show.CharacterNode, hidden bool) Node {
	return Node{
		ID: n.ID, Name: n.Name, Initials: n.Initials, Color: n.Color, Image: n.Image,
		Selected: n.Selected, Filtered: n.Filtered, NumLines: n.NumLines,
		X: n.X, Y: n.Y, FY: n.FY, Radius: n.Radius, Hidden: hidden,
	}
}

func positions(ps []show.Position) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = Position{X: p.X, Y: p.Y, Size: p.Size}
	}
	return out
}
