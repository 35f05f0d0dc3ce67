// Package timeline packs lines into rows, song by song, and places theme
// diamonds above the lines they start and end on.
//
// Lines are laid out left to right from LeftMargin. A new song starts a
// new block SongGap below the previous one; a line that would start past
// width-RightMargin wraps to a new row RowGap lower. Lines sung by several
// characters share one slot: each singer after the first overlaps the
// first at the same x, shifted vertically by singer index.
package timeline

import (
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/show"
)

// Stage names this step in diagnostics.
const Stage = "timeline"

// Config holds the layout constants.
type Config struct {
	LineSize    float64
	PadX        float64
	SongGap     float64
	RowGap      float64
	RightMargin float64
	LeftMargin  float64
	InitialY    float64
}

// DefaultConfig returns the standard constants for a line size of 5.
func DefaultConfig() Config {
	const size = 5.0
	return Config{
		LineSize:    size,
		PadX:        1,
		SongGap:     5 * size,
		RowGap:      4 * size,
		RightMargin: 50,
		LeftMargin:  170,
		InitialY:    6 * size,
	}
}

// DiamondScale is the diamond marker size relative to the line size.
const DiamondScale = 0.8

// Result lists the songs and diamonds that received a position.
type Result struct {
	Songs       []*show.Song
	Diamonds    []*show.Diamond
	Height      float64 // y of the last row
	Diagnostics errors.Diagnostics
}

// Layout positions lines in place, records song origins and computes
// diamond marker positions. lines must be in timeline order. A nil cfg
// uses DefaultConfig.
func Layout(lines []*show.Line, diamonds []*show.Diamond, songs *show.SongStore, width float64, cfg *Config) *Result {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	res := &Result{}
	for _, s := range songs.All() {
		s.Positioned = false
	}

	size := cfg.LineSize
	x, y := cfg.LeftMargin, cfg.InitialY
	song, started := "", false
	lastLineID := ""

	for _, l := range lines {
		l.Positioned = false
		_, start, end, err := show.ParseLineID(l.LineID)
		if err != nil {
			res.Diagnostics.Add(Stage, errors.KindMalformedKey, l.ID, l.LineID, errors.UserMessage(err))
			continue
		}

		if !started || l.SongID != song {
			started = true
			song = l.SongID
			x = cfg.LeftMargin
			y += cfg.SongGap
			if s, ok := songs.Get(song); ok {
				s.X, s.Y, s.Positioned = x, y, true
				res.Songs = append(res.Songs, s)
			} else {
				res.Diagnostics.Add(Stage, errors.KindMissingSong, l.ID, song, "")
			}
		}
		if x > width-cfg.RightMargin && lastLineID != l.LineID {
			x = cfg.LeftMargin
			y += cfg.RowGap
		}

		focusX := x
		length := size * float64(end-start+2)
		if lastLineID != l.LineID {
			x += length + cfg.PadX
		} else {
			focusX -= length + cfg.PadX
		}

		focusY := y
		radius := size
		if l.NumSingers > 1 {
			n := float64(l.NumSingers)
			focusY += size/(n-1)*float64(l.SingerIndex) - size/2
			radius = size/n + .25
		}
		lastLineID = l.LineID

		l.FocusX, l.FocusY = focusX, focusY
		l.TrueY = y
		l.Radius = radius
		l.FullRadius = size
		l.Length = length
		l.StartLine, l.EndLine = start, end
		l.Positioned = true
	}
	res.Height = y

	anchors := make(map[string]*show.Line)
	for _, l := range lines {
		if _, ok := anchors[l.LineID]; !ok && l.Positioned {
			anchors[l.LineID] = l
		}
	}

	for _, d := range diamonds {
		d.Positions = nil
		d.Size = size * DiamondScale
		d.Length = size * float64(d.EndLine-d.StartLine+1)
		start, ok := anchors[d.StartLineID]
		if !ok {
			res.Diagnostics.Add(Stage, errors.KindMissingAnchor, d.ID, d.StartLineID, "start")
			continue
		}
		d.Positions = append(d.Positions, marker(start, d.StartLine, size))

		if d.MultiLine() {
			end, ok := anchors[d.EndLineID]
			if ok {
				d.Positions = append(d.Positions, marker(end, d.EndLine, size))
			} else {
				res.Diagnostics.Add(Stage, errors.KindMissingAnchor, d.ID, d.EndLineID, "end")
			}
		}
		res.Diamonds = append(res.Diamonds, d)
	}
	return res
}

func marker(anchor *show.Line, line int, size float64) show.Position {
	return show.Position{
		X:    anchor.FocusX + float64(line-anchor.StartLine)*size,
		Y:    anchor.TrueY - 2*anchor.FullRadius,
		Size: size * DiamondScale,
	}
}
