// Package lines expands the raw line table into one record per singer.
//
// A lyric line sung by N characters at once becomes N [show.Line] records
// that share a LineID and carry SingerIndex 0..N-1 in the order the
// characters appear in the payload. Every record starts selected, with no
// themes and no conversation.
package lines

import (
	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/errors"
	"github.com/matzehuels/libretto/pkg/show"
)

// Stage names this step in diagnostics.
const Stage = "lines"

// Options configures Expand.
type Options struct {
	// SkipMissing skips lines that reference unknown characters and records
	// a diagnostic for each, instead of failing.
	SkipMissing bool
}

// Result holds the expanded records.
type Result struct {
	Lines       *show.LineStore
	Songs       *show.SongStore
	Diagnostics errors.Diagnostics
}

// Expand builds the line and song arenas from the corpus tables.
//
// Lines follow line table order; songs follow song table order. A singer
// missing from the character table fails with MISSING_REFERENCE unless
// opts.SkipMissing is set. A song id missing from the song table leaves
// SongName empty and records a diagnostic.
func Expand(t *corpus.Tables, opts Options) (*Result, error) {
	res := &Result{
		Lines: show.NewLineStore(),
		Songs: show.NewSongStore(),
	}

	for p := t.Songs.Oldest(); p != nil; p = p.Next() {
		if _, err := res.Songs.Add(show.Song{ID: p.Key, Name: p.Value.Name, Selected: true}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "song %q", p.Key)
		}
	}

	for p := t.Lines.Oldest(); p != nil; p = p.Next() {
		if err := expandLine(t, res, p.Key, p.Value, opts); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func expandLine(t *corpus.Tables, res *Result, lineID string, row corpus.Line, opts Options) error {
	singers := make([]corpus.Character, len(row.Characters))
	seen := make(map[string]bool, len(row.Characters))
	skip := false
	for i, id := range row.Characters {
		if seen[id] {
			if !opts.SkipMissing {
				return errors.New(errors.ErrCodeInvalidInput, "line %s: character %q sings twice", lineID, id)
			}
			res.Diagnostics.Add(Stage, errors.KindDuplicate, lineID, id, "line skipped")
			skip = true
			continue
		}
		seen[id] = true

		c, ok := t.Characters.Get(id)
		if !ok {
			if !opts.SkipMissing {
				return errors.New(errors.ErrCodeMissingReference, "line %s: unknown character %q", lineID, id)
			}
			res.Diagnostics.Add(Stage, errors.KindMissingCharacter, lineID, id, "line skipped")
			skip = true
			continue
		}
		singers[i] = c
	}
	if skip {
		return nil
	}

	songID := show.SongOf(lineID)
	var songName string
	if song, ok := t.Songs.Get(songID); ok {
		songName = song.Name
	} else {
		res.Diagnostics.Add(Stage, errors.KindMissingSong, lineID, songID, "")
	}

	for i, id := range row.Characters {
		_, err := res.Lines.Add(show.Line{
			ID:            id + "/" + lineID,
			LineID:        lineID,
			SongID:        songID,
			CharacterID:   id,
			CharacterName: singers[i].Name,
			SongName:      songName,
			NumSingers:    len(row.Characters),
			SingerIndex:   i,
			Fill:          singers[i].Color,
			Selected:      true,
			Data:          row.Raw,
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "line %s singer %q", lineID, id)
		}
	}
	return nil
}
