package show

import (
	"strconv"
	"strings"

	"github.com/matzehuels/libretto/pkg/errors"
)

// SongOf returns the song prefix of a line ID (everything before the first ':').
func SongOf(lineID string) string {
	song, _, _ := strings.Cut(lineID, ":")
	return song
}

// ParseLineID splits "song:start-end" into its parts. A missing or zero end
// collapses to start, so single-line ids report start == end.
func ParseLineID(lineID string) (song string, start, end int, err error) {
	song, rng, ok := strings.Cut(lineID, ":")
	if !ok || song == "" {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidLineKey, "line id %q: missing song prefix", lineID)
	}
	first, last, _ := strings.Cut(rng, "-")
	start, err = strconv.Atoi(first)
	if err != nil {
		return "", 0, 0, errors.Wrap(errors.ErrCodeInvalidLineKey, err, "line id %q: start", lineID)
	}
	end, _ = strconv.Atoi(last)
	if end == 0 {
		end = start
	}
	return song, start, end, nil
}

// LineKey is one parsed entry of a theme run, "song:line/start-end".
type LineKey struct {
	SongID string
	Line   int    // line number the occurrence touches
	Range  string // range of the holding line, "start-end"
}

// LineID returns the id of the line holding the key, "song:start-end".
func (k LineKey) LineID() string { return k.SongID + ":" + k.Range }

// ParseLineKey parses a theme run key.
func ParseLineKey(key string) (LineKey, error) {
	if err := errors.ValidateLineKey(key); err != nil {
		return LineKey{}, err
	}
	song, rest, _ := strings.Cut(key, ":")
	num, rng, _ := strings.Cut(rest, "/")
	n, err := strconv.Atoi(num)
	if err != nil {
		return LineKey{}, errors.Wrap(errors.ErrCodeInvalidLineKey, err, "line key %q", key)
	}
	return LineKey{SongID: song, Line: n, Range: rng}, nil
}

// KeyPrefix returns the part of a theme run key before the slash.
func KeyPrefix(key string) string {
	prefix, _, _ := strings.Cut(key, "/")
	return prefix
}
