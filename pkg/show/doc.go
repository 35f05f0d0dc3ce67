// Package show holds the record model shared by every libretto stage.
//
// # Records
//
// A [Line] is one character's part in one lyric line. Lines sung by several
// characters at once share a LineID and differ by CharacterID and
// SingerIndex. A [Song] groups lines by the song prefix of their LineID.
//
// [CharacterNode] and [CharacterLink] form the character network. A link
// refers to its endpoints by node ID; it never owns them.
//
// A [Diamond] is one occurrence of a recurring theme, anchored to the lines
// where the occurrence starts and ends. [GroupedTheme] summarizes diamonds
// per theme type for legends.
//
// # Arenas
//
// Each record kind lives in exactly one store ([LineStore], [SongStore],
// [NodeStore], [LinkStore], [DiamondStore]). Stores keep records in
// insertion order and hand out pointers, so later stages patch flags and
// positions in place through key lookups:
//
//	lines := show.NewLineStore()
//	_ = lines.Add(show.Line{ID: "A/1:0-0", LineID: "1:0-0", CharacterID: "A"})
//	for _, l := range lines.ByLineID("1:0-0") {
//	    l.Conversing = "A-B"
//	}
//
// Stores are not safe for concurrent use.
//
// # Keys
//
// Line ids look like "song:start-end". Theme run keys look like
// "song:line/start-end", where the part after the slash is the range of the
// line that holds the occurrence. [ParseLineID] and [ParseLineKey] split
// both forms.
package show
