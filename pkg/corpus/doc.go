// Package corpus decodes the lyric, character and theme tables that feed
// the libretto pipeline.
//
// # Tables
//
// The source data is a set of JSON objects whose values are positional
// tuples rather than named fields:
//
//	char_list.json   id      -> [name, _, visible, hasImage, color]
//	song_list.json   id      -> [name]
//	lines.json       lineId  -> [_, [[characterIds...], ...], ...]
//	theme_list.json  themeId -> [lineLabel, themeType, visible]
//	themes.json      themeId -> [[[keys...], lineCount], ...]
//	characters.json  {"characters": id -> [lineIds], "conversing": "a-b" -> [lineIds]}
//
// Every stage iterates tables in file order, so each table is decoded into
// an ordered map. Flags accept JSON booleans, numbers and strings with the
// usual truthiness rules.
//
// # Loading
//
// [LoadDir] reads all six files from a directory. An optional libretto.toml
// manifest in the same directory names the corpus and can override file
// names:
//
//	title = "Hamilton"
//
//	[files]
//	lines = "lyrics.json"
//
// [Tables.Digest] is a content hash of the files read, used as the cache
// key for computed layouts.
package corpus
