package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Character is one row of the character table.
type Character struct {
	Name     string
	Visible  bool
	HasImage bool
	Color    string
}

// UnmarshalJSON decodes [name, _, visible, hasImage, color].
func (c *Character) UnmarshalJSON(data []byte) error {
	tuple, err := decodeTuple(data, 5)
	if err != nil {
		return fmt.Errorf("character: %w", err)
	}
	if c.Name, err = decodeString(tuple[0]); err != nil {
		return fmt.Errorf("character name: %w", err)
	}
	c.Visible = truthy(tuple[2])
	c.HasImage = truthy(tuple[3])
	if c.Color, err = decodeString(tuple[4]); err != nil {
		return fmt.Errorf("character color: %w", err)
	}
	return nil
}

// MarshalJSON encodes the row back into its tuple form.
func (c Character) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Name, nil, c.Visible, c.HasImage, c.Color})
}

// Song is one row of the song table.
type Song struct {
	Name string
}

// UnmarshalJSON decodes [name]. A bare string is accepted as well.
func (s *Song) UnmarshalJSON(data []byte) error {
	if len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	tuple, err := decodeTuple(data, 1)
	if err != nil {
		return fmt.Errorf("song: %w", err)
	}
	s.Name, err = decodeString(tuple[0])
	return err
}

// MarshalJSON encodes the row back into its tuple form.
func (s Song) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{s.Name})
}

// Line is one row of the line table. Raw keeps the whole tuple as the
// line's payload; Characters lists the singers in payload order.
type Line struct {
	Characters []string
	Raw        json.RawMessage
}

// UnmarshalJSON pulls the singers out of tuple[1][0].
func (l *Line) UnmarshalJSON(data []byte) error {
	tuple, err := decodeTuple(data, 2)
	if err != nil {
		return fmt.Errorf("line: %w", err)
	}
	var inner []json.RawMessage
	if err := json.Unmarshal(tuple[1], &inner); err != nil {
		return fmt.Errorf("line singers: %w", err)
	}
	if len(inner) == 0 {
		return fmt.Errorf("line singers: empty tuple")
	}
	var ids []json.RawMessage
	if err := json.Unmarshal(inner[0], &ids); err != nil {
		return fmt.Errorf("line singers: %w", err)
	}
	l.Characters = make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := decodeString(raw)
		if err != nil {
			return fmt.Errorf("line singer: %w", err)
		}
		l.Characters = append(l.Characters, id)
	}
	l.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the original payload, or a minimal tuple for rows
// built in code.
func (l Line) MarshalJSON() ([]byte, error) {
	if len(l.Raw) > 0 {
		return l.Raw, nil
	}
	return json.Marshal([]any{nil, []any{l.Characters}})
}

// ThemeMeta is one row of the theme metadata table.
type ThemeMeta struct {
	Label   string // line-range label shown in legends
	Type    string
	Visible bool
}

// UnmarshalJSON decodes [label, type, visible].
func (m *ThemeMeta) UnmarshalJSON(data []byte) error {
	tuple, err := decodeTuple(data, 3)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if m.Label, err = decodeString(tuple[0]); err != nil {
		return fmt.Errorf("theme label: %w", err)
	}
	if m.Type, err = decodeString(tuple[1]); err != nil {
		return fmt.Errorf("theme type: %w", err)
	}
	m.Visible = truthy(tuple[2])
	return nil
}

// MarshalJSON encodes the row back into its tuple form.
func (m ThemeMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{m.Label, m.Type, m.Visible})
}

// Occurrence is one run of a theme: the ordered line keys it touches and
// the number of lines it spans.
type Occurrence struct {
	Keys  []string
	Lines int
}

// UnmarshalJSON decodes [[keys...], lineCount].
func (o *Occurrence) UnmarshalJSON(data []byte) error {
	tuple, err := decodeTuple(data, 2)
	if err != nil {
		return fmt.Errorf("occurrence: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &o.Keys); err != nil {
		return fmt.Errorf("occurrence keys: %w", err)
	}
	var n json.Number
	if err := json.Unmarshal(tuple[1], &n); err != nil {
		return fmt.Errorf("occurrence count: %w", err)
	}
	count, err := n.Float64()
	if err != nil {
		return fmt.Errorf("occurrence count: %w", err)
	}
	o.Lines = int(count)
	return nil
}

// MarshalJSON encodes the occurrence back into its tuple form.
func (o Occurrence) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Keys, o.Lines})
}

// Relations is the character relation table.
type Relations struct {
	Characters *orderedmap.OrderedMap[string, []string] `json:"characters"`
	Conversing *orderedmap.OrderedMap[string, []string] `json:"conversing"`
}

// Tables bundles every input table of one corpus.
type Tables struct {
	Title      string
	Characters *orderedmap.OrderedMap[string, Character]
	Songs      *orderedmap.OrderedMap[string, Song]
	Lines      *orderedmap.OrderedMap[string, Line]
	ThemeMeta  *orderedmap.OrderedMap[string, ThemeMeta]
	Themes     *orderedmap.OrderedMap[string, []Occurrence]
	Relations  Relations

	// Digest is a hex content hash of the decoded files. Empty for tables
	// built in code.
	Digest string
}

// New returns empty tables ready to be filled in code.
func New() *Tables {
	t := &Tables{}
	t.init()
	return t
}

func (t *Tables) init() {
	if t.Characters == nil {
		t.Characters = orderedmap.New[string, Character]()
	}
	if t.Songs == nil {
		t.Songs = orderedmap.New[string, Song]()
	}
	if t.Lines == nil {
		t.Lines = orderedmap.New[string, Line]()
	}
	if t.ThemeMeta == nil {
		t.ThemeMeta = orderedmap.New[string, ThemeMeta]()
	}
	if t.Themes == nil {
		t.Themes = orderedmap.New[string, []Occurrence]()
	}
	if t.Relations.Characters == nil {
		t.Relations.Characters = orderedmap.New[string, []string]()
	}
	if t.Relations.Conversing == nil {
		t.Relations.Conversing = orderedmap.New[string, []string]()
	}
}

// AddCharacter sets a character row.
func (t *Tables) AddCharacter(id string, c Character) *Tables {
	t.Characters.Set(id, c)
	return t
}

// AddSong sets a song row.
func (t *Tables) AddSong(id, name string) *Tables {
	t.Songs.Set(id, Song{Name: name})
	return t
}

// AddLine sets a line row sung by characters, in order.
func (t *Tables) AddLine(lineID string, characters ...string) *Tables {
	t.Lines.Set(lineID, Line{Characters: characters})
	return t
}

// AddTheme sets theme metadata and its occurrences.
func (t *Tables) AddTheme(id string, meta ThemeMeta, occurrences ...Occurrence) *Tables {
	t.ThemeMeta.Set(id, meta)
	t.Themes.Set(id, occurrences)
	return t
}

// AddRelation records the lines a character appears in.
func (t *Tables) AddRelation(characterID string, lineIDs ...string) *Tables {
	t.Relations.Characters.Set(characterID, lineIDs)
	return t
}

// AddConversing records the lines of a conversation edge "a-b".
func (t *Tables) AddConversing(key string, lineIDs ...string) *Tables {
	t.Relations.Conversing.Set(key, lineIDs)
	return t
}

func decodeTuple(data []byte, minLen int) ([]json.RawMessage, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, err
	}
	if len(tuple) < minLen {
		return nil, fmt.Errorf("tuple has %d elements, want at least %d", len(tuple), minLen)
	}
	return tuple, nil
}

// decodeString accepts a JSON string, number or null.
func decodeString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// truthy applies loose truthiness: false, 0, "", null and missing are false.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return true
	case 'f', 'n':
		return false
	case '"':
		var s string
		_ = json.Unmarshal(raw, &s)
		return s != ""
	case '[', '{':
		return true
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	return err == nil && f != 0
}
