package show

import (
	"errors"
)

var (
	// ErrInvalidID is returned by the Add methods when the record ID is empty.
	ErrInvalidID = errors.New("record ID must not be empty")

	// ErrDuplicateID is returned by the Add methods when a record with the
	// same ID is already stored.
	ErrDuplicateID = errors.New("duplicate record ID")
)

// LineStore owns Line records in insertion order.
//
// The zero value is not usable; use NewLineStore.
type LineStore struct {
	lines    []*Line
	byID     map[string]*Line
	byLineID map[string][]*Line
}

// NewLineStore creates an empty line arena.
func NewLineStore() *LineStore {
	return &LineStore{
		byID:     make(map[string]*Line),
		byLineID: make(map[string][]*Line),
	}
}

// Add stores a copy of l and returns the stored record.
func (s *LineStore) Add(l Line) (*Line, error) {
	if l.ID == "" {
		return nil, ErrInvalidID
	}
	if _, exists := s.byID[l.ID]; exists {
		return nil, ErrDuplicateID
	}
	if l.Themes == nil {
		l.Themes = []string{}
	}
	line := &l
	s.lines = append(s.lines, line)
	s.byID[line.ID] = line
	s.byLineID[line.LineID] = append(s.byLineID[line.LineID], line)
	return line, nil
}

// Get returns the line with the given composite ID.
func (s *LineStore) Get(id string) (*Line, bool) {
	l, ok := s.byID[id]
	return l, ok
}

// ByLineID returns every line sharing lineID, in insertion order.
func (s *LineStore) ByLineID(lineID string) []*Line {
	return s.byLineID[lineID]
}

// All returns the stored lines in insertion order.
// The slice is a copy; the records are shared.
func (s *LineStore) All() []*Line {
	out := make([]*Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of stored lines.
func (s *LineStore) Len() int { return len(s.lines) }

// CountByCharacter returns the number of lines per character ID.
func (s *LineStore) CountByCharacter() map[string]int {
	counts := make(map[string]int)
	for _, l := range s.lines {
		counts[l.CharacterID]++
	}
	return counts
}

// SongStore owns Song records in insertion order.
type SongStore struct {
	songs []*Song
	byID  map[string]*Song
}

// NewSongStore creates an empty song arena.
func NewSongStore() *SongStore {
	return &SongStore{byID: make(map[string]*Song)}
}

// Add stores a copy of song and returns the stored record.
func (s *SongStore) Add(song Song) (*Song, error) {
	if song.ID == "" {
		return nil, ErrInvalidID
	}
	if _, exists := s.byID[song.ID]; exists {
		return nil, ErrDuplicateID
	}
	p := &song
	s.songs = append(s.songs, p)
	s.byID[p.ID] = p
	return p, nil
}

// Get returns the song with the given ID.
func (s *SongStore) Get(id string) (*Song, bool) {
	song, ok := s.byID[id]
	return song, ok
}

// All returns the stored songs in insertion order.
func (s *SongStore) All() []*Song {
	out := make([]*Song, len(s.songs))
	copy(out, s.songs)
	return out
}

// Len returns the number of stored songs.
func (s *SongStore) Len() int { return len(s.songs) }

// NodeStore owns CharacterNode records in insertion order.
type NodeStore struct {
	nodes []*CharacterNode
	byID  map[string]*CharacterNode
}

// NewNodeStore creates an empty node arena.
func NewNodeStore() *NodeStore {
	return &NodeStore{byID: make(map[string]*CharacterNode)}
}

// Add stores a copy of n and returns the stored record.
func (s *NodeStore) Add(n CharacterNode) (*CharacterNode, error) {
	if n.ID == "" {
		return nil, ErrInvalidID
	}
	if _, exists := s.byID[n.ID]; exists {
		return nil, ErrDuplicateID
	}
	p := &n
	s.nodes = append(s.nodes, p)
	s.byID[p.ID] = p
	return p, nil
}

// Get returns the node with the given character ID.
func (s *NodeStore) Get(id string) (*CharacterNode, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// All returns the stored nodes in insertion order.
func (s *NodeStore) All() []*CharacterNode {
	out := make([]*CharacterNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Len returns the number of stored nodes.
func (s *NodeStore) Len() int { return len(s.nodes) }

// LinkStore owns CharacterLink records in insertion order.
type LinkStore struct {
	links []*CharacterLink
	byID  map[string]*CharacterLink
}

// NewLinkStore creates an empty link arena.
func NewLinkStore() *LinkStore {
	return &LinkStore{byID: make(map[string]*CharacterLink)}
}

// Add stores a copy of l and returns the stored record.
func (s *LinkStore) Add(l CharacterLink) (*CharacterLink, error) {
	if l.ID == "" {
		return nil, ErrInvalidID
	}
	if _, exists := s.byID[l.ID]; exists {
		return nil, ErrDuplicateID
	}
	p := &l
	s.links = append(s.links, p)
	s.byID[p.ID] = p
	return p, nil
}

// Get returns the link with the given edge ID.
func (s *LinkStore) Get(id string) (*CharacterLink, bool) {
	l, ok := s.byID[id]
	return l, ok
}

// All returns the stored links in insertion order.
func (s *LinkStore) All() []*CharacterLink {
	out := make([]*CharacterLink, len(s.links))
	copy(out, s.links)
	return out
}

// Len returns the number of stored links.
func (s *LinkStore) Len() int { return len(s.links) }

// DiamondStore owns Diamond records in insertion order.
type DiamondStore struct {
	diamonds []*Diamond
	byID     map[string]*Diamond
}

// NewDiamondStore creates an empty diamond arena.
func NewDiamondStore() *DiamondStore {
	return &DiamondStore{byID: make(map[string]*Diamond)}
}

// Add stores a copy of d and returns the stored record.
func (s *DiamondStore) Add(d Diamond) (*Diamond, error) {
	if d.ID == "" {
		return nil, ErrInvalidID
	}
	if _, exists := s.byID[d.ID]; exists {
		return nil, ErrDuplicateID
	}
	p := &d
	s.diamonds = append(s.diamonds, p)
	s.byID[p.ID] = p
	return p, nil
}

// Get returns the diamond with the given ID.
func (s *DiamondStore) Get(id string) (*Diamond, bool) {
	d, ok := s.byID[id]
	return d, ok
}

// All returns the stored diamonds in insertion order.
func (s *DiamondStore) All() []*Diamond {
	out := make([]*Diamond, len(s.diamonds))
	copy(out, s.diamonds)
	return out
}

// Len returns the number of stored diamonds.
func (s *DiamondStore) Len() int { return len(s.diamonds) }
