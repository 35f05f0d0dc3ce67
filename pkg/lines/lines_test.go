package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/corpus/corpustest"
	"github.com/matzehuels/libretto/pkg/errors"
)

func TestExpandDuet(t *testing.T) {
	res, err := Expand(corpustest.Duet(), Options{})
	require.NoError(t, err)

	all := res.Lines.All()
	require.Len(t, all, 3)

	assert.Equal(t, "A/1:0-0", all[0].ID)
	assert.Equal(t, "A/1:1-1", all[1].ID)
	assert.Equal(t, "B/1:1-1", all[2].ID)

	for _, l := range all {
		assert.Equal(t, "1", l.SongID)
		assert.Equal(t, "Opening", l.SongName)
		assert.True(t, l.Selected)
		assert.Empty(t, l.Themes)
		assert.NotNil(t, l.Themes)
		assert.Empty(t, l.Conversing)
	}
	assert.Equal(t, "Beta", all[2].CharacterName)
	assert.Equal(t, "#ff7f0e", all[2].Fill)
	assert.Empty(t, res.Diagnostics)

	songs := res.Songs.All()
	require.Len(t, songs, 1)
	assert.True(t, songs[0].Selected)
}

func TestExpandSingerIndices(t *testing.T) {
	tests := []struct {
		name    string
		singers []string
	}{
		{"solo", []string{"A"}},
		{"duet", []string{"B", "A"}},
		{"trio", []string{"C", "A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := corpustest.Show()
			tb.Lines.Set("3:0-0", corpus.Line{Characters: tt.singers})

			res, err := Expand(tb, Options{})
			require.NoError(t, err)

			got := res.Lines.ByLineID("3:0-0")
			require.Len(t, got, len(tt.singers))

			seen := make(map[int]bool)
			for i, l := range got {
				assert.Equal(t, len(tt.singers), l.NumSingers)
				assert.Equal(t, tt.singers[i], l.CharacterID, "payload order")
				seen[l.SingerIndex] = true
			}
			for i := range tt.singers {
				assert.True(t, seen[i], "singer index %d", i)
			}
		})
	}
}

func TestExpandMissingCharacter(t *testing.T) {
	tb := corpustest.Duet().AddLine("1:2-2", "A", "Z")

	_, err := Expand(tb, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingReference))

	res, err := Expand(tb, Options{SkipMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Lines.Len(), "whole line skipped")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, errors.KindMissingCharacter, res.Diagnostics[0].Kind)
	assert.Equal(t, "Z", res.Diagnostics[0].Ref)
}

func TestExpandMissingSong(t *testing.T) {
	tb := corpustest.Duet().AddLine("9:0-0", "B")

	res, err := Expand(tb, Options{})
	require.NoError(t, err)

	got := res.Lines.ByLineID("9:0-0")
	require.Len(t, got, 1)
	assert.Equal(t, "9", got[0].SongID)
	assert.Empty(t, got[0].SongName)
	assert.Equal(t, 1, res.Diagnostics.Count(errors.KindMissingSong))
}

func TestExpandDuplicateSinger(t *testing.T) {
	tb := corpustest.Duet().AddLine("1:2-2", "A", "A")

	_, err := Expand(tb, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	res, err := Expand(tb, Options{SkipMissing: true})
	require.NoError(t, err)
	assert.Empty(t, res.Lines.ByLineID("1:2-2"))
	assert.Equal(t, 1, res.Diagnostics.Count(errors.KindDuplicate))
}

func TestExpandEmpty(t *testing.T) {
	res, err := Expand(corpus.New(), Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Lines.Len())
	assert.Zero(t, res.Songs.Len())
}
