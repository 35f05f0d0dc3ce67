package show

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/libretto/pkg/errors"
)

func TestParseLineID(t *testing.T) {
	tests := []struct {
		in         string
		song       string
		start, end int
		wantErr    bool
	}{
		{"1:3-7", "1", 3, 7, false},
		{"1:0-0", "1", 0, 0, false},
		{"12:4", "12", 4, 4, false},
		{"2:5-0", "2", 5, 5, false},
		{"nosong", "", 0, 0, true},
		{":1-2", "", 0, 0, true},
		{"1:x-2", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			song, start, end, err := ParseLineID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidLineKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.song, song)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestParseLineKey(t *testing.T) {
	k, err := ParseLineKey("1:5/3-7")
	require.NoError(t, err)
	assert.Equal(t, LineKey{SongID: "1", Line: 5, Range: "3-7"}, k)
	assert.Equal(t, "1:3-7", k.LineID())
	assert.Equal(t, "1:5", KeyPrefix("1:5/3-7"))

	_, err = ParseLineKey("1:3-7")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLineKey))
}

func TestSongOf(t *testing.T) {
	assert.Equal(t, "12", SongOf("12:3-4"))
	assert.Equal(t, "x", SongOf("x"))
}
