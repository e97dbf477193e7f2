package img2ascii

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtlasRoundTrip(t *testing.T) {
	t.Parallel()

	atlas := newTestAtlas(CellLayout{Width: 2, Height: 3}, 'a', 4,
		[]ColorCombination{whiteOnBlack, redOnBlue},
		func(c, k int) uint8 { return uint8(10*c + k) })
	atlas.missing = []rune{'c'}

	var buf bytes.Buffer
	require.NoError(t, WriteAtlas(&buf, atlas))

	got, err := ReadAtlas(&buf)
	require.NoError(t, err)
	assert.Equal(t, atlas, got)
}

func TestSaveLoadAtlas(t *testing.T) {
	t.Parallel()

	atlas := buildTestAtlas(t, AtlasOptions{
		Start:        32,
		Stop:         48,
		Combinations: []ColorCombination{whiteOnBlack},
		Layout:       DefaultLayout,
	})

	path := filepath.Join(t.TempDir(), "atlas.gob.gz")
	require.NoError(t, SaveAtlas(atlas, path))

	loaded, err := LoadAtlas(path)
	require.NoError(t, err)
	assert.Equal(t, atlas.data, loaded.data)
	assert.NoError(t, loaded.Matches(AtlasOptions{
		Start:        32,
		Stop:         48,
		Combinations: []ColorCombination{whiteOnBlack},
		Layout:       DefaultLayout,
	}, DefaultFontName))
}

func TestReadAtlasRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ReadAtlas(strings.NewReader("not an atlas"))
	assert.Error(t, err)

	_, err = LoadAtlas(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestAtlasMatches(t *testing.T) {
	t.Parallel()

	atlas := newTestAtlas(CellLayout{Width: 9, Height: 16}, 32, 94,
		[]ColorCombination{whiteOnBlack},
		func(int, int) uint8 { return 0 })
	base := AtlasOptions{
		Start:        32,
		Stop:         126,
		Combinations: []ColorCombination{whiteOnBlack},
		Layout:       DefaultLayout,
	}
	require.NoError(t, atlas.Matches(base, "test"))

	tests := []struct {
		name   string
		modify func(*AtlasOptions)
		font   string
	}{
		{"range", func(o *AtlasOptions) { o.Stop = 100 }, "test"},
		{"cell size", func(o *AtlasOptions) { o.Layout.Width = 8 }, "test"},
		{"font", func(*AtlasOptions) {}, "other.ttf"},
		{"font size", func(o *AtlasOptions) { o.FontSize = 12 }, "test"},
		{"combinations", func(o *AtlasOptions) {
			o.Combinations = []ColorCombination{redOnBlue}
		}, "test"},
		{"combination count", func(o *AtlasOptions) {
			o.Combinations = append(o.Combinations, redOnBlue)
		}, "test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			opts.Combinations = append([]ColorCombination(nil), base.Combinations...)
			tt.modify(&opts)
			err := atlas.Matches(opts, tt.font)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}

	// Gaps only affect matching.
	gaps := base
	gaps.Layout.XGap, gaps.Layout.YGap = 0, 0
	assert.NoError(t, atlas.Matches(gaps, "test"))
}
