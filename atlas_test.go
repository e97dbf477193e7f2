package img2ascii

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	whiteOnBlack = ColorCombination{Foreground: White, Background: Black}
	redOnBlue    = ColorCombination{Foreground: Red, Background: Blue}
)

// newTestAtlas builds an atlas without a font. Every byte of cell (c, k)
// is set to fill(c, k).
func newTestAtlas(layout CellLayout, start rune, numChars int,
	combos []ColorCombination, fill func(c, k int) uint8) *Atlas {
	a := &Atlas{
		start:        start,
		stop:         start + rune(numChars),
		combinations: combos,
		layout:       CellLayout{Width: layout.Width, Height: layout.Height},
		fontName:     "test",
		fontSize:     DefaultFontSize,
		data:         make([]uint8, numChars*len(combos)*layout.CellBytes()),
	}
	size := layout.CellBytes()
	for c := 0; c < numChars; c++ {
		for k := range combos {
			off := (c*len(combos) + k) * size
			for i := 0; i < size; i++ {
				a.data[off+i] = fill(c, k)
			}
		}
	}
	return a
}

func buildTestAtlas(t *testing.T, opts AtlasOptions) *Atlas {
	t.Helper()

	f, err := DefaultFont()
	require.NoError(t, err)
	atlas, err := BuildAtlas(context.Background(), f, opts)
	require.NoError(t, err)
	return atlas
}

func TestBuildAtlasDimensions(t *testing.T) {
	t.Parallel()

	atlas := buildTestAtlas(t, AtlasOptions{
		Start:        32,
		Stop:         40,
		Combinations: []ColorCombination{whiteOnBlack, redOnBlue},
		Layout:       DefaultLayout,
	})

	assert.Equal(t, 8, atlas.NumChars())
	assert.Equal(t, 2, atlas.NumCombinations())
	assert.Equal(t, rune(32), atlas.Start())
	assert.Equal(t, rune(40), atlas.Stop())
	assert.Equal(t, '#', atlas.Rune(3))
	assert.Equal(t, DefaultFontName, atlas.FontName())
	assert.Equal(t, CellLayout{Width: 9, Height: 16}, atlas.Layout())
	assert.Len(t, atlas.Cell(7, 1), 9*16*3)
	assert.Empty(t, atlas.Missing())
}

func TestBuildAtlasCellContents(t *testing.T) {
	t.Parallel()

	atlas := buildTestAtlas(t, AtlasOptions{
		Start:        32,
		Stop:         36,
		Combinations: []ColorCombination{whiteOnBlack, redOnBlue},
		Layout:       DefaultLayout,
	})

	// A space is nothing but background.
	for _, v := range atlas.Cell(0, 0) {
		require.Zero(t, v)
	}
	blue := atlas.Cell(0, 1)
	for i := 0; i < len(blue); i += 3 {
		require.Equal(t, []uint8{0, 0, 255}, blue[i:i+3])
	}

	// '#' leaves ink in the foreground color.
	var lit, inked int
	for _, v := range atlas.Cell(3, 0) {
		if v > 0 {
			lit++
		}
	}
	hash := atlas.Cell(3, 1)
	for i := 0; i < len(hash); i += 3 {
		if hash[i] > 0 {
			inked++
		}
	}
	assert.Positive(t, lit)
	assert.Positive(t, inked)
}

func TestBuildAtlasDeterministic(t *testing.T) {
	t.Parallel()

	opts := AtlasOptions{
		Start:        32,
		Stop:         126,
		Combinations: []ColorCombination{whiteOnBlack, redOnBlue},
		Layout:       DefaultLayout,
		Workers:      1,
	}
	sequential := buildTestAtlas(t, opts)
	opts.Workers = 7
	parallel := buildTestAtlas(t, opts)

	assert.Equal(t, sequential.data, parallel.data)
}

func TestBuildAtlasEmptyCombinations(t *testing.T) {
	t.Parallel()

	// No font is needed to reject the configuration.
	_, err := BuildAtlas(context.Background(), nil, AtlasOptions{
		Start:  32,
		Stop:   126,
		Layout: DefaultLayout,
	})
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func TestBuildAtlasInvalidOptions(t *testing.T) {
	t.Parallel()

	f, err := DefaultFont()
	require.NoError(t, err)

	tests := []struct {
		name string
		opts AtlasOptions
	}{
		{"empty range", AtlasOptions{Start: 40, Stop: 40, Layout: DefaultLayout}},
		{"reversed range", AtlasOptions{Start: 50, Stop: 40, Layout: DefaultLayout}},
		{"control characters", AtlasOptions{Start: 0, Stop: 40, Layout: DefaultLayout}},
		{"wide characters", AtlasOptions{Start: 0x4E00, Stop: 0x4E02, Layout: DefaultLayout}},
		{"zero cell", AtlasOptions{Start: 32, Stop: 40}},
		{"negative gap", AtlasOptions{Start: 32, Stop: 40, Layout: CellLayout{Width: 9, Height: 16, XGap: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Combinations = []ColorCombination{whiteOnBlack}
			_, err := BuildAtlas(context.Background(), f, tt.opts)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestBuildAtlasNilFont(t *testing.T) {
	t.Parallel()

	_, err := BuildAtlas(context.Background(), nil, AtlasOptions{
		Start:        32,
		Stop:         40,
		Combinations: []ColorCombination{whiteOnBlack},
		Layout:       DefaultLayout,
	})
	var fontErr *FontLoadError
	assert.True(t, errors.As(err, &fontErr), "got %v", err)
}

func TestBuildAtlasCancelled(t *testing.T) {
	t.Parallel()

	f, err := DefaultFont()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = BuildAtlas(ctx, f, AtlasOptions{
		Start:        32,
		Stop:         126,
		Combinations: []ColorCombination{whiteOnBlack},
		Layout:       DefaultLayout,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFont(t *testing.T) {
	t.Parallel()

	f, err := LoadFont("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFontName, f.Name())
	assert.True(t, f.HasGlyph('A'))

	_, err = LoadFont("/nonexistent/font.ttf")
	var fontErr *FontLoadError
	require.True(t, errors.As(err, &fontErr), "got %v", err)
	assert.Equal(t, "/nonexistent/font.ttf", fontErr.Path)
}
