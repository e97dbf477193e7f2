package img2ascii

import (
	"context"
	"runtime"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultCharStart and DefaultCharStop bound the printable ASCII range
	// used when none is configured. Stop is exclusive.
	DefaultCharStart = 32
	DefaultCharStop  = 126
)

// CellLayout describes the size of one character cell and the gaps the
// input image is sampled with between cells.
type CellLayout struct {
	Width  int
	Height int
	XGap   int
	YGap   int
}

// DefaultLayout is a 9x16 cell sampled every 13x26 pixels.
var DefaultLayout = CellLayout{Width: 9, Height: 16, XGap: 4, YGap: 10}

// StrideX is the horizontal distance between block origins.
func (l CellLayout) StrideX() int { return l.Width + l.XGap }

// StrideY is the vertical distance between block origins.
func (l CellLayout) StrideY() int { return l.Height + l.YGap }

// CellBytes is the size of one RGB cell bitmap.
func (l CellLayout) CellBytes() int { return l.Width * l.Height * 3 }

func (l CellLayout) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return configErrorf("cell size %dx%d must be positive", l.Width, l.Height)
	}
	if l.XGap < 0 || l.YGap < 0 {
		return configErrorf("cell gaps %d,%d must not be negative", l.XGap, l.YGap)
	}
	return nil
}

// AtlasOptions configures BuildAtlas.
type AtlasOptions struct {
	// Start and Stop bound the character range; Stop is exclusive.
	Start, Stop  rune
	Combinations []ColorCombination
	// Layout gives the cell size; its gaps are ignored.
	Layout CellLayout
	// FontSize defaults to DefaultFontSize.
	FontSize float64
	// Workers bounds rendering parallelism; <= 0 uses runtime.NumCPU().
	Workers int
}

// Atlas holds one rendered RGB bitmap for every character and color
// combination. Cells are stored character-major: all combinations of the
// first character, then all combinations of the second, and so on. An
// Atlas is never modified after BuildAtlas returns.
type Atlas struct {
	start        rune
	stop         rune
	combinations []ColorCombination
	layout       CellLayout
	fontName     string
	fontSize     float64
	missing      []rune
	data         []uint8
}

// NumChars returns the number of characters in the atlas.
func (a *Atlas) NumChars() int { return int(a.stop - a.start) }

// NumCombinations returns the number of color combinations per character.
func (a *Atlas) NumCombinations() int { return len(a.combinations) }

// Start returns the first character in the atlas.
func (a *Atlas) Start() rune { return a.start }

// Stop returns the exclusive end of the character range.
func (a *Atlas) Stop() rune { return a.stop }

// Layout returns the cell geometry. Gaps are always zero; they belong to
// the matcher.
func (a *Atlas) Layout() CellLayout { return a.layout }

// FontName returns the font the atlas was rendered with.
func (a *Atlas) FontName() string { return a.fontName }

// FontSize returns the point size glyphs were rendered at.
func (a *Atlas) FontSize() float64 { return a.fontSize }

// Combinations returns a copy of the atlas color combinations in index
// order.
func (a *Atlas) Combinations() []ColorCombination {
	return append([]ColorCombination(nil), a.combinations...)
}

// Missing returns the characters the font had no glyph for.
func (a *Atlas) Missing() []rune {
	return append([]rune(nil), a.missing...)
}

// Rune returns the character at index c.
func (a *Atlas) Rune(c int) rune { return a.start + rune(c) }

// Cell returns the bitmap for character index c and combination index k.
// The returned slice aliases the atlas and must not be modified.
func (a *Atlas) Cell(c, k int) []uint8 {
	size := a.layout.CellBytes()
	off := (c*len(a.combinations) + k) * size
	return a.data[off : off+size : off+size]
}

// checkCharRange rejects empty ranges and characters that do not occupy
// exactly one terminal column.
func checkCharRange(start, stop rune) error {
	if start < 0 || stop <= start {
		return configErrorf("character range [%d, %d) is empty", start, stop)
	}
	for r := start; r < stop; r++ {
		if w := runewidth.RuneWidth(r); w != 1 {
			return configErrorf(
				"character %q (U+%04X) is %d columns wide, need 1", r, r, w)
		}
	}
	return nil
}

// BuildAtlas renders every character in [opts.Start, opts.Stop) in every
// color combination. Characters are rendered concurrently; each worker
// writes only the cells of its own character.
func BuildAtlas(ctx context.Context, f *Font, opts AtlasOptions) (*Atlas, error) {
	if len(opts.Combinations) == 0 {
		return nil, configErrorf("no color combinations to render")
	}
	if err := checkCharRange(opts.Start, opts.Stop); err != nil {
		return nil, err
	}
	if err := opts.Layout.validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, &FontLoadError{Path: "", Err: errNilFont}
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	atlas := &Atlas{
		start:        opts.Start,
		stop:         opts.Stop,
		combinations: append([]ColorCombination(nil), opts.Combinations...),
		layout:       CellLayout{Width: opts.Layout.Width, Height: opts.Layout.Height},
		fontName:     f.Name(),
		fontSize:     opts.FontSize,
	}
	numChars := atlas.NumChars()
	numCombos := atlas.NumCombinations()
	cellBytes := opts.Layout.CellBytes()
	atlas.data = make([]uint8, numChars*numCombos*cellBytes)

	for r := opts.Start; r < opts.Stop; r++ {
		if !f.HasGlyph(r) {
			atlas.missing = append(atlas.missing, r)
		}
	}

	// Characters are handed out in contiguous chunks, one glyph renderer
	// per chunk.
	chunk := (numChars + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < numChars; lo += chunk {
		lo, hi := lo, min(lo+chunk, numChars)
		g.Go(func() error {
			gr := newGlyphRenderer(f, opts.Layout, opts.FontSize)
			defer gr.Close()

			for c := lo; c < hi; c++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				r := atlas.Rune(c)
				for k, cc := range atlas.combinations {
					off := (c*numCombos + k) * cellBytes
					err := gr.render(r, cc.Foreground.RGBA(),
						cc.Background.RGBA(), atlas.data[off:off+cellBytes])
					if err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return atlas, nil
}
