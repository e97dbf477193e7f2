package img2ascii

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the point size glyphs are rendered at (72 DPI, so
// points and pixels coincide).
const DefaultFontSize = 16

// DefaultFontName names the embedded font used when no TTF is given.
const DefaultFontName = "gomono"

// Font is a parsed TrueType font ready for glyph rendering.
type Font struct {
	ttf  *truetype.Font
	name string
}

// Name returns the path or identifier the font was loaded from.
func (f *Font) Name() string { return f.name }

// HasGlyph reports whether the font has an outline for r. Runes without
// one are drawn using the font's substitute glyph.
func (f *Font) HasGlyph(r rune) bool {
	return f.ttf.Index(r) != 0
}

// DefaultFont returns the embedded Go Mono font.
func DefaultFont() (*Font, error) {
	ttf, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, &FontLoadError{Path: DefaultFontName, Err: err}
	}
	return &Font{ttf: ttf, name: DefaultFontName}, nil
}

// LoadFont loads a TrueType font from file. An empty path or
// DefaultFontName selects the embedded font.
func LoadFont(path string) (*Font, error) {
	if path == "" || path == DefaultFontName {
		return DefaultFont()
	}

	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}

	ttf, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}

	return &Font{ttf: ttf, name: path}, nil
}

// glyphRenderer draws characters into fixed-size RGB cells. It owns a
// scratch image and is not safe for concurrent use; each worker creates
// its own.
type glyphRenderer struct {
	font   *Font
	layout CellLayout
	size   float64
	face   font.Face
	ctx    *freetype.Context
	img    *image.RGBA
}

func newGlyphRenderer(f *Font, layout CellLayout, size float64) *glyphRenderer {
	face := truetype.NewFace(f.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	img := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f.ttf)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetHinting(font.HintingFull)

	return &glyphRenderer{
		font:   f,
		layout: layout,
		size:   size,
		face:   face,
		ctx:    ctx,
		img:    img,
	}
}

func (g *glyphRenderer) Close() error {
	return g.face.Close()
}

// origin returns the pen position that centers r on the cell anchor, both
// horizontally (half the advance) and vertically (midway between ascent
// and descent).
func (g *glyphRenderer) origin(r rune) fixed.Point26_6 {
	anchorX := fixed.I(g.layout.Width/2 + 1)
	anchorY := fixed.I(g.layout.Height / 2)

	advance, ok := g.face.GlyphAdvance(r)
	if !ok {
		advance = 0
	}
	metrics := g.face.Metrics()

	return fixed.Point26_6{
		X: anchorX - advance/2,
		Y: anchorY + (metrics.Ascent-metrics.Descent)/2,
	}
}

// render draws r in fg over bg and copies the RGB bytes of the cell into
// dst, which must hold Width*Height*3 bytes.
func (g *glyphRenderer) render(r rune, fg, bg color.RGBA, dst []uint8) error {
	draw.Draw(g.img, g.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	g.ctx.SetSrc(image.NewUniform(fg))
	if _, err := g.ctx.DrawString(string(r), g.origin(r)); err != nil {
		return &GlyphRenderError{Rune: r, Err: err}
	}

	want := g.layout.Width * g.layout.Height * 3
	if len(dst) != want {
		return &GlyphRenderError{
			Rune: r,
			Err:  fmt.Errorf("cell buffer holds %d bytes, need %d", len(dst), want),
		}
	}

	i := 0
	for y := 0; y < g.layout.Height; y++ {
		row := g.img.Pix[y*g.img.Stride : y*g.img.Stride+g.layout.Width*4]
		for x := 0; x < g.layout.Width; x++ {
			dst[i] = row[x*4]
			dst[i+1] = row[x*4+1]
			dst[i+2] = row[x*4+2]
			i += 3
		}
	}
	return nil
}
