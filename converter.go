package img2ascii

import (
	"context"
	"errors"
	"image"
	"io"
	"log"
	"os"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// Converter turns images into colored text art. It holds the configuration
// and the atlas built for it, so converting several images with the same
// settings renders the glyphs only once. A Converter is not safe for
// concurrent use; Atlas and Match themselves are.
type Converter struct {
	// Configuration options
	Start             rune
	Stop              rune
	Palette           []Color
	ColoredForeground bool
	Background        BackgroundMode
	Layout            CellLayout
	FontPath          string
	FontSize          float64
	Workers           int
	TargetWidth       int
	TargetHeight      int
	Sharpen           bool
	AtlasCachePath    string

	logger *log.Logger

	// Atlas state (private)
	font  *Font
	atlas *Atlas

	// Stats (private)
	atlasTime   time.Duration
	prepareTime time.Duration
	matchTime   time.Duration
	atlasCached bool
}

// Result is the output of one conversion.
type Result struct {
	Matches MatchGrid
	Units   [][]Unit
	Atlas   *Atlas
}

// Text returns the colored text rendering.
func (r *Result) Text() string { return RenderText(r.Units) }

// PlainText returns the rendering without color sequences.
func (r *Result) PlainText() string { return PlainText(r.Units) }

// Image paints the matched glyph cells into an image.
func (r *Result) Image() (*image.RGBA, error) { return RenderImage(r.Matches, r.Atlas) }

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// NewConverter creates a new Converter with the given options.
// Default values: characters 32 up to but excluding 126, white on black
// only, 9x16 cells sampled with 4x10 pixel gaps, Go Mono at 16pt.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		Start:    DefaultCharStart,
		Stop:     DefaultCharStop,
		Palette:  DefaultPalette(),
		Layout:   DefaultLayout,
		FontSize: DefaultFontSize,
		logger:   log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithCharRange sets the characters to match against; stop is exclusive.
func WithCharRange(start, stop rune) ConverterOption {
	return func(c *Converter) {
		c.Start, c.Stop = start, stop
	}
}

// WithPalette restricts the colors combinations are built from.
func WithPalette(palette []Color) ConverterOption {
	return func(c *Converter) {
		c.Palette = append([]Color(nil), palette...)
	}
}

// WithColoredForeground allows foreground colors other than the neutral
// text color.
func WithColoredForeground(colored bool) ConverterOption {
	return func(c *Converter) {
		c.ColoredForeground = colored
	}
}

// WithBackground sets the background mode.
func WithBackground(mode BackgroundMode) ConverterOption {
	return func(c *Converter) {
		c.Background = mode
	}
}

// WithLayout sets the cell size and sampling gaps.
func WithLayout(layout CellLayout) ConverterOption {
	return func(c *Converter) {
		c.Layout = layout
	}
}

// WithFontPath selects a TrueType font file; "" uses the embedded font.
func WithFontPath(path string) ConverterOption {
	return func(c *Converter) {
		c.FontPath = path
		c.font = nil
	}
}

// WithFont uses an already loaded font.
func WithFont(f *Font) ConverterOption {
	return func(c *Converter) {
		c.font = f
		c.FontPath = f.Name()
	}
}

// WithFontSize sets the glyph point size.
func WithFontSize(size float64) ConverterOption {
	return func(c *Converter) {
		c.FontSize = size
	}
}

// WithWorkers bounds atlas and matching parallelism (0 = one per CPU).
func WithWorkers(n int) ConverterOption {
	return func(c *Converter) {
		c.Workers = n
	}
}

// WithTargetSize sets the prepared image size in pixels. Zero values
// follow the source aspect ratio.
func WithTargetSize(width, height int) ConverterOption {
	return func(c *Converter) {
		c.TargetWidth, c.TargetHeight = width, height
	}
}

// WithSharpen enables a mild sharpening pass after resizing.
func WithSharpen(sharpen bool) ConverterOption {
	return func(c *Converter) {
		c.Sharpen = sharpen
	}
}

// WithAtlasCache names a file holding a precomputed atlas. It is used when
// it matches the configuration and rewritten when it does not.
func WithAtlasCache(path string) ConverterOption {
	return func(c *Converter) {
		c.AtlasCachePath = path
	}
}

// WithLogger sets the logger progress and warnings are written to.
func WithLogger(logger *log.Logger) ConverterOption {
	return func(c *Converter) {
		if logger == nil {
			logger = log.New(io.Discard, "", 0)
		}
		c.logger = logger
	}
}

// Combinations returns the color combinations the current configuration
// selects.
func (c *Converter) Combinations() ([]ColorCombination, error) {
	return SelectCombinations(c.Palette, Selection{
		ColoredForeground: c.ColoredForeground,
		Background:        c.Background,
	})
}

func (c *Converter) atlasOptions() (AtlasOptions, error) {
	combos, err := c.Combinations()
	if err != nil {
		return AtlasOptions{}, err
	}
	return AtlasOptions{
		Start:        c.Start,
		Stop:         c.Stop,
		Combinations: combos,
		Layout:       c.Layout,
		FontSize:     c.FontSize,
		Workers:      c.Workers,
	}, nil
}

func (c *Converter) loadFont() (*Font, error) {
	name := c.FontPath
	if name == "" {
		name = DefaultFontName
	}
	if c.font != nil && c.font.Name() == name {
		return c.font, nil
	}
	f, err := LoadFont(c.FontPath)
	if err != nil {
		return nil, err
	}
	c.font = f
	return f, nil
}

// Atlas returns the glyph atlas for the current configuration, building it
// on first use. If the configuration has not changed since the last call
// the same atlas is returned (smart caching).
func (c *Converter) Atlas(ctx context.Context) (*Atlas, error) {
	opts, err := c.atlasOptions()
	if err != nil {
		return nil, err
	}
	f, err := c.loadFont()
	if err != nil {
		return nil, err
	}

	if c.atlas != nil && c.atlas.Matches(opts, f.Name()) == nil {
		return c.atlas, nil
	}

	start := time.Now()
	if atlas, ok := c.loadCachedAtlas(opts, f.Name()); ok {
		c.atlas = atlas
		c.atlasCached = true
		c.atlasTime = time.Since(start)
		return atlas, nil
	}

	atlas, err := BuildAtlas(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	c.atlas = atlas
	c.atlasCached = false
	c.atlasTime = time.Since(start)
	c.logger.Printf("built atlas: %d characters x %d color combinations in %v",
		atlas.NumChars(), atlas.NumCombinations(), c.atlasTime)
	if missing := atlas.Missing(); len(missing) > 0 {
		c.logger.Printf("font %s has no glyph for %q; using its substitute",
			f.Name(), string(missing))
	}

	if c.AtlasCachePath != "" {
		if err := SaveAtlas(atlas, c.AtlasCachePath); err != nil {
			c.logger.Printf("could not write atlas cache %s: %v", c.AtlasCachePath, err)
		} else {
			c.logger.Printf("wrote atlas cache %s", c.AtlasCachePath)
		}
	}
	return atlas, nil
}

// loadCachedAtlas returns the atlas stored at AtlasCachePath if it exists
// and was built for opts.
func (c *Converter) loadCachedAtlas(opts AtlasOptions, fontName string) (*Atlas, bool) {
	if c.AtlasCachePath == "" {
		return nil, false
	}
	atlas, err := LoadAtlas(c.AtlasCachePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Printf("ignoring atlas cache %s: %v", c.AtlasCachePath, err)
		}
		return nil, false
	}
	if err := atlas.Matches(opts, fontName); err != nil {
		c.logger.Printf("ignoring atlas cache %s: %v", c.AtlasCachePath, err)
		return nil, false
	}
	c.logger.Printf("loaded atlas cache %s", c.AtlasCachePath)
	return atlas, true
}

// Prepare enhances and resizes img into a pixel grid that tiles exactly
// into blocks.
func (c *Converter) Prepare(img image.Image) (*PixelGrid, error) {
	start := time.Now()
	defer func() { c.prepareTime = time.Since(start) }()

	prepared, err := imageutil.PrepareForGlyphs(imageutil.RGBAImageFromImage(img),
		imageutil.PrepareOptions{
			TargetWidth:  c.TargetWidth,
			TargetHeight: c.TargetHeight,
			StrideX:      c.Layout.StrideX(),
			StrideY:      c.Layout.StrideY(),
			Sharpen:      c.Sharpen,
		})
	if err != nil {
		return nil, &ImageLoadError{Err: err}
	}
	return PixelGridFromImage(prepared.RGBA), nil
}

// ConvertGrid matches an already prepared pixel grid.
func (c *Converter) ConvertGrid(ctx context.Context, grid *PixelGrid) (*Result, error) {
	atlas, err := c.Atlas(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	matches, err := Match(ctx, grid, atlas, MatchOptions{
		XGap:    c.Layout.XGap,
		YGap:    c.Layout.YGap,
		Workers: c.Workers,
	})
	if err != nil {
		return nil, err
	}
	c.matchTime = time.Since(start)
	c.logger.Printf("matched %dx%d blocks in %v", matches.Cols(), matches.Rows(), c.matchTime)

	units, err := Format(matches, atlas)
	if err != nil {
		return nil, err
	}
	return &Result{Matches: matches, Units: units, Atlas: atlas}, nil
}

// Convert prepares img and matches it. The atlas is built before the image
// is touched, so configuration errors surface first.
func (c *Converter) Convert(ctx context.Context, img image.Image) (*Result, error) {
	if _, err := c.Atlas(ctx); err != nil {
		return nil, err
	}
	grid, err := c.Prepare(img)
	if err != nil {
		return nil, err
	}
	return c.ConvertGrid(ctx, grid)
}

// ConvertFile loads the image at path and converts it.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	if _, err := c.Atlas(ctx); err != nil {
		return nil, err
	}
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	c.logger.Printf("loaded %s (%dx%d)", path, img.Width(), img.Height())

	grid, err := c.Prepare(img.RGBA)
	if err != nil {
		var loadErr *ImageLoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return c.ConvertGrid(ctx, grid)
}

// Stats reports how long the last atlas build, image preparation and
// match took, and whether the atlas came from the cache file.
type Stats struct {
	AtlasTime   time.Duration
	PrepareTime time.Duration
	MatchTime   time.Duration
	AtlasCached bool
}

// Stats returns timing statistics for the most recent conversion.
func (c *Converter) Stats() Stats {
	return Stats{
		AtlasTime:   c.atlasTime,
		PrepareTime: c.prepareTime,
		MatchTime:   c.matchTime,
		AtlasCached: c.atlasCached,
	}
}

// ResetStats resets all statistics counters.
func (c *Converter) ResetStats() {
	c.atlasTime = 0
	c.prepareTime = 0
	c.matchTime = 0
	c.atlasCached = false
}
