package img2ascii

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Color is one of the eight basic terminal colors. The zero value is Black.
type Color uint8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

type colorDef struct {
	name string
	rgb  color.RGBA
	fore string
	back string
}

// colorTable holds the fixed representations of every Color. The RGB
// values are the named web colors glyphs are rendered with, so "green" is
// the darker 0,128,0 rather than the terminal's bright green.
var colorTable = [...]colorDef{
	Black:   newColorDef("black", color.RGBA{0, 0, 0, 255}, ansi.Black),
	Red:     newColorDef("red", color.RGBA{255, 0, 0, 255}, ansi.Red),
	Green:   newColorDef("green", color.RGBA{0, 128, 0, 255}, ansi.Green),
	Yellow:  newColorDef("yellow", color.RGBA{255, 255, 0, 255}, ansi.Yellow),
	Blue:    newColorDef("blue", color.RGBA{0, 0, 255, 255}, ansi.Blue),
	Magenta: newColorDef("magenta", color.RGBA{255, 0, 255, 255}, ansi.Magenta),
	Cyan:    newColorDef("cyan", color.RGBA{0, 255, 255, 255}, ansi.Cyan),
	White:   newColorDef("white", color.RGBA{255, 255, 255, 255}, ansi.White),
}

var (
	// ForegroundReset restores the terminal's default foreground color.
	ForegroundReset = ansi.Style{}.DefaultForegroundColor().String()
	// BackgroundReset restores the terminal's default background color.
	BackgroundReset = ansi.Style{}.DefaultBackgroundColor().String()
)

func newColorDef(name string, rgb color.RGBA, basic ansi.BasicColor) colorDef {
	return colorDef{
		name: name,
		rgb:  rgb,
		fore: ansi.Style{}.ForegroundColor(basic).String(),
		back: ansi.Style{}.BackgroundColor(basic).String(),
	}
}

// DefaultPalette returns all eight colors in their canonical order.
func DefaultPalette() []Color {
	return []Color{Black, Red, Green, Yellow, Blue, Magenta, Cyan, White}
}

// ParseColor returns the Color with the given name, case-insensitively.
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, def := range colorTable {
		if def.name == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", name)
}

// FormatPalette is the inverse of ParsePalette.
func FormatPalette(palette []Color) string {
	names := make([]string, len(palette))
	for i, c := range palette {
		names[i] = c.Name()
	}
	return strings.Join(names, ",")
}

// ParsePalette parses a comma separated list of color names.
func ParsePalette(list string) ([]Color, error) {
	var palette []Color
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, err := ParseColor(name)
		if err != nil {
			return nil, err
		}
		palette = append(palette, c)
	}
	return palette, nil
}

func (c Color) valid() bool { return int(c) < len(colorTable) }

// Name returns the lower case color name, e.g. "magenta".
func (c Color) Name() string {
	if !c.valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorTable[c].name
}

func (c Color) String() string { return c.Name() }

// RGBA returns the color glyph cells are rendered with.
func (c Color) RGBA() color.RGBA {
	if !c.valid() {
		return color.RGBA{A: 255}
	}
	return colorTable[c].rgb
}

// Foreground returns the SGR sequence selecting c as the text color.
func (c Color) Foreground() string {
	if !c.valid() {
		return ""
	}
	return colorTable[c].fore
}

// Background returns the SGR sequence selecting c as the cell background.
func (c Color) Background() string {
	if !c.valid() {
		return ""
	}
	return colorTable[c].back
}

// ColorCombination is an ordered foreground/background pair used to render
// one atlas cell.
type ColorCombination struct {
	Foreground Color
	Background Color
}

func (cc ColorCombination) String() string {
	return cc.Foreground.Name() + "/" + cc.Background.Name()
}

// BackgroundMode selects which background colors are allowed.
type BackgroundMode int

const (
	// BackgroundNone behaves like BackgroundDark: black backgrounds only.
	BackgroundNone BackgroundMode = iota
	BackgroundDark
	BackgroundLight
	BackgroundColored
)

func (m BackgroundMode) String() string {
	switch m {
	case BackgroundNone:
		return "none"
	case BackgroundDark:
		return "dark"
	case BackgroundLight:
		return "light"
	case BackgroundColored:
		return "colored"
	default:
		return fmt.Sprintf("BackgroundMode(%d)", int(m))
	}
}

// ParseBackgroundMode parses "none", "dark", "light" or "colored"
// ("coloured" is accepted too).
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return BackgroundNone, nil
	case "dark":
		return BackgroundDark, nil
	case "light":
		return BackgroundLight, nil
	case "colored", "coloured", "colour", "color":
		return BackgroundColored, nil
	}
	return BackgroundNone, configErrorf("unknown background mode %q", s)
}

// Selection holds the flags that restrict the color combination space.
type Selection struct {
	ColoredForeground bool
	Background        BackgroundMode
}

// textColor is the only foreground allowed when ColoredForeground is off.
func (s Selection) textColor() Color {
	if s.Background == BackgroundLight {
		return Black
	}
	return White
}

// AllCombinations returns every ordered pair of distinct palette colors:
// the 2-combinations of the palette followed by the 2-combinations of the
// reversed palette, deduplicated by value. A color repeated in the palette
// never pairs with itself. Order is stable.
func AllCombinations(palette []Color) []ColorCombination {
	seen := newOrderedSet[ColorCombination]()
	addPairs := func(colors []Color) {
		for i := 0; i < len(colors); i++ {
			for j := i + 1; j < len(colors); j++ {
				if colors[i] == colors[j] {
					continue
				}
				seen.add(ColorCombination{colors[i], colors[j]})
			}
		}
	}

	addPairs(palette)
	reversed := make([]Color, len(palette))
	for i, c := range palette {
		reversed[len(palette)-1-i] = c
	}
	addPairs(reversed)

	return seen.values()
}

// SelectCombinations derives the combinations to render from the palette
// and the selection flags. An empty result is a ConfigurationError.
func SelectCombinations(palette []Color, sel Selection) ([]ColorCombination, error) {
	if len(palette) == 0 {
		return nil, configErrorf("palette is empty")
	}

	var keep []ColorCombination
	for _, cc := range AllCombinations(palette) {
		switch sel.Background {
		case BackgroundLight:
			if cc.Background != White {
				continue
			}
		case BackgroundColored:
		default:
			if cc.Background != Black {
				continue
			}
		}
		if !sel.ColoredForeground && cc.Foreground != sel.textColor() {
			continue
		}
		keep = append(keep, cc)
	}

	if len(keep) == 0 {
		return nil, configErrorf(
			"no color combinations left for foreground=%s background=%s "+
				"with palette %v", foregroundLabel(sel), sel.Background, palette)
	}
	return keep, nil
}

func foregroundLabel(sel Selection) string {
	if sel.ColoredForeground {
		return "colored"
	}
	return sel.textColor().Name()
}
