package img2ascii

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultForeground and DefaultBackground are the colors a dark terminal
// already draws with; units using them emit no styling.
const (
	DefaultForeground = White
	DefaultBackground = Black
)

// Unit is one printable cell: a character and the colors to draw it with.
type Unit struct {
	Char   rune
	Colors ColorCombination
}

// String returns the character wrapped in the SGR sequences its colors
// need. The foreground is only set when it is not white and the background
// only when it is not black.
func (u Unit) String() string {
	s := string(u.Char)
	if fg := u.Colors.Foreground; fg != DefaultForeground {
		s = fg.Foreground() + s + ForegroundReset
	}
	if bg := u.Colors.Background; bg != DefaultBackground {
		s = bg.Background() + s + BackgroundReset
	}
	return s
}

// FormatIndices resolves every MatchIndex to a Unit using the first
// character of the atlas range and its color combinations.
func FormatIndices(grid MatchGrid, start rune, combinations []ColorCombination) ([][]Unit, error) {
	units := make([][]Unit, len(grid))
	for y, row := range grid {
		units[y] = make([]Unit, len(row))
		for x, m := range row {
			if m.Combo < 0 || m.Combo >= len(combinations) {
				return nil, fmt.Errorf("block (%d,%d): combination index %d out of range [0, %d)",
					x, y, m.Combo, len(combinations))
			}
			if m.Char < 0 {
				return nil, fmt.Errorf("block (%d,%d): negative character index %d", x, y, m.Char)
			}
			units[y][x] = Unit{
				Char:   start + rune(m.Char),
				Colors: combinations[m.Combo],
			}
		}
	}
	return units, nil
}

// Format resolves a MatchGrid produced against atlas.
func Format(grid MatchGrid, atlas *Atlas) ([][]Unit, error) {
	for y, row := range grid {
		for x, m := range row {
			if m.Char >= atlas.NumChars() {
				return nil, fmt.Errorf("block (%d,%d): character index %d out of range [0, %d)",
					x, y, m.Char, atlas.NumChars())
			}
		}
	}
	return FormatIndices(grid, atlas.start, atlas.combinations)
}

// RenderText joins the units into lines of colored text, one line per
// row, separated by newlines.
func RenderText(units [][]Unit) string {
	var sb strings.Builder
	for y, row := range units {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, u := range row {
			sb.WriteString(u.String())
		}
	}
	return sb.String()
}

// PlainText renders the units without any color sequences.
func PlainText(units [][]Unit) string {
	return ansi.Strip(RenderText(units))
}

// RenderImage paints the atlas cell of every match into an image, with the
// cells placed edge to edge.
func RenderImage(grid MatchGrid, atlas *Atlas) (*image.RGBA, error) {
	layout := atlas.layout
	rows, cols := grid.Rows(), grid.Cols()
	img := image.NewRGBA(image.Rect(0, 0, cols*layout.Width, rows*layout.Height))

	for by, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d blocks, expected %d", by, len(row), cols)
		}
		for bx, m := range row {
			if m.Char < 0 || m.Char >= atlas.NumChars() ||
				m.Combo < 0 || m.Combo >= atlas.NumCombinations() {
				return nil, fmt.Errorf("block (%d,%d): index (%d,%d) outside atlas",
					bx, by, m.Char, m.Combo)
			}
			cell := atlas.Cell(m.Char, m.Combo)
			for y := 0; y < layout.Height; y++ {
				dst := img.PixOffset(bx*layout.Width, by*layout.Height+y)
				for x := 0; x < layout.Width; x++ {
					src := (y*layout.Width + x) * 3
					img.Pix[dst] = cell[src]
					img.Pix[dst+1] = cell[src+1]
					img.Pix[dst+2] = cell[src+2]
					img.Pix[dst+3] = 255
					dst += 4
				}
			}
		}
	}
	return img, nil
}
