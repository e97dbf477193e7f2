package img2ascii

import (
	"image"
	"image/color"
)

// PixelGrid is an RGB image stored row-major, three bytes per pixel.
type PixelGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelGrid allocates a black grid.
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// PixelGridFromImage copies img into a PixelGrid, dropping alpha. Colors
// are read unpremultiplied.
func PixelGridFromImage(img image.Image) *PixelGrid {
	bounds := img.Bounds()
	grid := NewPixelGrid(bounds.Dx(), bounds.Dy())

	if rgba, ok := img.(*image.RGBA); ok {
		i := 0
		for y := 0; y < grid.Height; y++ {
			row := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < grid.Width; x++ {
				grid.Pix[i] = row[x*4]
				grid.Pix[i+1] = row[x*4+1]
				grid.Pix[i+2] = row[x*4+2]
				i += 3
			}
		}
		return grid
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			grid.Pix[i] = c.R
			grid.Pix[i+1] = c.G
			grid.Pix[i+2] = c.B
			i += 3
		}
	}
	return grid
}

// Set writes the RGB value at (x, y).
func (p *PixelGrid) Set(x, y int, r, g, b uint8) {
	i := (y*p.Width + x) * 3
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = r, g, b
}

// At returns the RGB value at (x, y).
func (p *PixelGrid) At(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// SetBlock copies a Width*Height*3 cell bitmap into the grid with its top
// left corner at (x, y).
func (p *PixelGrid) SetBlock(x, y, width, height int, cell []uint8) {
	for row := 0; row < height; row++ {
		dst := ((y+row)*p.Width + x) * 3
		copy(p.Pix[dst:dst+width*3], cell[row*width*3:(row+1)*width*3])
	}
}
