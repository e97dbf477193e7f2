// Package imageutil provides the pure Go image handling img2ascii needs:
// decoding, the brightness/contrast enhancement applied before matching,
// resizing to whole character blocks and encoding rendered output.
package imageutil

import (
	"image"
	"image/color"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBAImage is an opaque image.RGBA anchored at the origin. Every stage of
// preparation works on it, so alpha is always 255 and Pix offsets can be
// computed without consulting Bounds.Min.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage returns a black, fully opaque width x height image.
func NewRGBAImage(width, height int) *RGBAImage {
	img := &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// RGBAImageFromImage copies img to the origin and drops its alpha channel.
// Colors are read unpremultiplied, so a transparent pixel keeps the RGB it
// was stored with instead of turning black.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	out := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		o := out.PixOffset(0, y-bounds.Min.Y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[o] = c.R
			out.Pix[o+1] = c.G
			out.Pix[o+2] = c.B
			o += 4
		}
	}
	return out
}

// Width and Height return the image size in pixels.
func (img *RGBAImage) Width() int  { return img.Bounds().Dx() }
func (img *RGBAImage) Height() int { return img.Bounds().Dy() }

// GetRGB returns the color at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the color at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// Clone returns a copy that shares no pixels with img.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}
