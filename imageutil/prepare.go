package imageutil

import (
	"fmt"
	"math"
)

const (
	// DefaultBrightness and DefaultContrast are the enhancement factors
	// applied to every source image before resizing.
	DefaultBrightness = 0.7
	DefaultContrast   = 1.5
)

// PrepareOptions configures PrepareForGlyphs.
type PrepareOptions struct {
	// TargetWidth and TargetHeight are in pixels. Zero leaves the
	// dimension to follow the aspect ratio; both zero keeps the source
	// size.
	TargetWidth  int
	TargetHeight int
	// StrideX and StrideY are the block pitch the result must tile into.
	StrideX int
	StrideY int
	// Brightness and Contrast default to DefaultBrightness and
	// DefaultContrast when zero.
	Brightness float64
	Contrast   float64
	Sharpen    bool
}

// TargetSize computes the output size for an image of width x height. A
// target width scales the height by the same factor; a target height then
// rescales both. Each dimension is finally floored to a multiple of its
// stride.
func TargetSize(width, height, targetWidth, targetHeight, strideX, strideY int) (int, int, error) {
	if strideX <= 0 || strideY <= 0 {
		return 0, 0, fmt.Errorf("block stride %dx%d must be positive", strideX, strideY)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("image is empty (%dx%d)", width, height)
	}

	w, h := float64(width), float64(height)
	if targetWidth > 0 {
		factor := float64(targetWidth) / w
		w = float64(targetWidth)
		h = math.RoundToEven(factor * h)
	}
	if targetHeight > 0 {
		factor := float64(targetHeight) / h
		h = float64(targetHeight)
		w = math.RoundToEven(factor * w)
	}

	newWidth := (int(w) / strideX) * strideX
	newHeight := (int(h) / strideY) * strideY
	if newWidth == 0 || newHeight == 0 {
		return 0, 0, fmt.Errorf(
			"image of %dx%d pixels is smaller than one %dx%d block",
			int(w), int(h), strideX, strideY)
	}
	return newWidth, newHeight, nil
}

// PrepareForGlyphs turns a decoded image into the pixel grid the glyph
// matcher expects:
//
//  1. Brightness is scaled down (0.7) and contrast up (1.5)
//  2. The size is derived with TargetSize
//  3. The image is resized with Catmull-Rom interpolation
//  4. Optionally a mild sharpening filter is applied
func PrepareForGlyphs(img *RGBAImage, opts PrepareOptions) (*RGBAImage, error) {
	brightness, contrast := opts.Brightness, opts.Contrast
	if brightness == 0 {
		brightness = DefaultBrightness
	}
	if contrast == 0 {
		contrast = DefaultContrast
	}

	width, height, err := TargetSize(img.Width(), img.Height(),
		opts.TargetWidth, opts.TargetHeight, opts.StrideX, opts.StrideY)
	if err != nil {
		return nil, err
	}

	enhanced := Contrast(Brightness(img, brightness), contrast)
	resized := Resize(enhanced, width, height, FilterCatmullRom)
	if opts.Sharpen {
		resized = Sharpen(resized)
	}
	return resized, nil
}
