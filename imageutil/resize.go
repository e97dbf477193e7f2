package imageutil

import (
	"golang.org/x/image/draw"
)

// Filter selects the resampling kernel used by Resize.
type Filter int

const (
	// FilterCatmullRom is the bicubic filter source images are resampled
	// with before matching.
	FilterCatmullRom Filter = iota

	// FilterNearest copies the nearest source pixel, keeping glyph edges
	// hard when rendered output is enlarged.
	FilterNearest
)

// Resize returns img scaled to width x height.
func Resize(img *RGBAImage, width, height int, filter Filter) *RGBAImage {
	var scaler draw.Scaler = draw.CatmullRom
	if filter == FilterNearest {
		scaler = draw.NearestNeighbor
	}

	dst := NewRGBAImage(width, height)
	scaler.Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// Enlarge scales img up by an integer factor with FilterNearest. Factors
// below 2 return img unchanged.
func Enlarge(img *RGBAImage, factor int) *RGBAImage {
	if factor < 2 {
		return img
	}
	return Resize(img, img.Width()*factor, img.Height()*factor, FilterNearest)
}
