package imageutil

import "image"

// ToGrayscale returns the luma of every pixel, computed the way the mean
// used by Contrast is.
func ToGrayscale(img *RGBAImage) *image.Gray {
	gray := image.NewGray(img.Bounds())
	for i, j := 0, 0; i+3 < len(img.Pix); i, j = i+4, j+1 {
		gray.Pix[j] = luminance(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
	}
	return gray
}

// MeanLuminance returns the average luma of the image, rounded to the
// nearest integer.
func MeanLuminance(img *RGBAImage) uint8 {
	gray := ToGrayscale(img)
	if len(gray.Pix) == 0 {
		return 0
	}

	var sum uint64
	for _, v := range gray.Pix {
		sum += uint64(v)
	}
	n := uint64(len(gray.Pix))
	return uint8((sum + n/2) / n)
}

// luminance is ITU-R 601-2 luma in 16.16 fixed point, truncated. The
// weights sum to 1<<16 so white maps to exactly 255.
func luminance(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}
