package imageutil

// blendChannel interpolates from base toward v by factor, truncating and
// clamping to a byte. Factors above 1 extrapolate past v.
func blendChannel(base, v uint8, factor float64) uint8 {
	out := float64(base) + factor*(float64(v)-float64(base))
	if out <= 0 {
		return 0
	}
	if out >= 255 {
		return 255
	}
	return uint8(out)
}

// blendTowards returns a copy of img with every channel blended from the
// constant base toward the original value.
func blendTowards(img *RGBAImage, base uint8, factor float64) *RGBAImage {
	dst := img.Clone()
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = blendChannel(base, dst.Pix[i], factor)
		dst.Pix[i+1] = blendChannel(base, dst.Pix[i+1], factor)
		dst.Pix[i+2] = blendChannel(base, dst.Pix[i+2], factor)
	}
	return dst
}

// Brightness scales the image toward black. A factor of 1 returns an
// unchanged copy, 0 a black image.
func Brightness(img *RGBAImage, factor float64) *RGBAImage {
	return blendTowards(img, 0, factor)
}

// Contrast scales every channel away from the image's mean luminance. A
// factor of 1 returns an unchanged copy, 0 a flat gray image.
func Contrast(img *RGBAImage, factor float64) *RGBAImage {
	return blendTowards(img, MeanLuminance(img), factor)
}
