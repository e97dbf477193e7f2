package imageutil

// Blocks returns an image that tiles into exactly cols x rows blocks of
// strideX x strideY pixels. Block (bx, by) is filled with
// colors[(bx+by)%len(colors)]: one color gives a solid image, two a
// checkerboard and a single row of n colors a set of bars.
func Blocks(cols, rows, strideX, strideY int, colors ...RGB) *RGBAImage {
	if len(colors) == 0 {
		colors = []RGB{{}}
	}
	img := NewRGBAImage(cols*strideX, rows*strideY)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			img.SetRGB(x, y, colors[(x/strideX+y/strideY)%len(colors)])
		}
	}
	return img
}

// Fill returns a width x height image of a single color.
func Fill(width, height int, c RGB) *RGBAImage {
	return Blocks(1, 1, width, height, c)
}

// MaxChannelDiff returns the largest difference between any color channel
// of a and b over the area they share.
func MaxChannelDiff(a, b *RGBAImage) int {
	w, h := min(a.Width(), b.Width()), min(a.Height(), b.Height())
	maxDiff := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i, j := a.PixOffset(x, y), b.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				d := int(a.Pix[i+c]) - int(b.Pix[j+c])
				maxDiff = max(maxDiff, d, -d)
			}
		}
	}
	return maxDiff
}
