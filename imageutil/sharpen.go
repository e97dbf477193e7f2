package imageutil

import "math"

// sharpenKernel weights sum to 1, so flat regions pass through unchanged.
var sharpenKernel = [3][3]float64{
	{0, -0.5, 0},
	{-0.5, 3, -0.5},
	{0, -0.5, 0},
}

// Sharpen returns a copy of img with sharpenKernel applied to each color
// channel. Pixels beyond the border repeat the nearest edge pixel.
func Sharpen(img *RGBAImage) *RGBAImage {
	w, h := img.Width(), img.Height()
	dst := NewRGBAImage(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [3]float64
			for ky := -1; ky <= 1; ky++ {
				sy := min(max(y+ky, 0), h-1)
				for kx := -1; kx <= 1; kx++ {
					k := sharpenKernel[ky+1][kx+1]
					if k == 0 {
						continue
					}
					i := img.PixOffset(min(max(x+kx, 0), w-1), sy)
					sum[0] += k * float64(img.Pix[i])
					sum[1] += k * float64(img.Pix[i+1])
					sum[2] += k * float64(img.Pix[i+2])
				}
			}

			o := dst.PixOffset(x, y)
			for c, v := range sum {
				dst.Pix[o+c] = uint8(math.Round(math.Max(0, math.Min(255, v))))
			}
		}
	}
	return dst
}
