package img2ascii

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MatchIndex identifies the atlas cell chosen for one block, along with
// its L1 distance to the block.
type MatchIndex struct {
	Char     int
	Combo    int
	Distance int
}

// MatchGrid holds one MatchIndex per block, row-major.
type MatchGrid [][]MatchIndex

// Rows returns the number of block rows.
func (m MatchGrid) Rows() int { return len(m) }

// Cols returns the number of blocks per row.
func (m MatchGrid) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// MatchOptions configures Match. Block size comes from the atlas layout;
// the gaps are taken from here so one atlas can be reused with different
// sampling strides.
type MatchOptions struct {
	XGap, YGap int
	// Workers bounds the number of block rows matched concurrently;
	// <= 0 uses runtime.NumCPU().
	Workers int
}

// blockDistance returns the sum of absolute byte differences between the
// block at byte offset off in grid (with row stride rowBytes) and cell.
func blockDistance(grid []uint8, off, rowBytes int, cell []uint8, width, height int) int {
	lineBytes := width * 3
	dist := 0
	for y := 0; y < height; y++ {
		src := grid[off+y*rowBytes : off+y*rowBytes+lineBytes]
		ref := cell[y*lineBytes : (y+1)*lineBytes]
		for i, v := range src {
			d := int(v) - int(ref[i])
			if d < 0 {
				d = -d
			}
			dist += d
		}
	}
	return dist
}

// MatchBlock finds the atlas cell closest to the block whose top left
// corner is at (x, y). Cells are scanned character by character, and
// within a character combination by combination; the first cell with the
// lowest distance wins.
func MatchBlock(grid *PixelGrid, x, y int, atlas *Atlas) MatchIndex {
	layout := atlas.layout
	rowBytes := grid.Width * 3
	off := y*rowBytes + x*3

	best := MatchIndex{Distance: math.MaxInt}
	for c := 0; c < atlas.NumChars(); c++ {
		for k := 0; k < atlas.NumCombinations(); k++ {
			d := blockDistance(grid.Pix, off, rowBytes, atlas.Cell(c, k),
				layout.Width, layout.Height)
			if d < best.Distance {
				best = MatchIndex{Char: c, Combo: k, Distance: d}
			}
		}
	}
	return best
}

// checkShape verifies that grid tiles exactly into blocks of the given
// stride.
func checkShape(grid *PixelGrid, strideX, strideY int) error {
	mismatch := func(reason string) error {
		return &ShapeMismatchError{
			Width: grid.Width, Height: grid.Height,
			StrideX: strideX, StrideY: strideY,
			Reason: reason,
		}
	}
	switch {
	case grid.Width <= 0 || grid.Height <= 0:
		return mismatch("grid is empty")
	case len(grid.Pix) != grid.Width*grid.Height*3:
		return mismatch("pixel buffer length does not match dimensions")
	case grid.Width%strideX != 0:
		return mismatch("width is not a multiple of the horizontal stride")
	case grid.Height%strideY != 0:
		return mismatch("height is not a multiple of the vertical stride")
	}
	return nil
}

// Match tiles grid into blocks and matches every block against the atlas.
// Rows of blocks are matched concurrently; each worker fills only its own
// row, so the result is identical to a sequential scan.
func Match(ctx context.Context, grid *PixelGrid, atlas *Atlas, opts MatchOptions) (MatchGrid, error) {
	if atlas == nil || atlas.NumChars() == 0 || atlas.NumCombinations() == 0 {
		return nil, configErrorf("atlas is empty")
	}
	if opts.XGap < 0 || opts.YGap < 0 {
		return nil, configErrorf("gaps %d,%d must not be negative", opts.XGap, opts.YGap)
	}
	strideX := atlas.layout.Width + opts.XGap
	strideY := atlas.layout.Height + opts.YGap
	if err := checkShape(grid, strideX, strideY); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rows, cols := grid.Height/strideY, grid.Width/strideX
	result := make(MatchGrid, rows)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for by := 0; by < rows; by++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := make([]MatchIndex, cols)
			for bx := 0; bx < cols; bx++ {
				row[bx] = MatchBlock(grid, bx*strideX, by*strideY, atlas)
			}
			result[by] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
