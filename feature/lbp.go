package feature

import (
	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

// LBPFeature is a 3x3 tiling of equal-sized blocks; R is the block
// origin and block size (R.W, R.H give one block's width/height, so the
// full 3x3 tile spans 3*R.W by 3*R.H pixels from R.X, R.Y).
type LBPFeature struct {
	R   geom.Rect
	ofs [16]int
}

// LBPEvaluator binds LBP features to one integral image at a time and
// evaluates each as an 8-bit category per window.
type LBPEvaluator struct {
	Features []LBPFeature

	ii          *integral.Image
	origWinSize geom.Size
}

// NewLBPEvaluator wraps a copy of a set of already-parsed LBP features,
// so the per-scale offsets SetImage writes stay private to this
// evaluator.
func NewLBPEvaluator(features []LBPFeature) *LBPEvaluator {
	own := make([]LBPFeature, len(features))
	copy(own, features)
	return &LBPEvaluator{Features: own}
}

// SetImage rebinds the evaluator to a freshly built integral image (LBP
// needs only the upright Sum table, never SqSum or Tilted) and derives
// the 16 corner offsets of the implied 4x4 sample grid for each feature.
func (e *LBPEvaluator) SetImage(ii *integral.Image, origWinSize geom.Size) bool {
	if ii.Rows < origWinSize.H || ii.Cols < origWinSize.W {
		return false
	}
	e.ii = ii
	e.origWinSize = origWinSize

	for i := range e.Features {
		f := &e.Features[i]
		bw, bh := f.R.W, f.R.H
		// 4x4 grid of sample points spaced one block apart, i.e. the
		// corners of the 3x3 block tiling plus its outer border.
		var pts [16]int
		k := 0
		for gy := 0; gy < 4; gy++ {
			for gx := 0; gx < 4; gx++ {
				x := f.R.X + gx*bw
				y := f.R.Y + gy*bh
				pts[k] = x + ii.Step*y
				k++
			}
		}
		f.ofs = pts
	}
	return true
}

// SetWindow validates pt and returns the window's pixel offset, as
// HaarEvaluator.SetWindow does (LBP has no variance normalization).
func (e *LBPEvaluator) SetWindow(pt geom.Point) (int, bool) {
	if pt.X < 0 || pt.Y < 0 ||
		pt.X+e.origWinSize.W >= e.ii.Cols-2 ||
		pt.Y+e.origWinSize.H >= e.ii.Rows-2 {
		return 0, false
	}
	return pt.Y*e.ii.Step + pt.X, true
}

// block returns the sum of the block whose top-left corner is grid cell
// (gx,gy) in the 4x4 sample grid (0..2 in each axis addresses one of the
// 9 blocks of the 3x3 tiling).
func block(sum []int32, pts [16]int, w, gx, gy int) int32 {
	tl := pts[gy*4+gx]
	tr := pts[gy*4+gx+1]
	bl := pts[(gy+1)*4+gx]
	br := pts[(gy+1)*4+gx+1]
	return sum[br+w] - sum[bl+w] - sum[tr+w] + sum[tl+w]
}

// Evaluate computes the 8-bit LBP category of feature idx at window
// offset w: bit 7 (MSB) is the top-left neighbor, then clockwise around
// the center block, ending with bit 0 at the left neighbor.
func (e *LBPEvaluator) Evaluate(idx int, w int) uint8 {
	f := &e.Features[idx]
	sum := e.ii.Sum

	center := block(sum, f.ofs, w, 1, 1)

	neighbors := [8][2]int{
		{0, 0}, // top-left    -> bit 7
		{1, 0}, // top         -> bit 6
		{2, 0}, // top-right   -> bit 5
		{2, 1}, // right       -> bit 4
		{2, 2}, // bottom-right-> bit 3
		{1, 2}, // bottom      -> bit 2
		{0, 2}, // bottom-left -> bit 1
		{0, 1}, // left        -> bit 0
	}

	var cat uint8
	for i, n := range neighbors {
		if block(sum, f.ofs, w, n[0], n[1]) >= center {
			cat |= 1 << uint(7-i)
		}
	}
	return cat
}
