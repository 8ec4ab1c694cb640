// Package integral builds integral images and precomputes the corner
// offsets ("IntegralPtrs" in the original design) that turn a rectangle
// sum query into three adds against the integral buffer.
package integral

import "github.com/esimov/cascadet/geom"

// Image holds the cumulative sum tables for one grayscale frame.
// Sum and SqSum have dimensions (Rows+1, Cols+1); row 0 and column 0 are
// always zero. Tilted is built lazily, only when a cascade uses at least
// one 45-degree rotated Haar feature.
type Image struct {
	Sum    []int32
	SqSum  []float64
	Tilted []int32

	Rows, Cols int
	Step       int // row stride of Sum/SqSum/Tilted, i.e. Cols+1
}

// Build computes the upright integral image (and, if withTilted is set,
// the 45-degree rotated one) from 8-bit grayscale pixels. This is the
// "integral-image computation" primitive: a plain cumulative sum, not
// part of the feature-evaluation contract itself.
func Build(pix []uint8, rows, cols, stride int, withTilted bool) *Image {
	step := cols + 1
	ii := &Image{
		Sum:   make([]int32, (rows+1)*step),
		SqSum: make([]float64, (rows+1)*step),
		Rows:  rows,
		Cols:  cols,
		Step:  step,
	}

	for y := 0; y < rows; y++ {
		var rowSum int32
		var rowSqSum float64
		srcRow := y * stride
		sumRow := (y + 1) * step
		prevSumRow := y * step
		for x := 0; x < cols; x++ {
			v := int32(pix[srcRow+x])
			rowSum += v
			rowSqSum += float64(v) * float64(v)
			ii.Sum[sumRow+x+1] = ii.Sum[prevSumRow+x+1] + rowSum
			ii.SqSum[sumRow+x+1] = ii.SqSum[prevSumRow+x+1] + rowSqSum
		}
	}

	if withTilted {
		ii.Tilted = buildTilted(pix, rows, cols, stride)
	}
	return ii
}

// buildTilted computes the 45-degree rotated integral image used by
// tilted Haar features. Tilted[y][x] holds T(x,y), the sum of every
// pixel (px,py) with py < y and |x-px| < y-py: the upward-opening cone
// with apex (x,y). That region is exactly an axis-aligned rectangle
// under the 45-degree coordinate change u=px+py, v=px-py, so it is
// built as an ordinary 2D prefix sum over (u,v) space rather than the
// narrow row-to-row recurrence: the direct recurrence needs tilted
// values one column outside the table at every row, which only a
// (rows+cols)-wide buffer can hold without re-deriving the same
// coordinate transform, so this goes straight to the transform.
func buildTilted(pix []uint8, rows, cols, stride int) []int32 {
	uMax := rows + cols - 2
	vShift := rows - 1
	vCount := rows + cols - 1 // v = x-y shifted into [0, vCount)

	// G is the 2D prefix sum of pixel mass in (u,v) space, one larger
	// in each dimension than the value range so Gq never needs a
	// boundary special case beyond clamping to valid indices.
	gStep := vCount + 1
	g := make([]int32, (uMax+2)*gStep)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			u := x + y
			v := x - y + vShift
			g[(u+1)*gStep+(v+1)] += int32(pix[y*stride+x])
		}
	}
	for u := 0; u <= uMax+1; u++ {
		row := u * gStep
		prevRow := (u - 1) * gStep
		for v := 0; v <= vCount; v++ {
			above := int32(0)
			if u > 0 {
				above = g[prevRow+v]
			}
			left := int32(0)
			if v > 0 {
				left = g[row+v-1]
			}
			diag := int32(0)
			if u > 0 && v > 0 {
				diag = g[prevRow+v-1]
			}
			g[row+v] += above + left - diag
		}
	}

	gq := func(u, v int) int32 {
		if u < 0 || v < 0 {
			return 0
		}
		if u > uMax {
			u = uMax
		}
		if v >= vCount {
			v = vCount - 1
		}
		return g[(u+1)*gStep+(v+1)]
	}

	outStep := cols + 1
	out := make([]int32, (rows+1)*outStep)
	for y := 0; y <= rows; y++ {
		for x := 0; x <= cols; x++ {
			u0 := x + y
			v0 := x - y + vShift
			out[y*outStep+x] = gq(u0-1, vCount-1) - gq(u0-1, v0)
		}
	}
	return out
}

// Offsets computes the four base offsets p0..p3 into an upright integral
// buffer with the given row stride, such that the rectangle sum at window
// offset W is Sum[p0+W] - Sum[p1+W] - Sum[p2+W] + Sum[p3+W].
func Offsets(r geom.Rect, step int) [4]int {
	return [4]int{
		r.X + step*r.Y,
		r.X + r.W + step*r.Y,
		r.X + step*(r.Y+r.H),
		r.X + r.W + step*(r.Y+r.H),
	}
}

// TiltedOffsets computes the four base offsets into a 45-degree rotated
// integral buffer for a tilted Haar sub-rectangle.
func TiltedOffsets(r geom.Rect, step int) [4]int {
	return [4]int{
		r.X + step*r.Y,
		r.X - r.H + step*(r.Y+r.H),
		r.X + r.W + step*(r.Y+r.W),
		r.X + r.W - r.H + step*(r.Y+r.W+r.H),
	}
}

// RectSum evaluates the precomputed corner offsets against the integral
// buffer at window origin w: buf[p0+w] - buf[p1+w] - buf[p2+w] + buf[p3+w].
func RectSum(buf []int32, p [4]int, w int) int32 {
	return buf[p[0]+w] - buf[p[1]+w] - buf[p[2]+w] + buf[p[3]+w]
}

// RectSumF is RectSum over the float64 square-sum buffer.
func RectSumF(buf []float64, p [4]int, w int) float64 {
	return buf[p[0]+w] - buf[p[1]+w] - buf[p[2]+w] + buf[p[3]+w]
}
