// Package geom holds the small integer geometry types shared across the
// detector: rectangles, sizes and window-origin points.
package geom

import "github.com/esimov/cascadet/utils"

// Rect is an axis-aligned rectangle in image coordinates.
type Rect struct {
	X, Y, W, H int
}

// Area returns W*H.
func (r Rect) Area() int {
	return r.W * r.H
}

// Size is a positive (width, height) pair.
type Size struct {
	W, H int
}

// Point is a sliding-window top-left origin in the scaled image.
type Point struct {
	X, Y int
}

// Similar reports whether r and o are close enough, relative to eps, to be
// considered the same detection for grouping purposes. Matches the
// SimilarRects predicate from the legacy cascade detector: two rects are
// similar when all four corner deltas fall within
// eps*(min(w1,w2)+min(h1,h2))/2.
func Similar(r, o Rect, eps float64) bool {
	delta := eps * float64(utils.Min(r.W, o.W)+utils.Min(r.H, o.H)) / 2
	return float64(utils.Abs(r.X-o.X)) <= delta &&
		float64(utils.Abs(r.Y-o.Y)) <= delta &&
		float64(utils.Abs((r.X+r.W)-(o.X+o.W))) <= delta &&
		float64(utils.Abs((r.Y+r.H)-(o.Y+o.H))) <= delta
}
