// Package feature implements the two window-evaluation strategies a
// cascade stage can be built from: Haar-like rectangle sums (with
// variance normalization) and Local Binary Pattern block comparisons.
// Both evaluators are stateful per the legacy "bound image" design: one
// instance is rebuilt per pyramid scale via SetImage, then SetWindow is
// called once per candidate window before Evaluate.
package feature

import (
	"github.com/chewxy/math32"

	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

// WeightedRect is one sub-rectangle of a Haar feature. A zero Weight
// marks an unused slot in features with fewer than 3 sub-rectangles.
type WeightedRect struct {
	R      geom.Rect
	Weight float32
}

// HaarFeature is a 2- or 3-rectangle Haar-like feature, optionally
// 45-degree tilted.
type HaarFeature struct {
	Tilted bool
	Rects  [3]WeightedRect
	ofs    [3][4]int
}

// HaarEvaluator binds Haar features to one integral image at a time and
// evaluates variance-normalized feature responses per window.
type HaarEvaluator struct {
	Features []HaarFeature

	ii          *integral.Image
	origWinSize geom.Size

	normOfs  [4]int // shared by Sum and SqSum: both integral buffers share layout
	normArea float64

	norm float32
}

// NewHaarEvaluator wraps a copy of a set of already-parsed Haar
// features, so the per-scale offsets SetImage writes stay private to
// this evaluator.
func NewHaarEvaluator(features []HaarFeature) *HaarEvaluator {
	own := make([]HaarFeature, len(features))
	copy(own, features)
	return &HaarEvaluator{Features: own}
}

// HasTilted reports whether any feature needs the 45-degree integral.
func (e *HaarEvaluator) HasTilted() bool {
	for _, f := range e.Features {
		if f.Tilted {
			return true
		}
	}
	return false
}

// SetImage rebinds the evaluator to a freshly built integral image sized
// for orig_win_size and recomputes every feature's corner offsets.
// It reports false if the image is smaller than the training window.
func (e *HaarEvaluator) SetImage(ii *integral.Image, origWinSize geom.Size) bool {
	if ii.Rows < origWinSize.H || ii.Cols < origWinSize.W {
		return false
	}
	e.ii = ii
	e.origWinSize = origWinSize

	normRect := geom.Rect{X: 1, Y: 1, W: origWinSize.W - 2, H: origWinSize.H - 2}
	e.normOfs = integral.Offsets(normRect, ii.Step)
	e.normArea = float64(normRect.Area())

	for i := range e.Features {
		f := &e.Features[i]
		buf := ii.Step
		for r := 0; r < 3; r++ {
			if f.Rects[r].Weight == 0 {
				f.ofs[r] = [4]int{}
				continue
			}
			if f.Tilted {
				f.ofs[r] = integral.TiltedOffsets(f.Rects[r].R, buf)
			} else {
				f.ofs[r] = integral.Offsets(f.Rects[r].R, buf)
			}
		}
	}
	return true
}

// SetWindow validates pt against the bound image's bounds and computes
// the variance-normalization factor for the window. It returns the pixel
// offset to pass to Evaluate and true on success; on rejection it returns
// (0, false). Note this returns the offset on the pass path, unlike the
// historical C++ overload which returned a bare boolean there — the
// offset is what every caller actually needs.
func (e *HaarEvaluator) SetWindow(pt geom.Point) (int, bool) {
	if pt.X < 0 || pt.Y < 0 ||
		pt.X+e.origWinSize.W >= e.ii.Cols-2 ||
		pt.Y+e.origWinSize.H >= e.ii.Rows-2 {
		return 0, false
	}
	w := pt.Y*e.ii.Step + pt.X

	valSum := integral.RectSum(e.ii.Sum, e.normOfs, w)
	valSqSum := integral.RectSumF(e.ii.SqSum, e.normOfs, w)

	variance := e.normArea*valSqSum - float64(valSum)*float64(valSum)
	if variance > 0 {
		e.norm = 1 / math32.Sqrt(float32(variance))
	} else {
		e.norm = 1
	}
	return w, true
}

// Evaluate computes the variance-normalized response of feature idx at
// the window offset w returned by SetWindow.
func (e *HaarEvaluator) Evaluate(idx int, w int) float32 {
	f := &e.Features[idx]
	var buf []int32
	if f.Tilted {
		buf = e.ii.Tilted
	} else {
		buf = e.ii.Sum
	}

	var value float32
	for r := 0; r < 3; r++ {
		wr := f.Rects[r]
		if wr.Weight == 0 {
			continue
		}
		value += wr.Weight * float32(integral.RectSum(buf, f.ofs[r], w))
	}
	return value * e.norm
}
