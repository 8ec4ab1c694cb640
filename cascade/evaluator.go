package cascade

import (
	"github.com/esimov/cascadet/feature"
	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

// Evaluator binds a Cascade to one integral image (one pyramid scale)
// and runs the staged decision-tree walk at each candidate window. It is
// not safe to share across goroutines: SetWindow mutates evaluator state
// and the feature offset tables are rebased per scale.
type Evaluator struct {
	cascade *Cascade

	haar *feature.HaarEvaluator
	lbp  *feature.LBPEvaluator
}

// NewEvaluator creates an Evaluator for cascade c. Call SetImage once per
// scale before RunAt.
func NewEvaluator(c *Cascade) *Evaluator {
	e := &Evaluator{cascade: c}
	switch c.FeatureType {
	case HAAR:
		e.haar = feature.NewHaarEvaluator(c.HaarFeatures)
	case LBP:
		e.lbp = feature.NewLBPEvaluator(c.LBPFeatures)
	}
	return e
}

// HasTilted reports whether the bound cascade needs a tilted integral
// image (HAAR only).
func (e *Evaluator) HasTilted() bool {
	return e.haar != nil && e.haar.HasTilted()
}

// SetImage rebinds the evaluator to a new integral image for the current
// pyramid scale. It reports false when the image is smaller than the
// cascade's training window.
func (e *Evaluator) SetImage(ii *integral.Image) bool {
	switch e.cascade.FeatureType {
	case HAAR:
		return e.haar.SetImage(ii, e.cascade.OrigWinSize)
	case LBP:
		return e.lbp.SetImage(ii, e.cascade.OrigWinSize)
	}
	return false
}

// setWindow validates pt against the bound image and returns the
// window's base pixel offset.
func (e *Evaluator) setWindow(pt geom.Point) (int, bool) {
	switch e.cascade.FeatureType {
	case HAAR:
		return e.haar.SetWindow(pt)
	case LBP:
		return e.lbp.SetWindow(pt)
	}
	return 0, false
}

// RunAt evaluates every stage at window pt, short-circuiting at the
// first rejecting stage. It returns -1 if pt is outside the bound image;
// -k if stage k (0-indexed) rejected the window after stages 0..k-1
// passed; or +1 if every stage passed.
func (e *Evaluator) RunAt(pt geom.Point) int32 {
	w, ok := e.setWindow(pt)
	if !ok {
		return -1
	}

	isHaar := e.cascade.FeatureType == HAAR

	for si, stage := range e.cascade.Stages {
		var stageSum float32
		for ti := stage.FirstTree; ti < stage.FirstTree+stage.TreeCount; ti++ {
			tree := &e.cascade.Trees[ti]
			idx := int32(0) // current node index within the tree, relative to FirstNode

			for {
				node := &e.cascade.Nodes[tree.FirstNode+uint32(idx)]

				var goLeft bool
				if isHaar {
					v := e.haar.Evaluate(node.FeatureIdx, w)
					goLeft = v < node.Threshold
				} else {
					c := e.lbp.Evaluate(node.FeatureIdx, w)
					goLeft = node.Subset[c>>5]&(1<<(uint32(c)&31)) != 0
				}

				child := node.Right
				if goLeft {
					child = node.Left
				}

				if child > 0 {
					idx = child
					continue
				}
				stageSum += e.cascade.Leaves[tree.FirstLeaf+uint32(-child)]
				break
			}
		}

		if stageSum < stage.Threshold {
			return -int32(si)
		}
	}
	return 1
}
