package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esimov/cascadet/feature"
	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

// oneStageOneTreeCascade builds the smallest possible HAAR cascade: one
// stage, one tree, a single decision node whose feature is a single
// positively-weighted rectangle. Evaluating it on a solid image of
// value v yields a predictable feature response of exactly v*area
// (variance is zero on a solid image, so norm == 1), which lets the
// node threshold be picked to force either branch deterministically.
func oneStageOneTreeCascade(nodeThreshold float32, stageThreshold float32, leftLeaf, rightLeaf float32) *Cascade {
	return &Cascade{
		FeatureType: HAAR,
		OrigWinSize: geom.Size{W: 10, H: 10},
		Stages: []Stage{
			{FirstTree: 0, TreeCount: 1, Threshold: stageThreshold},
		},
		Trees: []Tree{
			{FirstNode: 0, NodeCount: 1, FirstLeaf: 0},
		},
		Nodes: []Node{
			{FeatureIdx: 0, Left: 0, Right: -1, Threshold: nodeThreshold},
		},
		Leaves: []float32{leftLeaf, rightLeaf},
		HaarFeatures: []feature.HaarFeature{{
			Rects: [3]feature.WeightedRect{
				{R: geom.Rect{X: 2, Y: 2, W: 4, H: 4}, Weight: 1},
			},
		}},
	}
}

func solidWindowImage() *integral.Image {
	rows, cols := 20, 20
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = 50
	}
	return integral.Build(pix, rows, cols, cols, false)
}

func TestEvaluator_RunAt_OutOfBoundsReturnsNegativeOne(t *testing.T) {
	c := oneStageOneTreeCascade(1000, 0, 1, 1)
	e := NewEvaluator(c)
	ii := solidWindowImage()
	assert.True(t, e.SetImage(ii))

	got := e.RunAt(geom.Point{X: -1, Y: 0})
	assert.Equal(t, int32(-1), got)
}

func TestEvaluator_RunAt_PassesAllStages(t *testing.T) {
	// Response for a solid value-50 image over the 4x4 rect is 50*16=800.
	// Threshold well below that sends the walk right, to a leaf value
	// that clears the (low) stage threshold.
	c := oneStageOneTreeCascade(10, 0, -5, 5)
	e := NewEvaluator(c)
	ii := solidWindowImage()
	assert.True(t, e.SetImage(ii))

	got := e.RunAt(geom.Point{X: 0, Y: 0})
	assert.Equal(t, int32(1), got)
}

func TestEvaluator_RunAt_RejectsAtStageZero(t *testing.T) {
	// Same walk, but the stage threshold is now higher than any leaf
	// value the tree can produce, so stage 0 rejects.
	c := oneStageOneTreeCascade(10, 100, -5, 5)
	e := NewEvaluator(c)
	ii := solidWindowImage()
	assert.True(t, e.SetImage(ii))

	got := e.RunAt(geom.Point{X: 0, Y: 0})
	assert.Equal(t, int32(0), got)
}

func TestCascade_Empty(t *testing.T) {
	var c *Cascade
	assert.True(t, c.Empty())

	c = &Cascade{}
	assert.True(t, c.Empty())

	c.Stages = []Stage{{}}
	assert.False(t, c.Empty())
}

func TestCascade_SubsetWords(t *testing.T) {
	assert.Equal(t, 0, (&Cascade{NCategories: 0}).SubsetWords())
	assert.Equal(t, 1, (&Cascade{NCategories: 1}).SubsetWords())
	assert.Equal(t, 1, (&Cascade{NCategories: 32}).SubsetWords())
	assert.Equal(t, 2, (&Cascade{NCategories: 33}).SubsetWords())
}
