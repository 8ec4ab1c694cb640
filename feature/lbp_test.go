package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

func TestLBPEvaluator_Evaluate_CategoryInRange(t *testing.T) {
	pix := make([]uint8, 30*30)
	for i := range pix {
		pix[i] = uint8((i * 37) % 256)
	}
	ii := integral.Build(pix, 30, 30, 30, false)

	e := NewLBPEvaluator([]LBPFeature{{R: geom.Rect{X: 2, Y: 2, W: 3, H: 3}}})
	win := geom.Size{W: 20, H: 20}
	assert.True(t, e.SetImage(ii, win))

	w, ok := e.SetWindow(geom.Point{X: 0, Y: 0})
	assert.True(t, ok)

	cat := e.Evaluate(0, w)
	assert.GreaterOrEqual(t, int(cat), 0)
	assert.Less(t, int(cat), 256)
}

func TestLBPEvaluator_SetImage_RejectsImageOneRowShortOfWindow(t *testing.T) {
	pix := make([]uint8, 9*10)
	ii := integral.Build(pix, 9, 10, 10, false)

	e := NewLBPEvaluator(nil)
	assert.False(t, e.SetImage(ii, geom.Size{W: 10, H: 10}))
}

func TestLBPEvaluator_SetImage_AcceptsImageExactlyWindowSized(t *testing.T) {
	pix := make([]uint8, 10*10)
	ii := integral.Build(pix, 10, 10, 10, false)

	e := NewLBPEvaluator(nil)
	assert.True(t, e.SetImage(ii, geom.Size{W: 10, H: 10}))
}

func TestLBPEvaluator_Evaluate_BrightCenterYieldsZeroCategory(t *testing.T) {
	// A block whose center is brighter than every neighbor must
	// produce category 0: no neighbor block sum reaches the center's.
	rows, cols := 30, 30
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = 10
	}
	// Brighten the 3x3 block tile's center block only.
	blockOrigin, blockSize := 2, 3
	for y := blockOrigin + blockSize; y < blockOrigin+2*blockSize; y++ {
		for x := blockOrigin + blockSize; x < blockOrigin+2*blockSize; x++ {
			pix[y*cols+x] = 250
		}
	}
	ii := integral.Build(pix, rows, cols, cols, false)

	e := NewLBPEvaluator([]LBPFeature{{R: geom.Rect{X: blockOrigin, Y: blockOrigin, W: blockSize, H: blockSize}}})
	win := geom.Size{W: 20, H: 20}
	assert.True(t, e.SetImage(ii, win))

	w, ok := e.SetWindow(geom.Point{X: 0, Y: 0})
	assert.True(t, ok)

	cat := e.Evaluate(0, w)
	assert.Equal(t, uint8(0), cat)
}
