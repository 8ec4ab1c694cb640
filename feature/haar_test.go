package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

func solidImage(rows, cols int, v uint8) *integral.Image {
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = v
	}
	return integral.Build(pix, rows, cols, cols, false)
}

func TestHaarEvaluator_SetWindow_RejectsOutOfBounds(t *testing.T) {
	ii := solidImage(20, 20, 128)
	e := NewHaarEvaluator(nil)
	win := geom.Size{W: 20, H: 20}
	assert.True(t, e.SetImage(ii, win))

	_, ok := e.SetWindow(geom.Point{X: -1, Y: 0})
	assert.False(t, ok, "negative origin must be rejected")

	_, ok = e.SetWindow(geom.Point{X: 5, Y: 5})
	assert.False(t, ok, "window exceeding the bound image must be rejected")
}

func TestHaarEvaluator_SetImage_RejectsImageOneRowShortOfWindow(t *testing.T) {
	// An image exactly one row/column short of the training window must
	// be rejected outright, not accepted with a truncated window.
	ii := solidImage(9, 10, 128)
	e := NewHaarEvaluator(nil)
	assert.False(t, e.SetImage(ii, geom.Size{W: 10, H: 10}))

	ii = solidImage(10, 9, 128)
	assert.False(t, e.SetImage(ii, geom.Size{W: 10, H: 10}))
}

func TestHaarEvaluator_SetImage_AcceptsImageExactlyWindowSized(t *testing.T) {
	ii := solidImage(10, 10, 128)
	e := NewHaarEvaluator(nil)
	assert.True(t, e.SetImage(ii, geom.Size{W: 10, H: 10}))
}

func TestHaarEvaluator_SetWindow_DegenerateVarianceNormalizesToOne(t *testing.T) {
	// A constant image has zero variance in every window: SetWindow
	// must fall back to norm == 1 rather than divide by zero.
	ii := solidImage(30, 30, 100)
	e := NewHaarEvaluator([]HaarFeature{{
		Rects: [3]WeightedRect{
			{R: geom.Rect{X: 2, Y: 2, W: 4, H: 4}, Weight: 1},
		},
	}})
	win := geom.Size{W: 20, H: 20}
	assert.True(t, e.SetImage(ii, win))

	_, ok := e.SetWindow(geom.Point{X: 1, Y: 1})
	assert.True(t, ok)
	assert.Equal(t, float32(1), e.norm)
}

func TestHaarEvaluator_Evaluate_NormalizesResponse(t *testing.T) {
	pix := make([]uint8, 30*30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			v := 50
			if x >= 15 {
				v = 200
			}
			pix[y*30+x] = uint8(v)
		}
	}
	ii := integral.Build(pix, 30, 30, 30, false)

	e := NewHaarEvaluator([]HaarFeature{{
		Rects: [3]WeightedRect{
			{R: geom.Rect{X: 0, Y: 0, W: 10, H: 10}, Weight: -1},
			{R: geom.Rect{X: 10, Y: 0, W: 10, H: 10}, Weight: 1},
		},
	}})
	win := geom.Size{W: 20, H: 20}
	assert.True(t, e.SetImage(ii, win))

	w, ok := e.SetWindow(geom.Point{X: 0, Y: 0})
	assert.True(t, ok)

	v := e.Evaluate(0, w)
	assert.Greater(t, v, float32(0), "dark-then-bright split should respond positively")
}
