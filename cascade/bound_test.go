package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

func TestCascade_Bind_RejectsTooSmallImage(t *testing.T) {
	c := oneStageOneTreeCascade(10, 0, -5, 5)
	rows, cols := 5, 5
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = 50
	}
	ii := integral.Build(pix, rows, cols, cols, false)

	bound, ok := c.Bind(ii)
	assert.False(t, ok)
	assert.Nil(t, bound)
}

func TestCascade_Bind_RunAtMatchesDirectEvaluator(t *testing.T) {
	c := oneStageOneTreeCascade(10, 0, -5, 5)
	ii := solidWindowImage()

	bound, ok := c.Bind(ii)
	assert.True(t, ok)

	got := bound.RunAt(geom.Point{X: 0, Y: 0})
	assert.Equal(t, int32(1), got)
	assert.False(t, bound.HasTilted())
}
