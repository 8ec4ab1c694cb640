package cascade

import (
	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

// BoundCascade is a consuming-builder view of a Cascade bound to one
// integral image. It exists so callers can't accidentally call RunAt
// before SetImage has succeeded for the current scale.
type BoundCascade struct {
	eval *Evaluator
}

// Bind builds an Evaluator for c and binds it to ii. It returns (nil,
// false) if ii is smaller than the cascade's training window.
func (c *Cascade) Bind(ii *integral.Image) (*BoundCascade, bool) {
	e := NewEvaluator(c)
	if !e.SetImage(ii) {
		return nil, false
	}
	return &BoundCascade{eval: e}, true
}

// RunAt runs the staged cascade walk at window pt. See Evaluator.RunAt.
func (b *BoundCascade) RunAt(pt geom.Point) int32 {
	return b.eval.RunAt(pt)
}

// HasTilted reports whether the bound cascade needs the 45-degree
// integral image.
func (b *BoundCascade) HasTilted() bool {
	return b.eval.HasTilted()
}
