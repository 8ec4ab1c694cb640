// Package cascade holds the in-memory boosted cascade model — stages,
// weak trees, nodes and leaves in flat parallel arrays — plus the
// short-circuiting evaluator that walks them at one sliding window.
package cascade

import (
	"github.com/esimov/cascadet/feature"
	"github.com/esimov/cascadet/geom"
)

// FeatureType selects the per-node comparison: ordinal (HAAR, threshold
// comparison) or categorical (LBP, subset-bitmask membership).
type FeatureType int

const (
	HAAR FeatureType = iota
	LBP
)

func (t FeatureType) String() string {
	if t == LBP {
		return "LBP"
	}
	return "HAAR"
}

// Node is one decision-tree node. Left/Right use the sign trick: a
// positive child is another node index within the same tree; a
// non-positive child addresses leaf index leafOfs + (-child).
type Node struct {
	FeatureIdx int
	Left       int32
	Right      int32
	Threshold  float32 // HAAR ordinal split
	Subset     []uint32 // LBP categorical bitmask, subsetWords long
}

// Tree is a weak classifier: a contiguous run of NodeCount internal
// nodes starting at FirstNode, with NodeCount+1 leaves starting at
// FirstLeaf. FirstNode/FirstLeaf are absolute indices into the
// cascade's flat Nodes/Leaves arrays, resolved once at load time so the
// evaluator never has to track a running offset while walking stages.
type Tree struct {
	FirstNode uint32
	NodeCount uint32
	FirstLeaf uint32
}

// Stage is a boosted sum of weak trees with a reject threshold.
type Stage struct {
	FirstTree uint32
	TreeCount uint32
	Threshold float32
}

// Cascade is the complete, immutable boosted model.
type Cascade struct {
	FeatureType FeatureType
	OrigWinSize geom.Size
	NCategories uint32

	Stages []Stage
	Trees  []Tree
	Nodes  []Node
	Leaves []float32

	HaarFeatures []feature.HaarFeature
	LBPFeatures  []feature.LBPFeature
}

// Empty reports whether the cascade has no stages, i.e. nothing was ever
// successfully loaded into it.
func (c *Cascade) Empty() bool {
	return c == nil || len(c.Stages) == 0
}

// HasTilted reports whether any Haar feature in the cascade is
// 45-degree tilted, i.e. whether a tilted integral image is needed at
// all before binding an Evaluator.
func (c *Cascade) HasTilted() bool {
	for _, f := range c.HaarFeatures {
		if f.Tilted {
			return true
		}
	}
	return false
}

// SubsetWords is the number of uint32 words in each categorical node's
// subset bitmask: ceil(NCategories/32).
func (c *Cascade) SubsetWords() int {
	if c.NCategories == 0 {
		return 0
	}
	return int((c.NCategories + 31) / 32)
}
