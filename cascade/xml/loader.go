package xml

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/esimov/cascadet/cascade"
	"github.com/esimov/cascadet/feature"
	"github.com/esimov/cascadet/geom"
)

// Load reads and parses an OpenCV-style cascade XML file at path into a
// *cascade.Cascade. Any missing or type-mismatched field fails the load
// and returns an error; no partial cascade is returned.
func Load(path string) (*cascade.Cascade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening cascade file")
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses r into a *cascade.Cascade, per the field mapping:
// stageType must be BOOST, featureType selects HAAR or LBP, width/height
// become the training window, featureParams.maxCatCount becomes
// NCategories, and each stage's weak trees are flattened into the
// cascade's parallel Nodes/Leaves/Trees arrays.
func Decode(r io.Reader) (*cascade.Cascade, error) {
	root, err := parse(r)
	if err != nil {
		return nil, err
	}

	cn := root.findNamed("cascade")
	if cn == nil {
		return nil, errors.New("cascade xml: no <cascade> element found")
	}

	stageType := cn.child("stageType")
	if stageType == nil || stageType.text() != "BOOST" {
		return nil, errors.New("cascade xml: unsupported or missing stageType (want BOOST)")
	}

	featureTypeNode := cn.child("featureType")
	if featureTypeNode == nil {
		return nil, errors.New("cascade xml: missing featureType")
	}
	var featureType cascade.FeatureType
	switch featureTypeNode.text() {
	case "HAAR":
		featureType = cascade.HAAR
	case "LBP":
		featureType = cascade.LBP
	default:
		return nil, errors.Errorf("cascade xml: unknown featureType %q", featureTypeNode.text())
	}

	width, err := requiredInt(cn, "width")
	if err != nil {
		return nil, err
	}
	height, err := requiredInt(cn, "height")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("cascade xml: width/height must be positive")
	}

	featureParams := cn.child("featureParams")
	if featureParams == nil {
		return nil, errors.New("cascade xml: missing featureParams")
	}
	maxCatCount, err := requiredInt(featureParams, "maxCatCount")
	if err != nil {
		return nil, err
	}
	if maxCatCount < 0 {
		return nil, errors.New("cascade xml: maxCatCount must be non-negative")
	}
	ncategories := uint32(maxCatCount)
	subsetWords := 0
	if ncategories > 0 {
		subsetWords = int((ncategories + 31) / 32)
	}
	nodeStep := 3
	if subsetWords > 0 {
		nodeStep += subsetWords
	} else {
		nodeStep++
	}

	stagesNode := cn.child("stages")
	if stagesNode == nil {
		return nil, errors.New("cascade xml: missing stages")
	}

	c := &cascade.Cascade{
		FeatureType: featureType,
		OrigWinSize: geom.Size{W: int(width), H: int(height)},
		NCategories: ncategories,
	}

	stageEntries := stagesNode.children("_")
	for _, stageEl := range stageEntries {
		stage := cascade.Stage{FirstTree: uint32(len(c.Trees))}

		threshold, err := requiredFloat(&stageEl, "stageThreshold")
		if err != nil {
			return nil, err
		}
		stage.Threshold = float32(threshold)

		weak := stageEl.child("weakClassifiers")
		if weak == nil {
			return nil, errors.New("cascade xml: stage missing weakClassifiers")
		}
		trees := weak.children("_")
		if len(trees) == 0 {
			return nil, errors.New("cascade xml: stage has zero weak trees")
		}
		stage.TreeCount = uint32(len(trees))

		for _, treeEl := range trees {
			internal := treeEl.child("internalNodes")
			leaf := treeEl.child("leafValues")
			if internal == nil || leaf == nil {
				return nil, errors.New("cascade xml: weak tree missing internalNodes/leafValues")
			}

			flat, err := numbers(internal.text())
			if err != nil {
				return nil, errors.Wrap(err, "cascade xml: parsing internalNodes")
			}
			if len(flat)%nodeStep != 0 {
				return nil, errors.Errorf("cascade xml: internalNodes length %d not a multiple of node step %d", len(flat), nodeStep)
			}
			nodeCount := len(flat) / nodeStep
			if nodeCount == 0 {
				return nil, errors.New("cascade xml: weak tree has zero nodes")
			}

			leafValues, err := numbers(leaf.text())
			if err != nil {
				return nil, errors.Wrap(err, "cascade xml: parsing leafValues")
			}
			if len(leafValues) != nodeCount+1 {
				return nil, errors.Errorf("cascade xml: leaf count %d != nodeCount+1 (%d)", len(leafValues), nodeCount+1)
			}

			tree := cascade.Tree{
				FirstNode: uint32(len(c.Nodes)),
				NodeCount: uint32(nodeCount),
				FirstLeaf: uint32(len(c.Leaves)),
			}

			for i := 0; i < nodeCount; i++ {
				base := i * nodeStep
				n := cascade.Node{
					Left:       int32(flat[base+0]),
					Right:      int32(flat[base+1]),
					FeatureIdx: int(flat[base+2]),
				}
				if subsetWords > 0 {
					n.Subset = make([]uint32, subsetWords)
					for j := 0; j < subsetWords; j++ {
						n.Subset[j] = uint32(int64(flat[base+3+j]))
					}
				} else {
					n.Threshold = float32(flat[base+3])
				}
				c.Nodes = append(c.Nodes, n)
			}
			for _, lv := range leafValues {
				c.Leaves = append(c.Leaves, float32(lv))
			}

			c.Trees = append(c.Trees, tree)
		}

		c.Stages = append(c.Stages, stage)
	}

	featuresNode := cn.child("features")
	if featuresNode == nil {
		return nil, errors.New("cascade xml: missing features")
	}
	featureEntries := featuresNode.children("_")
	if len(featureEntries) == 0 {
		return nil, errors.New("cascade xml: zero features")
	}

	switch featureType {
	case cascade.HAAR:
		feats, err := parseHaarFeatures(featureEntries)
		if err != nil {
			return nil, err
		}
		c.HaarFeatures = feats
	case cascade.LBP:
		feats, err := parseLBPFeatures(featureEntries)
		if err != nil {
			return nil, err
		}
		c.LBPFeatures = feats
	}

	logCascadeLoaded(c)
	return c, nil
}

func parseHaarFeatures(entries []node) ([]feature.HaarFeature, error) {
	out := make([]feature.HaarFeature, 0, len(entries))
	for _, fe := range entries {
		rectsNode := fe.child("rects")
		if rectsNode == nil {
			return nil, errors.New("cascade xml: haar feature missing rects")
		}
		rectEntries := rectsNode.children("_")
		if len(rectEntries) < 1 || len(rectEntries) > 3 {
			return nil, errors.Errorf("cascade xml: haar feature has %d rects, want 1-3", len(rectEntries))
		}

		var hf feature.HaarFeature
		for i, re := range rectEntries {
			vals, err := numbers(re.text())
			if err != nil || len(vals) != 5 {
				return nil, errors.New("cascade xml: malformed haar rect, want \"x y w h weight\"")
			}
			hf.Rects[i] = feature.WeightedRect{
				R:      geom.Rect{X: int(vals[0]), Y: int(vals[1]), W: int(vals[2]), H: int(vals[3])},
				Weight: float32(vals[4]),
			}
		}

		tiltedNode := fe.child("tilted")
		if tiltedNode != nil {
			v, err := tiltedNode.int64()
			if err != nil {
				return nil, errors.Wrap(err, "cascade xml: parsing tilted flag")
			}
			hf.Tilted = v != 0
		}

		out = append(out, hf)
	}
	return out, nil
}

func parseLBPFeatures(entries []node) ([]feature.LBPFeature, error) {
	out := make([]feature.LBPFeature, 0, len(entries))
	for _, fe := range entries {
		rectNode := fe.child("rect")
		if rectNode == nil {
			return nil, errors.New("cascade xml: lbp feature missing rect")
		}
		vals, err := numbers(rectNode.text())
		if err != nil || len(vals) != 4 {
			return nil, errors.New("cascade xml: malformed lbp rect, want \"x y w h\"")
		}
		out = append(out, feature.LBPFeature{
			R: geom.Rect{X: int(vals[0]), Y: int(vals[1]), W: int(vals[2]), H: int(vals[3])},
		})
	}
	return out, nil
}

func requiredInt(n *node, name string) (int64, error) {
	c := n.child(name)
	if c == nil {
		return 0, errors.Errorf("cascade xml: missing required field %q", name)
	}
	v, err := c.int64()
	if err != nil {
		return 0, errors.Wrapf(err, "cascade xml: field %q is not an integer", name)
	}
	return v, nil
}

func requiredFloat(n *node, name string) (float64, error) {
	c := n.child(name)
	if c == nil {
		return 0, errors.Errorf("cascade xml: missing required field %q", name)
	}
	v, err := c.float64()
	if err != nil {
		return 0, errors.Wrapf(err, "cascade xml: field %q is not a number", name)
	}
	return v, nil
}

func logCascadeLoaded(c *cascade.Cascade) {
	log.Debug().
		Str("featureType", c.FeatureType.String()).
		Int("stages", len(c.Stages)).
		Int("trees", len(c.Trees)).
		Int("winW", c.OrigWinSize.W).
		Int("winH", c.OrigWinSize.H).
		Uint32("ncategories", c.NCategories).
		Msg("cascade loaded")
}
