package detect

import (
	"github.com/esimov/cascadet/detect/unionfind"
	"github.com/esimov/cascadet/geom"
)

// GroupRectangles partitions rects into equivalence classes under
// geom.Similar(_, _, eps), averages each class, and discards any class
// with minNeighbors or fewer members. Output order is the order in
// which surviving classes were first populated; callers must not depend
// on it. Grounded on cvcascadedetect.cpp's SimilarRects/partition/
// groupRectangles (union-find over a similarity predicate), not on the
// IoU-clustering alternative used by pigo's ClusterDetections.
func GroupRectangles(rects []geom.Rect, minNeighbors int, eps float64) []geom.Rect {
	if len(rects) == 0 {
		return nil
	}
	if minNeighbors < 0 {
		minNeighbors = 0
	}

	labels, classCount := unionfind.BuildClasses(len(rects), func(i, j int) bool {
		return geom.Similar(rects[i], rects[j], eps)
	})

	type acc struct {
		sumX, sumY, sumW, sumH int
		count                  int
		firstSeen              int
	}
	classes := make([]acc, classCount)
	for i := range classes {
		classes[i].firstSeen = -1
	}

	for i, r := range rects {
		c := &classes[labels[i]]
		c.sumX += r.X
		c.sumY += r.Y
		c.sumW += r.W
		c.sumH += r.H
		c.count++
		if c.firstSeen == -1 {
			c.firstSeen = i
		}
	}

	// Preserve first-populated order rather than label-numeric order,
	// since labels are assigned in that same order already.
	out := make([]geom.Rect, 0, classCount)
	for _, c := range classes {
		if c.count <= minNeighbors {
			continue
		}
		n := float64(c.count)
		out = append(out, geom.Rect{
			X: roundHalfAwayFromZero(float64(c.sumX) / n),
			Y: roundHalfAwayFromZero(float64(c.sumY) / n),
			W: roundHalfAwayFromZero(float64(c.sumW) / n),
			H: roundHalfAwayFromZero(float64(c.sumH) / n),
		})
	}
	return out
}

// roundHalfAwayFromZero rounds to the nearest integer, ties away from
// zero, matching the spec's averaging rule for grouped rectangles.
func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
