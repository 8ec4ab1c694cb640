package cascadet

import (
	"image"

	"github.com/esimov/cascadet/cascade"
	"github.com/esimov/cascadet/cascade/xml"
	"github.com/esimov/cascadet/detect"
	"github.com/esimov/cascadet/geom"
)

// Re-exported geometry types, so callers never need to import the
// internal geom package directly.
type (
	Rect  = geom.Rect
	Size  = geom.Size
	Point = geom.Point
)

// Cascade is the loaded, immutable boosted cascade model.
type Cascade = cascade.Cascade

// Options configures a Detect call; see detect.Options.
type Options = detect.Options

// Load reads an OpenCV-style cascade XML file and returns the parsed
// model. Any missing or malformed required field fails the load; no
// partial cascade is returned.
func Load(path string) (*Cascade, error) {
	return xml.Load(path)
}

// Detect converts img to grayscale and runs the multi-scale cascade
// search, returning grouped detection rectangles in original-image
// coordinates. An empty or nil cascade yields an empty result with no
// error; a ScaleFactor of 1 or less is a programmer error and returns
// one.
func Detect(img image.Image, c *Cascade, opts Options) ([]Rect, error) {
	gray := detect.ToGray(img)
	return detect.Detect(gray, c, opts)
}
