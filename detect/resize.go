package detect

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/esimov/cascadet/geom"
)

// resizeGray scales a GrayImage to the given size using bilinear
// interpolation. The multi-scale driver treats resizing as an external
// primitive (per the detector's scope); here that primitive is
// github.com/disintegration/imaging, the same resampler the teacher
// library uses for its own rescale pipeline, configured with its
// Linear filter for the bilinear behavior the pyramid loop specifies.
func resizeGray(g *GrayImage, size geom.Size) *GrayImage {
	if size.W <= 0 || size.H <= 0 {
		return &GrayImage{Rows: 0, Cols: 0}
	}

	src := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))
	for y := 0; y < g.Rows; y++ {
		copy(src.Pix[y*src.Stride:y*src.Stride+g.Cols], g.Pix[y*g.Stride:y*g.Stride+g.Cols])
	}

	dst := imaging.Resize(src, size.W, size.H, imaging.Linear)

	out := &GrayImage{
		Pix:    make([]uint8, size.W*size.H),
		Stride: size.W,
		Rows:   size.H,
		Cols:   size.W,
	}
	for y := 0; y < size.H; y++ {
		srow := y * dst.Stride
		drow := y * size.W
		for x := 0; x < size.W; x++ {
			// dst is NRGBA even though the source was single-channel;
			// R==G==B for a grayscale source so any channel reads the
			// interpolated gray value.
			out.Pix[drow+x] = dst.Pix[srow+x*4]
		}
	}
	return out
}
