package detect

import (
	"image"
)

// GrayImage is an 8-bit single-channel image with an explicit row
// stride, the minimal shape the integral-image builder and the
// multi-scale driver need.
type GrayImage struct {
	Pix    []uint8
	Stride int
	Rows   int
	Cols   int
}

// ToGray converts an arbitrary image.Image to a GrayImage using the
// standard BT.601 luma weights, adapted from the teacher's Grayscale
// conversion (0.299R + 0.587G + 0.114B).
func ToGray(src image.Image) *GrayImage {
	if g, ok := src.(*image.Gray); ok {
		return &GrayImage{Pix: g.Pix, Stride: g.Stride, Rows: g.Bounds().Dy(), Cols: g.Bounds().Dx()}
	}

	b := src.Bounds()
	cols, rows := b.Dx(), b.Dy()
	out := &GrayImage{
		Pix:    make([]uint8, cols*rows),
		Stride: cols,
		Rows:   rows,
		Cols:   cols,
	}

	for y := 0; y < rows; y++ {
		row := y * cols
		for x := 0; x < cols; x++ {
			r, g, bch, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lum := float32(r)*0.299 + float32(g)*0.587 + float32(bch)*0.114
			out.Pix[row+x] = uint8(lum / 256)
		}
	}
	return out
}
