package main

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/esimov/cascadet"
)

// boxColor is the stroke used for the detection rectangle outline.
var boxColor = color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}

// drawRects paints a 2px outline of every rectangle onto a copy of src
// and returns the annotated image. Replaces the teacher's Gio seam
// overlay with a plain image/draw stroke, since there's no interactive
// preview in this CLI.
func drawRects(src image.Image, rects []cascadet.Rect) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)

	for _, r := range rects {
		strokeRect(dst, r)
	}
	return dst
}

func strokeRect(dst *image.NRGBA, r cascadet.Rect) {
	const thickness = 2
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H

	for t := 0; t < thickness; t++ {
		hLine(dst, x0, x1, y0+t)
		hLine(dst, x0, x1, y1-1-t)
		vLine(dst, y0, y1, x0+t)
		vLine(dst, y0, y1, x1-1-t)
	}
}

func hLine(dst *image.NRGBA, x0, x1, y int) {
	b := dst.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := x0; x < x1; x++ {
		if x < b.Min.X || x >= b.Max.X {
			continue
		}
		dst.SetNRGBA(x, y, boxColor)
	}
}

func vLine(dst *image.NRGBA, y0, y1, x int) {
	b := dst.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := y0; y < y1; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		dst.SetNRGBA(x, y, boxColor)
	}
}
