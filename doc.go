/*
Package cascadet implements a multi-scale sliding-window object detector
driven by a boosted cascade of decision-tree classifiers over
integral-image features (Haar-like rectangle sums and Local Binary
Pattern blocks). Given a loaded cascade model and an image, Detect
returns the axis-aligned rectangles where the target object was found.

The package provides a command line interface for running detection
over a single image. To check the supported flags type:

	$ detect --help

To use the library directly:

	package main

	import (
		"fmt"

		"github.com/esimov/cascadet"
	)

	func main() {
		c, err := cascadet.Load("haarcascade_frontalface.xml")
		if err != nil {
			fmt.Printf("Error loading cascade: %s", err.Error())
			return
		}

		rects, err := cascadet.Detect(img, c, cascadet.Options{
			ScaleFactor:  1.1,
			MinNeighbors: 3,
		})
		if err != nil {
			fmt.Printf("Error detecting: %s", err.Error())
		}
		fmt.Println(rects)
	}
*/
package cascadet
