package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"

	"github.com/esimov/cascadet"
	"github.com/esimov/cascadet/utils"
)

const helpBanner = `
┌─┐┌─┐┌─┐┌─┐┌─┐┌┬┐┌─┐┌┬┐
│  ├─┤└─┐│  ├─┤ ││├┤  │
└─┘┴ ┴└─┘└─┘┴ ┴─┴┘└─┘ ┴

Boosted cascade object detector.

`

// pipeName as the -in value reads the source image from stdin. As the
// -out value it writes no annotated image, since stdout carries the
// JSON detections.
const pipeName = "-"

var (
	source       = flag.String("in", pipeName, "Source image")
	destination  = flag.String("out", pipeName, "Destination image (annotated copy, only written with -draw)")
	cascadePath  = flag.String("cascade", "", "Path to the cascade XML model")
	scaleFactor  = flag.Float64("scale", 1.1, "Pyramid scale factor, must be > 1")
	minNeighbors = flag.Int("neighbors", 3, "Minimum neighbor count for a detection to survive grouping")
	minSizeFlag  = flag.String("minsize", "", "Minimum detection window, as WxH (defaults to the cascade's own window size)")
	configPath   = flag.String("config", "", "YAML config overlay, applied before flag values")
	draw         = flag.Bool("draw", false, "Draw detection rectangles onto the output image")
	workers      = flag.Int("workers", 1, "Number of pyramid scales evaluated concurrently")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpBanner)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *cascadePath == "" {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a cascade model via -cascade", utils.ErrorMessage))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	opts := resolveOptions(cfg)

	now := time.Now()
	spinner := utils.NewSpinner(
		fmt.Sprintf("%s %s", utils.DecorateText("⚡ cascadet", utils.StatusMessage), utils.DecorateText("⇢ running detection...", utils.DefaultMessage)),
		time.Millisecond*80,
		true,
	)
	spinner.Start()

	rects, err := run(opts)
	if err != nil {
		spinner.StopMsg = fmt.Sprintf("%s %s %s",
			utils.DecorateText("⚡ cascadet", utils.StatusMessage),
			utils.DecorateText("detection failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
		spinner.Stop()
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	spinner.StopMsg = fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ cascadet", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText(fmt.Sprintf("found %d detection(s) ✔", len(rects)), utils.SuccessMessage),
	)
	spinner.Stop()

	if err := json.NewEncoder(os.Stdout).Encode(rects); err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// runOptions bundles the resolved, flag-and-config-merged settings run
// needs, so main stays a thin flag/spinner/exit-code shell.
type runOptions struct {
	source      string
	destination string
	cascade     string
	draw        bool
	detect      cascadet.Options
}

func resolveOptions(cfg *fileConfig) runOptions {
	o := runOptions{
		source:      *source,
		destination: *destination,
		cascade:     *cascadePath,
		draw:        *draw,
		detect: cascadet.Options{
			ScaleFactor:  *scaleFactor,
			MinNeighbors: *minNeighbors,
			Logger:       zerolog.New(os.Stderr).With().Timestamp().Logger(),
			Workers:      *workers,
		},
	}

	if cfg != nil {
		if cfg.ScaleFactor > 0 {
			o.detect.ScaleFactor = cfg.ScaleFactor
		}
		if cfg.MinNeighbors > 0 {
			o.detect.MinNeighbors = cfg.MinNeighbors
		}
		if cfg.MinWidth > 0 && cfg.MinHeight > 0 {
			o.detect.MinSize = cascadet.Size{W: cfg.MinWidth, H: cfg.MinHeight}
		}
	}

	// Explicit flags always win over the config overlay.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			o.detect.ScaleFactor = *scaleFactor
		case "neighbors":
			o.detect.MinNeighbors = *minNeighbors
		}
	})

	if *minSizeFlag != "" {
		var w, h int
		if _, err := fmt.Sscanf(*minSizeFlag, "%dx%d", &w, &h); err == nil {
			o.detect.MinSize = cascadet.Size{W: w, H: h}
		}
	}

	if o.detect.Workers <= 0 || o.detect.Workers > runtime.NumCPU()*4 {
		o.detect.Workers = 1
	}

	return o
}

func run(o runOptions) ([]cascadet.Rect, error) {
	c, err := cascadet.Load(o.cascade)
	if err != nil {
		return nil, fmt.Errorf("could not load cascade: %w", err)
	}

	img, err := loadImage(o.source)
	if err != nil {
		return nil, fmt.Errorf("could not load source image: %w", err)
	}

	rects, err := cascadet.Detect(img, c, o.detect)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	if o.draw && o.destination != "" && o.destination != pipeName {
		annotated := drawRects(img, rects)
		if err := saveImage(o.destination, annotated); err != nil {
			return nil, fmt.Errorf("could not save annotated image: %w", err)
		}
	}

	return rects, nil
}

// loadImage reads stdin when src is pipeName, and otherwise opens a
// local file or, when src is a URL, downloads it first via
// utils.DownloadImage.
func loadImage(src string) (image.Image, error) {
	if src == pipeName {
		img, _, err := image.Decode(os.Stdin)
		return img, err
	}

	var path string

	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if err != nil {
			return nil, err
		}
		defer os.Remove(f.Name())
		defer f.Close()
		path = f.Name()
	} else {
		path = src
	}

	ctype, err := utils.DetectFileContentType(path)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(ctype.(string), "image") {
		return nil, fmt.Errorf("%s is not an image file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func saveImage(dst string, img image.Image) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	switch filepath.Ext(dst) {
	case ".png", "":
		return png.Encode(f, img)
	default:
		return png.Encode(f, img)
	}
}
