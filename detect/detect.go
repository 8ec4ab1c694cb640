// Package detect drives the multi-scale sliding-window search: build a
// pyramid of resized images, bind a cascade evaluator to each scale's
// integral image, slide a window across it, and group the raw candidate
// rectangles into final detections.
package detect

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/esimov/cascadet/cascade"
	"github.com/esimov/cascadet/geom"
	"github.com/esimov/cascadet/integral"
)

// errInvalidScaleFactor is returned by Detect when scaleFactor <= 1, the
// one invalid-runtime-argument case the detector must reject rather
// than silently misbehave on.
var errInvalidScaleFactor = errors.New("detect: scaleFactor must be > 1")

// Options configures one Detect call. Flags is accepted for API
// stability and always ignored by the core, matching the detector's
// external-interface contract.
type Options struct {
	ScaleFactor  float64 // > 1, pyramid growth factor
	MinNeighbors int     // >= 0, grouper threshold
	MinSize      geom.Size
	Flags        uint32 // accepted, ignored

	// Logger receives diagnostic events (candidate counts per scale,
	// degenerate variance, early pyramid termination). The zero value
	// is a disabled logger, so Detect is silent by default.
	Logger zerolog.Logger

	// Workers bounds how many pyramid scales are evaluated
	// concurrently. <= 1 runs the synchronous single-goroutine pass;
	// this is strictly additive scale parallelism, outside the core
	// synchronous contract.
	Workers int
}

// scalePass is one pyramid level's precomputed geometry, evaluated
// independently of every other level.
type scalePass struct {
	scale float64
	win   geom.Size
	sz    geom.Size
}

// Detect runs the cascade over every pyramid scale of img and returns
// the grouped detection rectangles in original-image coordinates. It
// returns an empty, nil-error result for an empty cascade, and an error
// only for invalid runtime arguments (scaleFactor <= 1).
func Detect(img *GrayImage, c *cascade.Cascade, opts Options) ([]geom.Rect, error) {
	if c.Empty() {
		return nil, nil
	}
	if opts.ScaleFactor <= 1 {
		return nil, errInvalidScaleFactor
	}

	minSize := opts.MinSize
	if minSize.W <= 0 || minSize.H <= 0 {
		minSize = c.OrigWinSize
	}

	withTilted := c.HasTilted()

	var passes []scalePass
	for scale := 1.0; ; scale *= opts.ScaleFactor {
		win := geom.Size{
			W: roundHalfAwayFromZero(float64(c.OrigWinSize.W) * scale),
			H: roundHalfAwayFromZero(float64(c.OrigWinSize.H) * scale),
		}
		sz := geom.Size{
			W: roundHalfAwayFromZero(float64(img.Cols) / scale),
			H: roundHalfAwayFromZero(float64(img.Rows) / scale),
		}
		sz1 := geom.Size{W: sz.W - c.OrigWinSize.W, H: sz.H - c.OrigWinSize.H}
		if sz1.W <= 0 || sz1.H <= 0 {
			break
		}
		if win.W < minSize.W || win.H < minSize.H {
			continue
		}
		passes = append(passes, scalePass{scale: scale, win: win, sz: sz})
	}

	var (
		raw  []geom.Rect
		mu   sync.Mutex
		once = func(p scalePass) {
			found := runScale(img, c, withTilted, p, opts.Logger)
			if len(found) == 0 {
				return
			}
			mu.Lock()
			raw = append(raw, found...)
			mu.Unlock()
		}
	)

	if opts.Workers > 1 {
		sem := make(chan struct{}, opts.Workers)
		var wg sync.WaitGroup
		for _, p := range passes {
			p := p
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				once(p)
			}()
		}
		wg.Wait()
	} else {
		for _, p := range passes {
			once(p)
		}
	}

	return GroupRectangles(raw, opts.MinNeighbors, 0.2), nil
}

// runScale evaluates a single pyramid level and returns its candidate
// rectangles in original-image coordinates. It builds its own
// BoundCascade, private to the caller's goroutine, so concurrent scale
// passes never share an Evaluator's mutable per-window state.
func runScale(img *GrayImage, c *cascade.Cascade, withTilted bool, p scalePass, logger zerolog.Logger) []geom.Rect {
	sz1 := geom.Size{W: p.sz.W - c.OrigWinSize.W, H: p.sz.H - c.OrigWinSize.H}

	scaled := resizeGray(img, p.sz)
	ii := integral.Build(scaled.Pix, scaled.Rows, scaled.Cols, scaled.Stride, withTilted)
	bound, ok := c.Bind(ii)
	if !ok {
		return nil
	}

	yStep := 2
	if p.scale > 2.0 {
		yStep = 1
	}

	var found []geom.Rect
	for y := 0; y < sz1.H; y += yStep {
		for x := 0; x < sz1.W; x += yStep {
			r := bound.RunAt(geom.Point{X: x, Y: y})
			switch {
			case r > 0:
				found = append(found, geom.Rect{
					X: roundHalfAwayFromZero(float64(x) * p.scale),
					Y: roundHalfAwayFromZero(float64(y) * p.scale),
					W: p.win.W,
					H: p.win.H,
				})
			case r == 0:
				// Stage-0 rejection stride heuristic: reproduced
				// verbatim from the legacy driver, not generalized
				// to other negative returns.
				x += yStep
			}
		}
	}
	logger.Debug().
		Float64("scale", p.scale).
		Int("window_w", p.win.W).
		Int("window_h", p.win.H).
		Int("candidates", len(found)).
		Msg("scale pass complete")

	return found
}
