package viewport

import "math"

// FitOptions tunes the fit controller.
type FitOptions struct {
	// Margin is the fraction of the container a page may occupy.
	Margin float64 `yaml:"margin"`
	// MinZoom and MaxZoom clamp the computed zoom.
	MinZoom float64 `yaml:"min_zoom"`
	MaxZoom float64 `yaml:"max_zoom"`
	// SizeThreshold is how far the container must move, in either
	// dimension, before a new measurement counts as a resize.
	SizeThreshold float64 `yaml:"size_threshold"`
	// ZoomThreshold is the relative zoom change below which a new zoom is
	// not applied.
	ZoomThreshold float64 `yaml:"zoom_threshold"`
}

// DefaultFitOptions returns the stock thresholds.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		Margin:        0.9,
		MinZoom:       0.5,
		MaxZoom:       3.0,
		SizeThreshold: 10,
		ZoomThreshold: 0.1,
	}
}

// Size is a container size in layout units.
type Size struct {
	Width  float64
	Height float64
}

// FitZoom computes the zoom that fits a frame into the available space.
func FitZoom(available Size, f Frame, opts FitOptions) float64 {
	if !f.usable() {
		return opts.MinZoom
	}

	z := math.Min(available.Width*opts.Margin/f.Width, available.Height*opts.Margin/f.Height)
	z = math.Min(z, opts.MaxZoom)

	return math.Max(z, opts.MinZoom)
}

// FitController recomputes the display zoom when the page frame or the
// container size changes. Two hysteresis guards and a re-entrancy flag
// keep zoom changes from feeding back into layout indefinitely: a pass
// that applies a new zoom stays locked until Settled reports the next
// layout measurement.
type FitController struct {
	opts FitOptions

	zoom      float64
	frame     *Frame
	container Size
	measured  bool
	busy      bool
}

// NewFitController returns a controller starting at zoom 1.
func NewFitController(opts FitOptions) *FitController {
	return &FitController{opts: opts, zoom: 1}
}

// Zoom returns the currently applied zoom.
func (c *FitController) Zoom() float64 {
	return c.zoom
}

// Busy reports whether a recomputation is waiting for layout to settle.
func (c *FitController) Busy() bool {
	return c.busy
}

// SetFrame is called when a page frame becomes available. A new frame
// always triggers a recomputation against the last measured container.
func (c *FitController) SetFrame(f Frame) (float64, bool) {
	c.frame = &f
	if !c.measured {
		return c.zoom, false
	}

	return c.recompute(true)
}

// Resize is called with every container measurement. It returns the zoom
// to apply and whether it changed.
//
// While locked the measurement is not recorded, so the next one after
// Settled is compared against the size the zoom was computed for.
func (c *FitController) Resize(s Size) (float64, bool) {
	if c.busy {
		return c.zoom, false
	}
	if c.measured &&
		math.Abs(s.Width-c.container.Width) <= c.opts.SizeThreshold &&
		math.Abs(s.Height-c.container.Height) <= c.opts.SizeThreshold {
		return c.zoom, false
	}

	c.container = s
	c.measured = true

	return c.recompute(false)
}

// Settled releases the re-entrancy guard once layout has been measured
// again after a zoom change.
func (c *FitController) Settled() {
	c.busy = false
}

func (c *FitController) recompute(force bool) (float64, bool) {
	if c.busy || c.frame == nil {
		return c.zoom, false
	}

	next := FitZoom(c.container, *c.frame, c.opts)
	if !force && math.Abs(next-c.zoom)/c.zoom <= c.opts.ZoomThreshold {
		return c.zoom, false
	}
	if next == c.zoom {
		return c.zoom, false
	}

	c.zoom = next
	c.busy = true

	return c.zoom, true
}
