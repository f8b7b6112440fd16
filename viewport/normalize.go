// Package viewport maps between input-device pixels, rendered canvas pixels
// and document-space units, tracks the active page frame and computes the
// zoom that fits a page into its container.
package viewport

import (
	"errors"

	"github.com/golang/geo/r2"
)

var (
	// ErrNoFrame means the active page has not finished decoding, so there
	// is no document-space frame to normalize against.
	ErrNoFrame = errors.New("viewport: no active page frame")

	// ErrNoCanvas means the canvas has no measurable size yet.
	ErrNoCanvas = errors.New("viewport: canvas has no size")
)

// Frame is the size of the active page in document-space units.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (f *Frame) usable() bool {
	return f != nil && f.Width > 0 && f.Height > 0
}

// Contains reports whether p lies inside the page.
func (f *Frame) Contains(p r2.Point) bool {
	if !f.usable() {
		return false
	}

	return r2.RectFromPoints(r2.Point{}, r2.Point{X: f.Width, Y: f.Height}).ContainsPoint(p)
}

// Canvas describes the raster canvas: its on-screen rectangle in CSS
// pixels and its backing store in device pixels.
type Canvas struct {
	Left      float64
	Top       float64
	CSSWidth  float64
	CSSHeight float64

	DeviceWidth  float64
	DeviceHeight float64
}

func (c Canvas) usable() bool {
	return c.CSSWidth > 0 && c.CSSHeight > 0 && c.DeviceWidth > 0 && c.DeviceHeight > 0
}

// ToCanvas maps a pointer position to device pixels of the canvas backing
// store. This stage only accounts for the device pixel ratio.
func ToCanvas(clientX, clientY float64, c Canvas) (r2.Point, error) {
	if !c.usable() {
		return r2.Point{}, ErrNoCanvas
	}

	return r2.Point{
		X: (clientX - c.Left) * (c.DeviceWidth / c.CSSWidth),
		Y: (clientY - c.Top) * (c.DeviceHeight / c.CSSHeight),
	}, nil
}

// Normalize maps a pointer position to document space. The first stage
// removes the device pixel ratio, the second maps canvas pixels to page
// units, so stored points stay valid whatever the zoom later becomes.
func Normalize(clientX, clientY float64, c Canvas, f *Frame) (r2.Point, error) {
	if !f.usable() {
		return r2.Point{}, ErrNoFrame
	}

	cp, err := ToCanvas(clientX, clientY, c)
	if err != nil {
		return r2.Point{}, err
	}

	return r2.Point{
		X: cp.X / c.DeviceWidth * f.Width,
		Y: cp.Y / c.DeviceHeight * f.Height,
	}, nil
}

// Project maps a document-space point to canvas device pixels. It is only
// used for painting.
func Project(p r2.Point, c Canvas, f *Frame) (r2.Point, error) {
	if !f.usable() {
		return r2.Point{}, ErrNoFrame
	}
	if !c.usable() {
		return r2.Point{}, ErrNoCanvas
	}

	return ProjectSize(p, c.DeviceWidth, c.DeviceHeight, f)
}

// ProjectSize maps a document-space point onto a raster of the given size.
func ProjectSize(p r2.Point, width, height float64, f *Frame) (r2.Point, error) {
	if !f.usable() {
		return r2.Point{}, ErrNoFrame
	}
	if width <= 0 || height <= 0 {
		return r2.Point{}, ErrNoCanvas
	}

	return r2.Point{
		X: p.X / f.Width * width,
		Y: p.Y / f.Height * height,
	}, nil
}

// ToClient is the full inverse of Normalize, returning the pointer position
// that would produce p.
func ToClient(p r2.Point, c Canvas, f *Frame) (r2.Point, error) {
	cp, err := Project(p, c, f)
	if err != nil {
		return r2.Point{}, err
	}

	return r2.Point{
		X: cp.X/(c.DeviceWidth/c.CSSWidth) + c.Left,
		Y: cp.Y/(c.DeviceHeight/c.CSSHeight) + c.Top,
	}, nil
}

// CanvasFor builds the canvas geometry for a page rendered at zoom with the
// given device pixel ratio, placed at (left, top).
func CanvasFor(f Frame, zoom, pixelRatio, left, top float64) Canvas {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	cssW := f.Width * zoom
	cssH := f.Height * zoom

	return Canvas{
		Left:         left,
		Top:          top,
		CSSWidth:     cssW,
		CSSHeight:    cssH,
		DeviceWidth:  cssW * pixelRatio,
		DeviceHeight: cssH * pixelRatio,
	}
}
