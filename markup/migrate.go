package markup

import (
	"errors"
	"fmt"
)

// ErrUnknownLegacyZoom is returned for canvas-space sets that do not record
// the zoom they were drawn at.
var ErrUnknownLegacyZoom = errors.New("markup: canvas-space set without recorded zoom")

// Migrate brings a persisted set into the current schema. Sets without a
// space tag were written in document space. Canvas-space sets are scaled by
// the zoom recorded when they were written; the zoom is never guessed.
func Migrate(s *Set) (*Set, error) {
	out := s.Clone()
	if out.Polylines == nil {
		out.Polylines = []Polyline{}
	}
	if out.Polygons == nil {
		out.Polygons = []Polygon{}
	}
	if out.Counts == nil {
		out.Counts = []CountMarker{}
	}

	switch out.Space {
	case "", SpaceDocument:
	case SpaceCanvas:
		if out.LegacyZoom <= 0 {
			return nil, ErrUnknownLegacyZoom
		}
		rescale(out, 1/out.LegacyZoom)
	default:
		return nil, fmt.Errorf("markup: unknown coordinate space %q", out.Space)
	}

	out.Space = SpaceDocument
	out.LegacyZoom = 0
	out.Version = SchemaVersion

	return out, nil
}

func rescale(s *Set, f float64) {
	scalePoints := func(pts []Point) {
		for i := range pts {
			pts[i].X *= f
			pts[i].Y *= f
		}
	}

	for i := range s.Polylines {
		scalePoints(s.Polylines[i].Points)
	}
	for i := range s.Polygons {
		scalePoints(s.Polygons[i].Points)
	}
	for i := range s.Counts {
		s.Counts[i].X *= f
		s.Counts[i].Y *= f
	}
	if s.Scale != nil {
		s.Scale.PixelDistance *= f
	}
}
