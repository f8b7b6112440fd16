// Package markup holds the committed measurement shapes of a document and
// the interaction state used to draw them.
package markup

import (
	"github.com/golang/geo/r2"

	"github.com/mgmeyers/pdftakeoff/measure"
)

// Kind identifies a shape collection.
type Kind string

const (
	KindPolyline Kind = "polyline"
	KindPolygon  Kind = "polygon"
	KindCount    Kind = "count"
)

// Point is a position in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) R2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// PointFrom converts a geometry point.
func PointFrom(p r2.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

func toR2(points []Point) []r2.Point {
	out := make([]r2.Point, len(points))
	for i, p := range points {
		out[i] = p.R2()
	}
	return out
}

func clonePoints(points []Point) []Point {
	return append([]Point(nil), points...)
}

// Polyline is an open measured path.
type Polyline struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Label  string  `json:"label,omitempty"`
	Color  string  `json:"color"`
}

// Length returns the document-space length.
func (l Polyline) Length() float64 {
	return measure.PolylineLength(toR2(l.Points))
}

// Polygon is a closed measured area.
type Polygon struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Label  string  `json:"label,omitempty"`
	Color  string  `json:"color"`
}

// Area returns the document-space area.
func (p Polygon) Area() float64 {
	return measure.PolygonArea(toR2(p.Points))
}

// CountMarker tags one occurrence of an item type. Markers sharing a Type
// form a group.
type CountMarker struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Type  string  `json:"type"`
	Label string  `json:"label,omitempty"`
	Icon  string  `json:"icon"`
	Color string  `json:"color"`
}

// CoordSpace tags the coordinate system a set was written in.
type CoordSpace string

const (
	// SpaceDocument is page units, independent of zoom.
	SpaceDocument CoordSpace = "document"
	// SpaceCanvas is rendered canvas pixels at the zoom recorded in
	// Set.LegacyZoom.
	SpaceCanvas CoordSpace = "canvas"
)

// SchemaVersion is written into every set.
const SchemaVersion = 2

// Set is everything measured on one document, or on one document within
// one pack.
type Set struct {
	Version    int                  `json:"version"`
	Space      CoordSpace           `json:"space"`
	LegacyZoom float64              `json:"legacyZoom,omitempty"`
	Polylines  []Polyline           `json:"polylines"`
	Polygons   []Polygon            `json:"polygons"`
	Counts     []CountMarker        `json:"counts"`
	Scale      *measure.Calibration `json:"scale,omitempty"`
}

// NewSet returns an empty document-space set.
func NewSet() *Set {
	return &Set{
		Version:   SchemaVersion,
		Space:     SpaceDocument,
		Polylines: []Polyline{},
		Polygons:  []Polygon{},
		Counts:    []CountMarker{},
	}
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	c := *s
	c.Polylines = clonePolylines(s.Polylines)
	c.Polygons = clonePolygons(s.Polygons)
	c.Counts = append([]CountMarker{}, s.Counts...)

	if s.Scale != nil {
		scale := *s.Scale
		c.Scale = &scale
	}

	return &c
}

func clonePolylines(in []Polyline) []Polyline {
	out := make([]Polyline, len(in))
	for i, l := range in {
		l.Points = clonePoints(l.Points)
		out[i] = l
	}
	return out
}

func clonePolygons(in []Polygon) []Polygon {
	out := make([]Polygon, len(in))
	for i, p := range in {
		p.Points = clonePoints(p.Points)
		out[i] = p
	}
	return out
}

// Update is a partial change to a set. Nil fields are unchanged and must
// not be written.
type Update struct {
	Polylines *[]Polyline          `json:"polylines,omitempty"`
	Polygons  *[]Polygon           `json:"polygons,omitempty"`
	Counts    *[]CountMarker       `json:"counts,omitempty"`
	Scale     *measure.Calibration `json:"scale,omitempty"`
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.Polylines == nil && u.Polygons == nil && u.Counts == nil && u.Scale == nil
}

// Merge folds a later update into u.
func (u Update) Merge(later Update) Update {
	if later.Polylines != nil {
		u.Polylines = later.Polylines
	}
	if later.Polygons != nil {
		u.Polygons = later.Polygons
	}
	if later.Counts != nil {
		u.Counts = later.Counts
	}
	if later.Scale != nil {
		u.Scale = later.Scale
	}
	return u
}

// Apply writes the non-nil fields of u into s.
func (u Update) Apply(s *Set) {
	if u.Polylines != nil {
		s.Polylines = clonePolylines(*u.Polylines)
	}
	if u.Polygons != nil {
		s.Polygons = clonePolygons(*u.Polygons)
	}
	if u.Counts != nil {
		s.Counts = append([]CountMarker{}, (*u.Counts)...)
	}
	if u.Scale != nil {
		scale := *u.Scale
		s.Scale = &scale
	}
}

// Ref names the set an update belongs to. An empty Pack is the default set
// of the document.
type Ref struct {
	Doc  string
	Pack string
}
