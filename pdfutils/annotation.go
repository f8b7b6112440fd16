package pdfutils

import "github.com/golang/geo/r2"

// Measurement annotation kinds found in PDF files.
const (
	PolyLine    string = "polyline"
	Polygon            = "polygon"
	Line               = "line"
	Unsupported        = "unsupported"
)

// Shape is a measurement annotation read from a PDF page, already mapped
// into document space (origin top-left, page units).
type Shape struct {
	ID     string
	Kind   string
	Page   int
	Points []r2.Point
	Label  string
	Color  string
}

// ByPosition orders shapes top to bottom, then left to right, by their
// first vertex.
type ByPosition []*Shape

func (a ByPosition) Len() int { return len(a) }
func (a ByPosition) Less(i, j int) bool {
	pi, pj := a[i].Points[0], a[j].Points[0]
	if pi.Y != pj.Y {
		return pi.Y < pj.Y
	}
	return pi.X < pj.X
}
func (a ByPosition) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
