package pdfutils

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/model"
)

// PageGeometry is what is needed to map PDF user space into document space
// for one page: the media box origin and size and the page rotation.
type PageGeometry struct {
	Llx, Lly      float64
	Width, Height float64
	Rotate        int64
}

// GetPageGeometry reads the media box and rotation of page.
func GetPageGeometry(page *model.PdfPage) (PageGeometry, error) {
	mbox, err := page.GetMediaBox()
	if err != nil {
		return PageGeometry{}, err
	}

	g := PageGeometry{
		Llx:    mbox.Llx,
		Lly:    mbox.Lly,
		Width:  mbox.Width(),
		Height: mbox.Height(),
	}

	if page.Rotate != nil {
		g.Rotate = ((*page.Rotate % 360) + 360) % 360
	}

	return g, nil
}

// Size returns the displayed page size, swapping the sides for pages
// rotated by a quarter turn.
func (g PageGeometry) Size() (float64, float64) {
	if g.Rotate == 90 || g.Rotate == 270 {
		return g.Height, g.Width
	}

	return g.Width, g.Height
}

// ToDocument maps a point in PDF user space (origin bottom-left, unrotated)
// to document space (origin top-left of the displayed page).
func (g PageGeometry) ToDocument(p r2.Point) r2.Point {
	x := p.X - g.Llx
	y := p.Y - g.Lly

	switch g.Rotate {
	case 90:
		return r2.Point{X: y, Y: x}
	case 180:
		return r2.Point{X: g.Width - x, Y: y}
	case 270:
		return r2.Point{X: g.Height - y, Y: g.Width - x}
	}

	return r2.Point{X: x, Y: g.Height - y}
}

// ToUser is the inverse of ToDocument.
func (g PageGeometry) ToUser(p r2.Point) r2.Point {
	var x, y float64

	switch g.Rotate {
	case 90:
		x, y = p.Y, p.X
	case 180:
		x, y = g.Width-p.X, p.Y
	case 270:
		x, y = g.Width-p.Y, g.Height-p.X
	default:
		x, y = p.X, g.Height-p.Y
	}

	return r2.Point{X: x + g.Llx, Y: y + g.Lly}
}

// GetVertexPoints reads a flat [x1 y1 x2 y2 ...] array as points.
func GetVertexPoints(obj core.PdfObject) ([]r2.Point, error) {
	arr, ok := obj.(*core.PdfObjectArray)
	if !ok {
		return nil, fmt.Errorf("vertices are %T, not an array", obj)
	}

	coords, err := arr.GetAsFloat64Slice()
	if err != nil {
		return nil, err
	}

	pts := []r2.Point{}
	coordHolder := []float64{}

	for _, coord := range coords {
		coordHolder = append(coordHolder, coord)

		if len(coordHolder) == 2 {
			pts = append(pts, r2.Point{X: coordHolder[0], Y: coordHolder[1]})
			coordHolder = []float64{}
		}
	}

	return pts, nil
}
