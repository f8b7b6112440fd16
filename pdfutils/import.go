package pdfutils

import (
	"sort"

	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/model"
)

// GetAnnotationKind classifies an annotation context.
func GetAnnotationKind(t interface{}) string {
	switch t.(type) {
	case *model.PdfAnnotationPolyLine:
		return PolyLine
	case *model.PdfAnnotationPolygon:
		return Polygon
	case *model.PdfAnnotationLine:
		return Line
	default:
		return Unsupported
	}
}

func getVertices(ctx model.PdfModel) core.PdfObject {
	switch a := ctx.(type) {
	case *model.PdfAnnotationPolyLine:
		return a.Vertices
	case *model.PdfAnnotationPolygon:
		return a.Vertices
	case *model.PdfAnnotationLine:
		return a.L
	}

	return nil
}

// ImportPageShapes reads the polyline, polygon and line annotations of a
// page. Lines become two-point polylines. Annotations with unreadable or
// too few vertices are skipped.
func ImportPageShapes(pageIndex int, page *model.PdfPage, ids map[string]bool) ([]*Shape, error) {
	geom, err := GetPageGeometry(page)
	if err != nil {
		return nil, err
	}

	annotations, err := page.GetAnnotations()
	if err != nil {
		return nil, err
	}

	shapes := []*Shape{}

	for _, annotation := range annotations {
		ctx := annotation.GetContext()
		kind := GetAnnotationKind(ctx)

		if kind == Unsupported {
			continue
		}

		vertices := getVertices(ctx)
		if vertices == nil {
			continue
		}

		pts, err := GetVertexPoints(vertices)
		if err != nil {
			continue
		}

		minPoints := 2
		if kind == Polygon {
			minPoints = 3
		}

		if len(pts) < minPoints {
			continue
		}

		for i := range pts {
			pts[i] = geom.ToDocument(pts[i])
		}

		if kind == Line {
			kind = PolyLine
		}

		label := ""
		if annotation.Contents != nil {
			label = CleanLabel(annotation.Contents.String())
		}

		shapes = append(shapes, &Shape{
			ID:     GetShapeID(ids, pageIndex, pts[0].X, pts[0].Y, kind),
			Kind:   kind,
			Page:   pageIndex + 1,
			Points: pts,
			Label:  label,
			Color:  PDFObjToHex(annotation.C),
		})
	}

	sort.Sort(ByPosition(shapes))

	return shapes, nil
}
