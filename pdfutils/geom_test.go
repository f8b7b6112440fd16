package pdfutils

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/core"
)

func TestPageGeometrySize(t *testing.T) {
	g := PageGeometry{Width: 612, Height: 792}
	if w, h := g.Size(); w != 612 || h != 792 {
		t.Errorf("Size = %g x %g", w, h)
	}

	g.Rotate = 90
	if w, h := g.Size(); w != 792 || h != 612 {
		t.Errorf("rotated Size = %g x %g", w, h)
	}
}

func TestToDocumentCorners(t *testing.T) {
	cases := []struct {
		rotate int64
		in     r2.Point
		want   r2.Point
	}{
		{0, r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 200}},
		{0, r2.Point{X: 100, Y: 200}, r2.Point{X: 100, Y: 0}},
		{90, r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 0}},
		{90, r2.Point{X: 0, Y: 200}, r2.Point{X: 200, Y: 0}},
		{180, r2.Point{X: 0, Y: 0}, r2.Point{X: 100, Y: 0}},
		{270, r2.Point{X: 0, Y: 0}, r2.Point{X: 200, Y: 100}},
	}

	for _, tc := range cases {
		g := PageGeometry{Width: 100, Height: 200, Rotate: tc.rotate}
		if got := g.ToDocument(tc.in); got != tc.want {
			t.Errorf("rotate %d: ToDocument(%v) = %v, want %v", tc.rotate, tc.in, got, tc.want)
		}
	}
}

func TestToUserInverse(t *testing.T) {
	p := r2.Point{X: 17, Y: 42}

	for _, rot := range []int64{0, 90, 180, 270} {
		g := PageGeometry{Llx: 5, Lly: 10, Width: 100, Height: 200, Rotate: rot}
		if got := g.ToUser(g.ToDocument(p)); got != p {
			t.Errorf("rotate %d: round trip %v -> %v", rot, p, got)
		}
	}
}

func TestGetVertexPoints(t *testing.T) {
	arr := core.MakeArrayFromFloats([]float64{1, 2, 3, 4, 5})

	pts, err := GetVertexPoints(arr)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 2 || pts[1] != (r2.Point{X: 3, Y: 4}) {
		t.Errorf("GetVertexPoints = %v", pts)
	}

	if _, err := GetVertexPoints(core.MakeInteger(3)); err == nil {
		t.Error("expected an error for a non-array")
	}
}
