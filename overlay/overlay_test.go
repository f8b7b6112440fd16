package overlay

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func isWhite(c color.RGBA) bool {
	return c.R == 0xff && c.G == 0xff && c.B == 0xff
}

func TestPaintPolylineScalesToRaster(t *testing.T) {
	set := markup.NewSet()
	set.Polylines = []markup.Polyline{{
		ID:     "a",
		Points: []markup.Point{{X: 5, Y: 10}, {X: 45, Y: 10}},
		Color:  "#ff0000",
	}}

	img, err := Paint(blank(100, 100), viewport.Frame{Width: 50, Height: 50}, set, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	if got := img.RGBAAt(50, 20); got.R != 0xff || got.G > 0x10 || got.B > 0x10 {
		t.Errorf("pixel on the line = %v, want red", got)
	}
	if got := img.RGBAAt(50, 10); !isWhite(got) {
		t.Errorf("pixel in document space position = %v, want untouched", got)
	}
	if got := img.RGBAAt(95, 20); !isWhite(got) {
		t.Errorf("pixel past the end = %v, want untouched", got)
	}
}

func TestPaintPolygonIsTranslucent(t *testing.T) {
	set := markup.NewSet()
	set.Polygons = []markup.Polygon{{
		ID:     "p",
		Points: []markup.Point{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 90}, {X: 10, Y: 90}},
		Color:  "#0000ff",
	}}

	img, err := Paint(blank(100, 100), viewport.Frame{Width: 100, Height: 100}, set, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	inside := img.RGBAAt(50, 50)
	if isWhite(inside) || inside.B != 0xff || inside.R == 0 {
		t.Errorf("inside pixel = %v, want blue tint over white", inside)
	}

	edge := img.RGBAAt(50, 10)
	if edge.R > 0x10 || edge.B != 0xff {
		t.Errorf("outline pixel = %v, want solid blue", edge)
	}

	if got := img.RGBAAt(5, 5); !isWhite(got) {
		t.Errorf("outside pixel = %v, want untouched", got)
	}
}

func TestPaintCountMarker(t *testing.T) {
	set := markup.NewSet()
	set.Counts = []markup.CountMarker{
		{ID: "c", X: 25, Y: 25, Type: "Door", Icon: "circle", Color: "#00ff00"},
		{ID: "s", X: 75, Y: 75, Type: "Door", Icon: "square", Color: "not a color"},
	}

	img, err := Paint(blank(100, 100), viewport.Frame{Width: 100, Height: 100}, set, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	if got := img.RGBAAt(25, 25); got.G != 0xff || got.R > 0x10 {
		t.Errorf("marker center = %v, want green", got)
	}
	if got := img.RGBAAt(75, 75); isWhite(got) {
		t.Errorf("marker with bad color was not painted")
	}
	if got := img.RGBAAt(50, 50); !isWhite(got) {
		t.Errorf("pixel between markers = %v, want untouched", got)
	}
}

func TestPaintLeavesSourceUntouched(t *testing.T) {
	src := blank(20, 20)
	set := markup.NewSet()
	set.Polylines = []markup.Polyline{{ID: "a", Points: []markup.Point{{X: 0, Y: 10}, {X: 20, Y: 10}}}}

	if _, err := Paint(src, viewport.Frame{Width: 20, Height: 20}, set, DefaultStyle()); err != nil {
		t.Fatal(err)
	}

	if got := src.(*image.RGBA).RGBAAt(10, 10); !isWhite(got) {
		t.Errorf("source raster modified: %v", got)
	}
}

func TestPaintWithoutFrame(t *testing.T) {
	set := markup.NewSet()
	set.Polylines = []markup.Polyline{{ID: "a", Points: []markup.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}}

	_, err := Paint(blank(10, 10), viewport.Frame{}, set, DefaultStyle())
	if !errors.Is(err, viewport.ErrNoFrame) {
		t.Errorf("got %v, want ErrNoFrame", err)
	}
}
