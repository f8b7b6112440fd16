// Package overlay paints committed measurements onto a rendered page.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

// Style holds stroke and marker sizes in raster pixels.
type Style struct {
	LineWidth    float64 `yaml:"line_width"`
	FillAlpha    float64 `yaml:"fill_alpha"`
	MarkerRadius float64 `yaml:"marker_radius"`
}

func DefaultStyle() Style {
	return Style{
		LineWidth:    3,
		FillAlpha:    0.25,
		MarkerRadius: 8,
	}
}

// Painter draws onto one page raster whose document-space frame is known.
type Painter struct {
	dst   *image.RGBA
	frame viewport.Frame
	style Style
	z     *vector.Rasterizer
}

// NewPainter copies page into a new RGBA image ready to be drawn on.
func NewPainter(page image.Image, f viewport.Frame, style Style) *Painter {
	b := page.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), page, b.Min, draw.Src)

	return &Painter{
		dst:   dst,
		frame: f,
		style: style,
		z:     vector.NewRasterizer(b.Dx(), b.Dy()),
	}
}

// Image returns the painted raster.
func (p *Painter) Image() *image.RGBA {
	return p.dst
}

func (p *Painter) project(pts []markup.Point) ([]r2.Point, error) {
	size := p.dst.Bounds().Size()
	out := make([]r2.Point, 0, len(pts))

	for _, pt := range pts {
		q, err := viewport.ProjectSize(pt.R2(), float64(size.X), float64(size.Y), &p.frame)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}

	return out, nil
}

func paint(hex, fallback string, alpha float64) image.Image {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}

	r, g, b := c.RGB255()

	return image.NewUniform(color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))})
}

func (p *Painter) fill(pts []r2.Point, src image.Image) {
	if len(pts) < 3 {
		return
	}

	p.z.Reset(p.dst.Bounds().Dx(), p.dst.Bounds().Dy())
	p.z.DrawOp = draw.Over
	p.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, q := range pts[1:] {
		p.z.LineTo(float32(q.X), float32(q.Y))
	}
	p.z.ClosePath()
	p.z.Draw(p.dst, p.dst.Bounds(), src, image.Point{})
}

// stroke draws each segment as its own quad so that overlapping segments
// never cancel out.
func (p *Painter) stroke(pts []r2.Point, closed bool, src image.Image) {
	if closed && len(pts) > 2 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}

	half := p.style.LineWidth / 2

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		if d.Norm() == 0 {
			continue
		}

		n := d.Ortho().Normalize().Mul(half)
		p.fill([]r2.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, src)
	}
}

func (p *Painter) marker(center r2.Point, icon string, src image.Image) {
	r := p.style.MarkerRadius

	switch icon {
	case "square":
		p.fill([]r2.Point{
			{X: center.X - r, Y: center.Y - r},
			{X: center.X + r, Y: center.Y - r},
			{X: center.X + r, Y: center.Y + r},
			{X: center.X - r, Y: center.Y + r},
		}, src)
	case "triangle":
		p.fill([]r2.Point{
			{X: center.X, Y: center.Y - r},
			{X: center.X + r, Y: center.Y + r},
			{X: center.X - r, Y: center.Y + r},
		}, src)
	default:
		const segments = 24
		pts := make([]r2.Point, segments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / segments
			pts[i] = r2.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
		}
		p.fill(pts, src)
	}
}

// Polyline strokes an open polyline.
func (p *Painter) Polyline(l markup.Polyline) error {
	pts, err := p.project(l.Points)
	if err != nil {
		return err
	}

	p.stroke(pts, false, paint(l.Color, markup.DefaultLineColor, 1))

	return nil
}

// Polygon fills a polygon translucently and strokes its outline.
func (p *Painter) Polygon(g markup.Polygon) error {
	pts, err := p.project(g.Points)
	if err != nil {
		return err
	}

	p.fill(pts, paint(g.Color, markup.DefaultAreaColor, p.style.FillAlpha))
	p.stroke(pts, true, paint(g.Color, markup.DefaultAreaColor, 1))

	return nil
}

// Count draws a marker at the count position.
func (p *Painter) Count(c markup.CountMarker) error {
	pts, err := p.project([]markup.Point{{X: c.X, Y: c.Y}})
	if err != nil {
		return err
	}

	p.marker(pts[0], c.Icon, paint(c.Color, markup.DefaultLineColor, 1))

	return nil
}

// Paint draws every committed shape of set onto a copy of page. Polygons go
// first so lines and markers stay visible on top of area fills.
func Paint(page image.Image, f viewport.Frame, set *markup.Set, style Style) (*image.RGBA, error) {
	p := NewPainter(page, f, style)

	for _, g := range set.Polygons {
		if err := p.Polygon(g); err != nil {
			return nil, err
		}
	}
	for _, l := range set.Polylines {
		if err := p.Polyline(l); err != nil {
			return nil, err
		}
	}
	for _, c := range set.Counts {
		if err := p.Count(c); err != nil {
			return nil, err
		}
	}

	return p.Image(), nil
}
