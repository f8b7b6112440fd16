package measure

import (
	"math"

	"github.com/golang/geo/r2"
)

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 r2.Point) float64 {
	return p1.Sub(p2).Norm()
}

// PolylineLength sums the lengths of consecutive segments. Fewer than two
// points have no length.
func PolylineLength(points []r2.Point) float64 {
	if len(points) < 2 {
		return 0
	}

	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}

	return total
}

// PolygonArea computes the enclosed area with the shoelace formula. The
// result does not depend on winding direction or on the starting vertex.
func PolygonArea(points []r2.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].Cross(points[j])
	}

	return math.Abs(sum) / 2
}

// Bounds returns the smallest rectangle containing all points.
func Bounds(points []r2.Point) r2.Rect {
	if len(points) == 0 {
		return r2.EmptyRect()
	}

	return r2.RectFromPoints(points...)
}

// Centroid returns the mean of the vertices, used to anchor labels.
func Centroid(points []r2.Point) r2.Point {
	if len(points) == 0 {
		return r2.Point{}
	}

	c := r2.Point{}
	for _, p := range points {
		c = c.Add(p)
	}

	return c.Mul(1 / float64(len(points)))
}
