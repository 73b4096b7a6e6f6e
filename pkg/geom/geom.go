// Package geom provides the planar primitives consumed by the trapezoidal map:
// points, line segments and axis-aligned rectangles.
//
// All types are small comparable values. Two points are equal only when both
// coordinates are bit-for-bit equal, which makes them usable as map keys.
// Predicates that compare derived quantities (y-values on a line, interval
// overlaps) use the tolerance [Epsilon].
//
// # Ordering
//
// Points are ordered lexicographically (x first, then y) by [Point.Less] and
// [Point.Compare]. This is the symbolic shear that lets the trapezoidal map
// treat endpoints sharing an x-coordinate as if their vertical walls were
// slightly apart.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing derived coordinates.
const Epsilon = 1e-9

// Point is a location in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Compare returns -1, 0 or +1 comparing p and q lexicographically.
func (p Point) Compare(q Point) int {
	switch {
	case p.X < q.X:
		return -1
	case p.X > q.X:
		return 1
	case p.Y < q.Y:
		return -1
	case p.Y > q.Y:
		return 1
	}
	return 0
}

// Less reports whether p precedes q lexicographically.
func (p Point) Less(q Point) bool { return p.Compare(q) < 0 }

// Orient returns the signed area of the triangle a, b, c doubled. It is
// positive when c lies to the left of the directed line a->b.
func Orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Overlaps reports whether the closed intervals [a0, a1] and [b0, b1] share a
// stretch longer than Epsilon.
func Overlaps(a0, a1, b0, b1 float64) bool {
	return math.Min(a1, b1)-math.Max(a0, b0) > Epsilon
}

// NearlyEqual reports whether a and b differ by at most Epsilon.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
