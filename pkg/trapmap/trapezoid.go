package trapmap

import (
	"fmt"
	"math"

	"github.com/matzehuels/trapmap/pkg/geom"
)

// Trapezoid is a region of the decomposition. It is bounded on the left and
// right by vertical walls erected through LeftP and RightP, and above and
// below by the Top and Bottom segments.
//
// Trapezoids are values: two trapezoids with the same four boundary elements
// are the same region and compare equal with ==, which is what the map uses
// to key its region index. A Trapezoid is never mutated after creation.
type Trapezoid struct {
	LeftP, RightP geom.Point
	Top, Bottom   geom.Segment
}

// NewTrapezoid returns the canonical region for the given boundary tuple.
// Segments are normalised so that equal tuples compare equal regardless of
// the endpoint order the caller used.
func NewTrapezoid(leftp, rightp geom.Point, top, bottom geom.Segment) Trapezoid {
	return Trapezoid{
		LeftP:  leftp,
		RightP: rightp,
		Top:    top.Normalize(),
		Bottom: bottom.Normalize(),
	}
}

// boundsTrapezoid returns the single region covering r.
func boundsTrapezoid(r geom.Rect) Trapezoid {
	c := r.Corners()
	return NewTrapezoid(c[0], c[2], r.Top(), r.Bottom())
}

// Span returns the bottom and top y-values of the region at x.
func (t Trapezoid) Span(x float64) (lo, hi float64) {
	return t.Bottom.YAt(x), t.Top.YAt(x)
}

// Left returns the left wall as a bottom-to-top segment.
func (t Trapezoid) Left() geom.Segment { return t.wall(t.LeftP.X) }

// Right returns the right wall as a bottom-to-top segment.
func (t Trapezoid) Right() geom.Segment { return t.wall(t.RightP.X) }

func (t Trapezoid) wall(x float64) geom.Segment {
	lo, hi := t.Span(x)
	return geom.Segment{P: geom.Pt(x, lo), Q: geom.Pt(x, hi)}
}

// Width returns the horizontal extent.
func (t Trapezoid) Width() float64 { return t.RightP.X - t.LeftP.X }

// Area returns the enclosed area. Zero-width regions, which appear when two
// endpoints share an x-coordinate, have zero area.
func (t Trapezoid) Area() float64 {
	l0, l1 := t.Span(t.LeftP.X)
	r0, r1 := t.Span(t.RightP.X)
	return t.Width() * ((l1 - l0) + (r1 - r0)) / 2
}

// Corners returns bottom-left, bottom-right, top-right and top-left.
func (t Trapezoid) Corners() [4]geom.Point {
	l0, l1 := t.Span(t.LeftP.X)
	r0, r1 := t.Span(t.RightP.X)
	return [4]geom.Point{
		geom.Pt(t.LeftP.X, l0),
		geom.Pt(t.RightP.X, r0),
		geom.Pt(t.RightP.X, r1),
		geom.Pt(t.LeftP.X, l1),
	}
}

// Bounds returns the bounding rectangle.
func (t Trapezoid) Bounds() geom.Rect {
	c := t.Corners()
	minY := math.Min(c[0].Y, c[1].Y)
	maxY := math.Max(c[2].Y, c[3].Y)
	return geom.R(t.LeftP.X, minY, t.Width(), maxY-minY)
}

// Contains reports whether p lies in the closed region, within geom.Epsilon.
func (t Trapezoid) Contains(p geom.Point) bool {
	if p.X < t.LeftP.X-geom.Epsilon || p.X > t.RightP.X+geom.Epsilon {
		return false
	}
	lo, hi := t.Span(p.X)
	return p.Y >= lo-geom.Epsilon && p.Y <= hi+geom.Epsilon
}

// CrossesLeftWall reports whether s passes strictly through the interior of
// the left wall.
func (t Trapezoid) CrossesLeftWall(s geom.Segment) bool {
	x := t.LeftP.X
	if !s.SpansX(x) {
		return false
	}
	y := s.YAt(x)
	lo, hi := t.Span(x)
	return y > lo && y < hi
}

// Valid reports whether the boundary tuple describes a region: the walls are
// ordered and the top never dips below the bottom.
func (t Trapezoid) Valid() bool {
	if !t.LeftP.Less(t.RightP) {
		return false
	}
	l0, l1 := t.Span(t.LeftP.X)
	r0, r1 := t.Span(t.RightP.X)
	return l1 >= l0-geom.Epsilon && r1 >= r0-geom.Epsilon
}

// String formats the region by its walls and boundary segments.
func (t Trapezoid) String() string {
	return fmt.Sprintf("[x %g..%g | top %s | bottom %s]", t.LeftP.X, t.RightP.X, t.Top, t.Bottom)
}

// pieces is the result of splitting a region by a segment that crosses it.
type pieces struct {
	above, below Trapezoid
	left, right  Trapezoid
	hasLeft      bool
	hasRight     bool
	skippedLeft  bool
	skippedRight bool
}

// split cuts t along s. The above and below pieces span the part of t that s
// covers; the left and right residuals exist only when s starts or ends
// strictly inside t. A residual whose walls would coincide is reported as
// skipped instead.
func (t Trapezoid) split(s geom.Segment) pieces {
	lo, hi := t.LeftP, t.RightP
	if lo.Less(s.P) {
		lo = s.P
	}
	if s.Q.Less(hi) {
		hi = s.Q
	}

	var out pieces
	out.above = NewTrapezoid(lo, hi, t.Top, s)
	out.below = NewTrapezoid(lo, hi, s, t.Bottom)

	switch c := t.LeftP.Compare(s.P); {
	case c < 0:
		out.left = NewTrapezoid(t.LeftP, s.P, t.Top, t.Bottom)
		out.hasLeft = true
	case c == 0:
		out.skippedLeft = true
	}
	switch c := s.Q.Compare(t.RightP); {
	case c < 0:
		out.right = NewTrapezoid(s.Q, t.RightP, t.Top, t.Bottom)
		out.hasRight = true
	case c == 0:
		out.skippedRight = true
	}
	return out
}

// interiorsOverlap reports whether a and b share a region of positive area.
// The vertical gap min(tops)-max(bottoms) is concave in x, so it is enough to
// test the ends of the common x-range and the points where the tops or the
// bottoms cross.
func interiorsOverlap(a, b Trapezoid) bool {
	lo := math.Max(a.LeftP.X, b.LeftP.X)
	hi := math.Min(a.RightP.X, b.RightP.X)
	if hi-lo <= geom.Epsilon {
		return false
	}

	xs := []float64{lo, hi, (lo + hi) / 2}
	if x, ok := linesMeet(a.Top, b.Top); ok && x > lo && x < hi {
		xs = append(xs, x)
	}
	if x, ok := linesMeet(a.Bottom, b.Bottom); ok && x > lo && x < hi {
		xs = append(xs, x)
	}

	for _, x := range xs {
		a0, a1 := a.Span(x)
		b0, b1 := b.Span(x)
		if math.Min(a1, b1)-math.Max(a0, b0) > geom.Epsilon {
			return true
		}
	}
	return false
}

func linesMeet(s, t geom.Segment) (float64, bool) {
	a1, b1 := s.Coefficients()
	a2, b2 := t.Coefficients()
	if a1 == a2 {
		return 0, false
	}
	return (b2 - b1) / (a1 - a2), true
}
