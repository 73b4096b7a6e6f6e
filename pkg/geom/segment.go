package geom

import "fmt"

// Segment is a closed line segment between two endpoints.
//
// Segments built with [Seg] are normalised so that P precedes Q
// lexicographically; most of the trapezoidal map relies on that orientation.
// A Segment literal keeps whatever order it was given.
type Segment struct {
	P, Q Point
}

// Seg returns the segment between a and b with P the lexicographically
// smaller endpoint.
func Seg(a, b Point) Segment {
	if b.Less(a) {
		a, b = b, a
	}
	return Segment{P: a, Q: b}
}

// Normalize returns s with its endpoints in lexicographic order.
func (s Segment) Normalize() Segment { return Seg(s.P, s.Q) }

// String formats the segment as "(x1, y1)-(x2, y2)".
func (s Segment) String() string {
	return fmt.Sprintf("%s-%s", s.P, s.Q)
}

// IsVertical reports whether both endpoints share an x-coordinate.
func (s Segment) IsVertical() bool { return s.P.X == s.Q.X }

// IsDegenerate reports whether the endpoints coincide.
func (s Segment) IsDegenerate() bool { return s.P == s.Q }

// Slope returns dy/dx. It is infinite for vertical segments.
func (s Segment) Slope() float64 {
	return (s.Q.Y - s.P.Y) / (s.Q.X - s.P.X)
}

// Coefficients returns a and b of the supporting line y = a*x + b.
func (s Segment) Coefficients() (a, b float64) {
	a = s.Slope()
	return a, s.P.Y - a*s.P.X
}

// YAt evaluates the supporting line at x. Vertical segments return the
// smaller endpoint's y.
func (s Segment) YAt(x float64) float64 {
	if s.IsVertical() {
		return s.P.Y
	}
	switch x {
	case s.P.X:
		return s.P.Y
	case s.Q.X:
		return s.Q.Y
	}
	t := (x - s.P.X) / (s.Q.X - s.P.X)
	return s.P.Y + t*(s.Q.Y-s.P.Y)
}

// Side returns +1 when p lies strictly above the supporting line of s, -1
// when strictly below and 0 when on it. s must be normalised.
func (s Segment) Side(p Point) int {
	o := Orient(s.P, s.Q, p)
	switch {
	case o > 0:
		return 1
	case o < 0:
		return -1
	}
	return 0
}

// Above reports whether p lies strictly above the supporting line of s.
func (s Segment) Above(p Point) bool { return s.Side(p) > 0 }

// SpansX reports whether x lies within the closed x-range of s.
func (s Segment) SpansX(x float64) bool {
	lo, hi := s.P.X, s.Q.X
	if hi < lo {
		lo, hi = hi, lo
	}
	return x >= lo && x <= hi
}

// SharesEndpoint reports whether s and t have an endpoint in common.
func (s Segment) SharesEndpoint(t Segment) bool {
	return s.P == t.P || s.P == t.Q || s.Q == t.P || s.Q == t.Q
}

// Intersect returns the intersection point of two non-parallel segments.
// ok is false when the segments are parallel or do not meet.
func (s Segment) Intersect(t Segment) (Point, bool) {
	d := (s.Q.X-s.P.X)*(t.Q.Y-t.P.Y) - (s.Q.Y-s.P.Y)*(t.Q.X-t.P.X)
	if d == 0 {
		return Point{}, false
	}
	u := ((t.P.X-s.P.X)*(t.Q.Y-t.P.Y) - (t.P.Y-s.P.Y)*(t.Q.X-t.P.X)) / d
	v := ((t.P.X-s.P.X)*(s.Q.Y-s.P.Y) - (t.P.Y-s.P.Y)*(s.Q.X-s.P.X)) / d
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return Point{}, false
	}
	return Point{X: s.P.X + u*(s.Q.X-s.P.X), Y: s.P.Y + u*(s.Q.Y-s.P.Y)}, true
}

// Conflicts reports whether s and t meet anywhere other than at a shared
// endpoint. Crossings, T-junctions and collinear overlaps all conflict.
func (s Segment) Conflicts(t Segment) bool {
	o1 := sign(Orient(s.P, s.Q, t.P))
	o2 := sign(Orient(s.P, s.Q, t.Q))
	o3 := sign(Orient(t.P, t.Q, s.P))
	o4 := sign(Orient(t.P, t.Q, s.Q))

	if o1 == 0 && o2 == 0 {
		// Collinear: conflict when the projections overlap beyond a point.
		a, b := s.Normalize(), t.Normalize()
		lo, hi := a.P, a.Q
		if b.P.Compare(lo) > 0 {
			lo = b.P
		}
		if b.Q.Compare(hi) < 0 {
			hi = b.Q
		}
		return lo.Less(hi)
	}
	if o1*o2 > 0 || o3*o4 > 0 {
		return false
	}
	// They touch or cross. Touching at a shared endpoint is allowed.
	if s.SharesEndpoint(t) {
		return false
	}
	return true
}

// Bounds returns the bounding rectangle of s.
func (s Segment) Bounds() Rect {
	minX, maxX := s.P.X, s.Q.X
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	minY, maxY := s.P.Y, s.Q.Y
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
