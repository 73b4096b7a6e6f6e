package geom

import "fmt"

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// String formats the rectangle as "[x, y, w, h]".
func (r Rect) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", r.X, r.Y, r.W, r.H)
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MinY returns the bottom edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the top edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Corners returns the four corners counter-clockwise from the minimum corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.MinX(), r.MinY()},
		{r.MaxX(), r.MinY()},
		{r.MaxX(), r.MaxY()},
		{r.MinX(), r.MaxY()},
	}
}

// Top returns the upper edge as a left-to-right segment.
func (r Rect) Top() Segment {
	return Segment{P: Point{r.MinX(), r.MaxY()}, Q: Point{r.MaxX(), r.MaxY()}}
}

// Bottom returns the lower edge as a left-to-right segment.
func (r Rect) Bottom() Segment {
	return Segment{P: Point{r.MinX(), r.MinY()}, Q: Point{r.MaxX(), r.MinY()}}
}

// Contains reports whether p lies in the closed rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// ContainsStrict reports whether p lies in the open interior.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.MinX() && p.X < r.MaxX() && p.Y > r.MinY() && p.Y < r.MaxY()
}
