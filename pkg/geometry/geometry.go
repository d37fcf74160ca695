// Geometric primitives shared by the diagram model, editor, and renderers.
// All coordinates are float64 canvas units unless stated otherwise.

package geometry

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents an axis-aligned rectangle by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r (inclusive of the top-left edge).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Inset shrinks r by d on every side. A negative d grows the rectangle.
// If 2*d exceeds a dimension the result has zero extent on that axis.
func (r Rect) Inset(d float64) Rect {
	out := Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
	if out.W < 0 {
		out.X = r.X + r.W/2
		out.W = 0
	}
	if out.H < 0 {
		out.Y = r.Y + r.H/2
		out.H = 0
	}
	return out
}

// Side indicates one of the four fixed attachment sides of a bounding box.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the string representation of a Side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// AnchorPoint returns the attachment point for side s on rectangle r:
// the midpoint of the corresponding edge of the bounding box.
func AnchorPoint(r Rect, s Side) Point {
	switch s {
	case SideTop:
		return Point{r.X + r.W/2, r.Y}
	case SideRight:
		return Point{r.X + r.W, r.Y + r.H/2}
	case SideBottom:
		return Point{r.X + r.W/2, r.Y + r.H}
	case SideLeft:
		return Point{r.X, r.Y + r.H/2}
	}
	return r.Center()
}

// SegmentDistance returns the distance from p to the line segment a-b.
func SegmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(Point{a.X + t*dx, a.Y + t*dy})
}

// ElbowPoints returns the orthogonal route from from to to: horizontal to
// the midpoint, then vertical, then horizontal into the target.
func ElbowPoints(from, to Point) []Point {
	midX := (from.X + to.X) / 2
	return []Point{
		from,
		{midX, from.Y},
		{midX, to.Y},
		to,
	}
}

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// disables snapping.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}
