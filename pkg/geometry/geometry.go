// Package geometry provides the integer 2D primitives used by the diagram
// model and viewers: points, dimensions, and axis-aligned rectangles.
//
// All coordinates are in diagram space (pixels at 100% zoom). The origin is
// the top-left corner, with X growing rightward and Y growing downward.
package geometry

import "fmt"

// Point is a location in diagram space.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Translated returns the point moved by (dx, dy).
func (p Point) Translated(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DistanceSquared returns the squared Euclidean distance to q.
// Squared distance is sufficient for nearest-side comparisons and avoids
// floating point.
func (p Point) DistanceSquared(q Point) int {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Dimension is a width/height pair.
type Dimension struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// IsZero reports whether both extents are zero.
func (d Dimension) IsZero() bool { return d.Width == 0 && d.Height == 0 }

// Side identifies one edge of a rectangle. It is used to pick edge
// connection points when routing.
type Side int

const (
	SideNorth Side = iota
	SideEast
	SideSouth
	SideWest
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideNorth:
		return "north"
	case SideEast:
		return "east"
	case SideSouth:
		return "south"
	case SideWest:
		return "west"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// The zero value is an empty rectangle at the origin.
type Rect struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// NewRect creates a rectangle from a top-left corner and a dimension.
func NewRect(topLeft Point, size Dimension) Rect {
	return Rect{X: topLeft.X, Y: topLeft.Y, Width: size.Width, Height: size.Height}
}

// TopLeft returns the anchor corner.
func (r Rect) TopLeft() Point { return Point{X: r.X, Y: r.Y} }

// BottomRight returns the corner diagonally opposite the anchor.
func (r Rect) BottomRight() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// Center returns the rectangle's center point (rounded down).
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// MaxX returns the X coordinate of the right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the Y coordinate of the bottom edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Contains reports whether p lies within the rectangle.
// Points on the top/left edges are inside, points on the bottom/right
// edges are inside as well so that hit testing matches the drawn extent.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// ContainsRect reports whether other lies entirely within the rectangle.
func (r Rect) ContainsRect(other Rect) bool {
	return r.Contains(other.TopLeft()) && r.Contains(other.BottomRight())
}

// Union returns the smallest rectangle enclosing both r and other.
func (r Rect) Union(other Rect) Rect {
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.MaxX(), other.MaxX()) - x,
		Height: max(r.MaxY(), other.MaxY()) - y,
	}
}

// Translated returns the rectangle moved by (dx, dy).
func (r Rect) Translated(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Padded returns the rectangle grown by amount on every side.
func (r Rect) Padded(amount int) Rect {
	return Rect{
		X:      r.X - amount,
		Y:      r.Y - amount,
		Width:  r.Width + 2*amount,
		Height: r.Height + 2*amount,
	}
}

// SidePoint returns the midpoint of the given side. These are the candidate
// connection points used when routing edges between nodes.
func (r Rect) SidePoint(s Side) Point {
	switch s {
	case SideNorth:
		return Point{X: r.X + r.Width/2, Y: r.Y}
	case SideEast:
		return Point{X: r.MaxX(), Y: r.Y + r.Height/2}
	case SideSouth:
		return Point{X: r.X + r.Width/2, Y: r.MaxY()}
	default:
		return Point{X: r.X, Y: r.Y + r.Height/2}
	}
}

// ClosestSidePoint returns the side midpoint nearest to target.
func (r Rect) ClosestSidePoint(target Point) Point {
	best := r.SidePoint(SideNorth)
	for _, s := range []Side{SideEast, SideSouth, SideWest} {
		p := r.SidePoint(s)
		if p.DistanceSquared(target) < best.DistanceSquared(target) {
			best = p
		}
	}
	return best
}

// String returns the rectangle as "[x=.. y=.. w=.. h=..]".
func (r Rect) String() string {
	return fmt.Sprintf("[x=%d y=%d w=%d h=%d]", r.X, r.Y, r.Width, r.Height)
}
