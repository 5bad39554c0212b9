// Package viewer derives visual artifacts from diagram state: bounding
// rectangles, point hit-testing, and edge routing. Viewers store no diagram
// state of their own; everything is computed from the model on demand, so
// the model never carries redundant geometry.
//
// One viewer instance per dialect is shared across all diagrams of that
// dialect. The sequence viewer keeps a derived-layout cache; it is keyed by
// diagram identity and revision, so a mutation (which bumps the revision)
// invalidates it automatically.
package viewer

import (
	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/geometry"
)

// EdgeHitTolerance is the maximum distance, in diagram units, at which a
// point still selects an edge.
const EdgeHitTolerance = 4

// Viewer derives geometry from diagram state.
type Viewer interface {
	// Bounds returns the smallest rectangle enclosing every element of the
	// diagram. An empty diagram yields the zero rectangle.
	Bounds(d *diagram.Diagram) geometry.Rect

	// BoundsOf returns the bounding rectangle of a single element. Node
	// bounds enclose the node's own extent and all of its children.
	BoundsOf(d *diagram.Diagram, el diagram.Element) geometry.Rect

	// HitTest returns the topmost element at the given point, or nil.
	// Later roots and deeper descendants win; nodes win over edges.
	HitTest(d *diagram.Diagram, p geometry.Point) diagram.Element

	// RouteEdge returns the polyline along which the edge is drawn, from
	// the start connection point to the end connection point.
	RouteEdge(d *diagram.Diagram, e *diagram.Edge) []geometry.Point
}

// Default is the viewer shared by the class, state, object, and use-case
// dialects. It is stateless and safe to share across diagrams.
type Default struct{}

// NewDefault creates the default viewer.
func NewDefault() *Default { return &Default{} }

// NodeBounds returns a node's bounds: its own rectangle grown to enclose
// every child's bounds.
func NodeBounds(n *diagram.Node) geometry.Rect {
	bounds := geometry.NewRect(n.Position(), n.Size())
	for _, c := range n.Children() {
		bounds = bounds.Union(NodeBounds(c))
	}
	return bounds
}

func (v *Default) Bounds(d *diagram.Diagram) geometry.Rect {
	var bounds geometry.Rect
	first := true
	for _, r := range d.Roots() {
		if first {
			bounds = NodeBounds(r)
			first = false
		} else {
			bounds = bounds.Union(NodeBounds(r))
		}
	}
	for _, e := range d.Edges() {
		bounds = bounds.Union(routeBounds(v.RouteEdge(d, e)))
	}
	return bounds
}

func (v *Default) BoundsOf(d *diagram.Diagram, el diagram.Element) geometry.Rect {
	switch t := el.(type) {
	case *diagram.Node:
		return NodeBounds(t)
	case *diagram.Edge:
		return routeBounds(v.RouteEdge(d, t))
	default:
		return geometry.Rect{}
	}
}

func (v *Default) HitTest(d *diagram.Diagram, p geometry.Point) diagram.Element {
	if n := hitTestNodes(d, p); n != nil {
		return n
	}
	return hitTestEdges(d, p, v)
}

// hitTestNodes walks roots from top of the stacking order down and descends
// into the deepest child containing the point.
func hitTestNodes(d *diagram.Diagram, p geometry.Point) *diagram.Node {
	roots := d.Roots()
	for i := len(roots) - 1; i >= 0; i-- {
		if hit := deepestNodeAt(roots[i], p); hit != nil {
			return hit
		}
	}
	return nil
}

func deepestNodeAt(n *diagram.Node, p geometry.Point) *diagram.Node {
	if !NodeBounds(n).Contains(p) {
		return nil
	}
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if hit := deepestNodeAt(children[i], p); hit != nil {
			return hit
		}
	}
	if geometry.NewRect(n.Position(), n.Size()).Contains(p) {
		return n
	}
	// The point is inside a child's overhang, not the node proper.
	return nil
}

func hitTestEdges(d *diagram.Diagram, p geometry.Point, v Viewer) diagram.Element {
	edges := d.Edges()
	for i := len(edges) - 1; i >= 0; i-- {
		route := v.RouteEdge(d, edges[i])
		for j := 0; j+1 < len(route); j++ {
			if distanceToSegment(p, route[j], route[j+1]) <= EdgeHitTolerance {
				return edges[i]
			}
		}
	}
	return nil
}

func (v *Default) RouteEdge(d *diagram.Diagram, e *diagram.Edge) []geometry.Point {
	start, end := e.Start(), e.End()
	if start == nil || end == nil {
		return nil
	}
	if start == end {
		return selfLoop(NodeBounds(start))
	}
	startBounds := NodeBounds(start)
	endBounds := NodeBounds(end)
	p1 := startBounds.ClosestSidePoint(endBounds.Center())
	p2 := endBounds.ClosestSidePoint(startBounds.Center())
	return []geometry.Point{p1, p2}
}

// selfLoop routes a reflexive edge as a small loop off the node's top-right
// corner.
func selfLoop(b geometry.Rect) []geometry.Point {
	const arm = 20
	right := geometry.Point{X: b.MaxX(), Y: b.Y + b.Height/4}
	return []geometry.Point{
		right,
		right.Translated(arm, 0),
		{X: b.MaxX() + arm, Y: b.Y - arm/2},
		{X: b.X + b.Width*3/4, Y: b.Y - arm/2},
		{X: b.X + b.Width*3/4, Y: b.Y},
	}
}

func routeBounds(route []geometry.Point) geometry.Rect {
	if len(route) == 0 {
		return geometry.Rect{}
	}
	bounds := geometry.NewRect(route[0], geometry.Dimension{})
	for _, p := range route[1:] {
		bounds = bounds.Union(geometry.NewRect(p, geometry.Dimension{}))
	}
	return bounds
}

// distanceToSegment returns the distance from p to the segment a-b, rounded
// down to an int.
func distanceToSegment(p, a, b geometry.Point) int {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return isqrt(p.DistanceSquared(a))
	}
	// Project p onto the segment, clamped to its extent.
	t := float64(apx*abx+apy*aby) / float64(lenSq)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := float64(a.X) + t*float64(abx)
	cy := float64(a.Y) + t*float64(aby)
	dx := float64(p.X) - cx
	dy := float64(p.Y) - cy
	return isqrt(int(dx*dx + dy*dy))
}

func isqrt(v int) int {
	if v <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}
