package diagram

import (
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/geometry"
)

// Diagram is an ordered collection of root nodes plus the edges connecting
// nodes. It records the stable name of its dialect (the persisted type tag)
// and a revision counter that increments on every structural mutation.
//
// Viewers key their derived-geometry caches on the revision counter, so a
// cache entry is valid exactly as long as the revision it was computed for.
//
// Diagram is not safe for concurrent mutation; the editor core is
// single-threaded and event-driven. Mutation happens only through a dialect
// builder. The mutating methods below maintain the revision counter but do
// not check dialect rules; builders do.
type Diagram struct {
	typeName string
	roots    []*Node
	edges    []*Edge
	revision uint64
}

// New creates an empty diagram carrying the given dialect type name.
// Use the dialect registry to create diagrams unless loading from
// persistence, so the name is guaranteed valid.
func New(typeName string) *Diagram {
	return &Diagram{typeName: typeName}
}

// TypeName returns the stable name of the diagram's dialect, as used in
// persisted files. It is never shown to users directly.
func (d *Diagram) TypeName() string { return d.typeName }

// Revision returns the current mutation revision. It starts at zero and
// increments on every structural change.
func (d *Diagram) Revision() uint64 { return d.revision }

func (d *Diagram) bump() { d.revision++ }

// Roots returns the root nodes in stacking order (later roots are drawn, and
// hit, on top). The returned slice is a copy.
func (d *Diagram) Roots() []*Node {
	out := make([]*Node, len(d.roots))
	copy(out, d.roots)
	return out
}

// Edges returns the edges in insertion order. The returned slice is a copy.
func (d *Diagram) Edges() []*Edge {
	out := make([]*Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

// EdgesOfKind returns the edges of the given kind in insertion order.
func (d *Diagram) EdgesOfKind(kind EdgeKind) []*Edge {
	var out []*Edge
	for _, e := range d.edges {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// RootCount returns the number of root nodes.
func (d *Diagram) RootCount() int { return len(d.roots) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// AllNodes returns every node in the diagram in pre-order: each root followed
// by its subtree, in stacking order.
func (d *Diagram) AllNodes() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, r := range d.roots {
		walk(r)
	}
	return out
}

// ContainsNode reports whether n is a root or a descendant of a root.
func (d *Diagram) ContainsNode(n *Node) bool {
	if n == nil {
		return false
	}
	for _, r := range d.roots {
		if r.HasDescendant(n) {
			return true
		}
	}
	return false
}

// ContainsEdge reports whether e is one of the diagram's edges.
func (d *Diagram) ContainsEdge(e *Edge) bool {
	for _, candidate := range d.edges {
		if candidate == e {
			return true
		}
	}
	return false
}

// Contains reports whether the element (node or edge) is part of the diagram.
func (d *Diagram) Contains(el Element) bool {
	switch v := el.(type) {
	case *Node:
		return d.ContainsNode(v)
	case *Edge:
		return d.ContainsEdge(v)
	default:
		return false
	}
}

// EdgesConnectedTo returns the edges whose start or end is exactly n.
func (d *Diagram) EdgesConnectedTo(n *Node) []*Edge {
	var out []*Edge
	for _, e := range d.edges {
		if e.start == n || e.end == n {
			out = append(out, e)
		}
	}
	return out
}

// NodesConnectedTo returns the distinct nodes joined to n by an edge, in
// edge insertion order.
func (d *Diagram) NodesConnectedTo(n *Node) []*Node {
	var out []*Node
	seen := map[*Node]bool{}
	for _, e := range d.edges {
		var other *Node
		if e.start == n {
			other = e.end
		} else if e.end == n {
			other = e.start
		} else {
			continue
		}
		if other != nil && !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// AddRoot appends a node to the diagram's roots. The node must be detached
// (no parent); dialect legality is the builder's concern.
func (d *Diagram) AddRoot(n *Node) {
	errors.Precondition(n != nil, "node must not be nil")
	errors.Precondition(n.parent == nil, "root node must not have a parent")
	d.roots = append(d.roots, n)
	d.bump()
}

// RemoveRoot removes a node from the diagram's roots. It does not touch
// edges; cascading removal is the builder's concern.
func (d *Diagram) RemoveRoot(n *Node) {
	for i, r := range d.roots {
		if r == n {
			d.roots = append(d.roots[:i], d.roots[i+1:]...)
			d.bump()
			return
		}
	}
}

// AttachChild nests child inside parent. Both structural pointers are
// updated. Kind legality is the builder's concern.
func (d *Diagram) AttachChild(parent, child *Node) {
	errors.Precondition(parent != nil && child != nil, "parent and child must not be nil")
	parent.attach(child)
	d.bump()
}

// DetachChild unlinks child from its parent, leaving it dangling. Callers
// either re-attach it (reparent) or discard it (removal).
func (d *Diagram) DetachChild(child *Node) {
	if child.parent != nil {
		child.parent.detach(child)
		d.bump()
	}
}

// AddEdge appends an edge. Endpoint reachability and dialect legality are
// the builder's concern.
func (d *Diagram) AddEdge(e *Edge) {
	errors.Precondition(e != nil, "edge must not be nil")
	d.edges = append(d.edges, e)
	d.bump()
}

// RemoveEdge removes an edge if present.
func (d *Diagram) RemoveEdge(e *Edge) {
	for i, candidate := range d.edges {
		if candidate == e {
			d.edges = append(d.edges[:i], d.edges[i+1:]...)
			d.bump()
			return
		}
	}
}

// MoveNode repositions a node (and its subtree, preserving relative child
// offsets) and bumps the revision so derived-geometry caches refresh.
func (d *Diagram) MoveNode(n *Node, to geometry.Point) {
	dx := to.X - n.position.X
	dy := to.Y - n.position.Y
	n.Translate(dx, dy)
	d.bump()
}

// Validate checks the diagram's structural invariant: every edge has two
// endpoints and both are reachable from some root node. A violation means a
// builder was bypassed or has a bug; it is reported as STRUCTURAL_VIOLATION.
func (d *Diagram) Validate() error {
	for _, e := range d.edges {
		if e.start == nil || e.end == nil {
			return errors.New(errors.ErrCodeStructuralViolation,
				"edge %v (%s) has a missing endpoint", e.id, e.kind)
		}
		if !d.ContainsNode(e.start) {
			return errors.New(errors.ErrCodeStructuralViolation,
				"edge %v (%s) start node is not in the diagram", e.id, e.kind)
		}
		if !d.ContainsNode(e.end) {
			return errors.New(errors.ErrCodeStructuralViolation,
				"edge %v (%s) end node is not in the diagram", e.id, e.kind)
		}
	}
	return nil
}
