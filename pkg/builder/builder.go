// Package builder implements the mutation gateways for diagrams: one builder
// per dialect, each enforcing that dialect's structural rules.
//
// Builders follow a predicate-then-act protocol. Callers query the Can*
// predicates before mutating; the predicates are pure and never mutate. The
// mutating operations re-run their predicate defensively and reject illegal
// mutations with a STRUCTURAL_VIOLATION error before any partial effect, so
// a diagram can never be observed mid-mutation or left inconsistent.
//
// Each dialect differs only in configuration: the set of node and edge kinds
// it accepts and an extra connection rule. The shared machinery (containment
// checks, note-edge rules, duplicate rejection, cascading removal,
// reparenting) is common to all five.
package builder

import (
	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/observability"
)

// Builder is the sole mutation gateway for a Diagram.
type Builder interface {
	// Diagram returns the diagram this builder mutates.
	Diagram() *diagram.Diagram

	// CanAddNode reports whether node may be added with the given parent
	// container. A nil parent means the node would become a diagram root.
	// The predicate never mutates.
	CanAddNode(node, parent *diagram.Node) bool

	// AddNode adds node under parent (or as a root when parent is nil).
	// Returns a STRUCTURAL_VIOLATION error, without mutating, if
	// CanAddNode would return false.
	AddNode(node, parent *diagram.Node) error

	// CanConnect reports whether edge may connect start to end under the
	// dialect's rules. The predicate never mutates.
	CanConnect(edge *diagram.Edge, start, end *diagram.Node) bool

	// AddEdge connects edge from start to end and adds it to the diagram.
	// Call edges receive the next ordinal in the call sequence. Returns a
	// STRUCTURAL_VIOLATION error, without mutating, if CanConnect would
	// return false.
	AddEdge(edge *diagram.Edge, start, end *diagram.Node) error

	// RemoveElement removes a node or edge. Removing a node cascades to its
	// subtree and to every edge incident to a removed node; removing an edge
	// removes only the edge. Call ordinals are renumbered after removal.
	RemoveElement(el diagram.Element) error

	// CanReparent reports whether node may be moved under newParent (nil
	// meaning it would become a root). Rejects containment cycles and
	// illegal nestings. The predicate never mutates.
	CanReparent(node, newParent *diagram.Node) bool

	// Reparent moves node under newParent. Returns a STRUCTURAL_VIOLATION
	// error, without mutating, if CanReparent would return false.
	Reparent(node, newParent *diagram.Node) error
}

// connectRule is a dialect-specific refinement of CanConnect, consulted after
// the shared checks pass.
type connectRule func(d *diagram.Diagram, e *diagram.Edge, start, end *diagram.Node) bool

// builder is the single Builder implementation. Dialects differ only in the
// configuration record they construct it with.
type builder struct {
	d         *diagram.Diagram
	nodeKinds map[diagram.NodeKind]bool
	edgeKinds map[diagram.EdgeKind]bool
	connect   connectRule
}

func (b *builder) Diagram() *diagram.Diagram { return b.d }

// =============================================================================
// Predicates
// =============================================================================

func (b *builder) CanAddNode(node, parent *diagram.Node) bool {
	if node == nil {
		return false
	}
	if !b.nodeKinds[node.Kind()] {
		return false
	}
	if b.d.ContainsNode(node) {
		return false
	}
	if parent == nil {
		return !node.Kind().RequiresParent()
	}
	return b.d.ContainsNode(parent) && parent.Kind().AllowsChild(node.Kind())
}

func (b *builder) CanConnect(edge *diagram.Edge, start, end *diagram.Node) bool {
	if edge == nil || start == nil || end == nil {
		return false
	}
	if !b.edgeKinds[edge.Kind()] {
		return false
	}
	if b.d.ContainsEdge(edge) {
		return false
	}
	if !b.d.ContainsNode(start) || !b.d.ContainsNode(end) {
		return false
	}
	if !noteRuleHolds(edge, start, end) {
		return false
	}
	if hasDuplicateEdge(b.d, edge, start, end) {
		return false
	}
	if b.connect != nil {
		return b.connect(b.d, edge, start, end)
	}
	return true
}

func (b *builder) CanReparent(node, newParent *diagram.Node) bool {
	if node == nil || !b.d.ContainsNode(node) {
		return false
	}
	if newParent == nil {
		return !node.Kind().RequiresParent()
	}
	if !b.d.ContainsNode(newParent) {
		return false
	}
	// A node cannot be moved into itself or its own subtree.
	if node.HasDescendant(newParent) {
		return false
	}
	return newParent.Kind().AllowsChild(node.Kind())
}

// noteRuleHolds enforces the note-edge contract shared by all dialects: a
// note connector touches a Note node on exactly one end, and no other edge
// kind may touch a Note node at all.
func noteRuleHolds(edge *diagram.Edge, start, end *diagram.Node) bool {
	startIsNote := start.Kind() == diagram.NodeKindNote
	endIsNote := end.Kind() == diagram.NodeKindNote
	if edge.Kind() == diagram.EdgeKindNote {
		return startIsNote != endIsNote
	}
	return !startIsNote && !endIsNote
}

// hasDuplicateEdge reports whether the diagram already has an edge of the
// same kind between the same endpoints in the same direction.
func hasDuplicateEdge(d *diagram.Diagram, edge *diagram.Edge, start, end *diagram.Node) bool {
	for _, existing := range d.Edges() {
		if existing.Kind() == edge.Kind() && existing.Start() == start && existing.End() == end {
			return true
		}
	}
	return false
}

// =============================================================================
// Mutations
// =============================================================================

func (b *builder) AddNode(node, parent *diagram.Node) error {
	if !b.CanAddNode(node, parent) {
		return errors.New(errors.ErrCodeStructuralViolation,
			"cannot add %s node here", node.Kind())
	}
	if parent == nil {
		b.d.AddRoot(node)
	} else {
		b.d.AttachChild(parent, node)
	}
	observability.Editor().OnAddNode(b.d.TypeName(), node.Kind().String())
	return nil
}

func (b *builder) AddEdge(edge *diagram.Edge, start, end *diagram.Node) error {
	if !b.CanConnect(edge, start, end) {
		return errors.New(errors.ErrCodeStructuralViolation,
			"cannot connect %s edge between %s and %s", edge.Kind(), start.Kind(), end.Kind())
	}
	edge.Connect(start, end)
	if edge.Kind() == diagram.EdgeKindCall {
		edge.SetOrdinal(len(b.d.EdgesOfKind(diagram.EdgeKindCall)))
	}
	b.d.AddEdge(edge)
	observability.Editor().OnAddEdge(b.d.TypeName(), edge.Kind().String())
	return nil
}

func (b *builder) RemoveElement(el diagram.Element) error {
	switch v := el.(type) {
	case *diagram.Node:
		return b.removeNode(v)
	case *diagram.Edge:
		return b.removeEdge(v)
	default:
		return errors.New(errors.ErrCodeStructuralViolation, "unknown element type")
	}
}

func (b *builder) removeNode(node *diagram.Node) error {
	if !b.d.ContainsNode(node) {
		return errors.New(errors.ErrCodeStructuralViolation,
			"%s node is not in the diagram", node.Kind())
	}

	// Removal cascades: the subtree goes, and with it every incident edge.
	removedCalls := false
	for _, e := range b.d.Edges() {
		if node.HasDescendant(e.Start()) || node.HasDescendant(e.End()) {
			b.d.RemoveEdge(e)
			if e.Kind() == diagram.EdgeKindCall {
				removedCalls = true
			}
		}
	}

	if node.Parent() == nil {
		b.d.RemoveRoot(node)
	} else {
		b.d.DetachChild(node)
	}

	if removedCalls {
		renumberCalls(b.d)
	}
	observability.Editor().OnRemove(b.d.TypeName(), node.Kind().String())
	return nil
}

func (b *builder) removeEdge(edge *diagram.Edge) error {
	if !b.d.ContainsEdge(edge) {
		return errors.New(errors.ErrCodeStructuralViolation,
			"%s edge is not in the diagram", edge.Kind())
	}
	b.d.RemoveEdge(edge)
	if edge.Kind() == diagram.EdgeKindCall {
		renumberCalls(b.d)
	}
	observability.Editor().OnRemove(b.d.TypeName(), edge.Kind().String())
	return nil
}

func (b *builder) Reparent(node, newParent *diagram.Node) error {
	if !b.CanReparent(node, newParent) {
		return errors.New(errors.ErrCodeStructuralViolation,
			"cannot move %s node here", node.Kind())
	}
	if node.Parent() == nil {
		b.d.RemoveRoot(node)
	} else {
		b.d.DetachChild(node)
	}
	if newParent == nil {
		b.d.AddRoot(node)
	} else {
		b.d.AttachChild(newParent, node)
	}
	return nil
}

// renumberCalls reassigns call ordinals to a dense 0..n-1 sequence after
// removals, preserving relative order.
func renumberCalls(d *diagram.Diagram) {
	for i, e := range d.EdgesOfKind(diagram.EdgeKindCall) {
		e.SetOrdinal(i)
	}
}
