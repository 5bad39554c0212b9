package diagram

import (
	"github.com/google/uuid"

	"github.com/umlkit/umlkit/pkg/geometry"
)

// Node is a diagram element with a position, an optional explicit size, and
// (for container kinds) child nodes. The parent diagram owns all nodes
// transitively: a child's lifetime is bound to its parent's removal.
//
// Nodes are created by cloning a prototype from the dialect registry, or via
// NewNode during persistence loading. Structural membership (roots, children)
// is managed by the Diagram container, never by the node itself.
type Node struct {
	id       uuid.UUID
	kind     NodeKind
	position geometry.Point
	size     geometry.Dimension // zero means the kind's default size
	parent   *Node
	children []*Node
	attrs    map[string]string
	props    *Properties
}

// NewNode creates a detached node of the given kind with empty property
// values and a fresh identity.
func NewNode(kind NodeKind) *Node {
	attrs := make(map[string]string)
	return &Node{
		id:    uuid.New(),
		kind:  kind,
		attrs: attrs,
		props: propertiesFromAttrs(attrs, nodeKindSpecs[kind].props),
	}
}

// ID returns the node's stable identity.
func (n *Node) ID() uuid.UUID { return n.id }

// Kind returns the node's variant tag.
func (n *Node) Kind() NodeKind { return n.kind }

// Properties returns the node's ordered property set.
func (n *Node) Properties() *Properties { return n.props }

// Position returns the node's top-left corner in diagram space.
func (n *Node) Position() geometry.Point { return n.position }

// SetPosition moves the node's top-left corner. Position is pure geometry;
// it does not affect structural validity.
func (n *Node) SetPosition(p geometry.Point) { n.position = p }

// Translate moves the node and its whole subtree by (dx, dy).
func (n *Node) Translate(dx, dy int) {
	n.position = n.position.Translated(dx, dy)
	for _, c := range n.children {
		c.Translate(dx, dy)
	}
}

// Size returns the node's explicit size, or the kind's default when none has
// been set.
func (n *Node) Size() geometry.Dimension {
	if n.size.IsZero() {
		return n.kind.DefaultSize()
	}
	return n.size
}

// SetSize sets an explicit size. A zero dimension reverts to the kind default.
func (n *Node) SetSize(d geometry.Dimension) { n.size = d }

// Parent returns the containing node, or nil for root nodes.
func (n *Node) Parent() *Node { return n.parent }

// Root returns the topmost ancestor (the node itself if it has no parent).
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns the node's direct children in insertion order.
// The returned slice is a copy.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// HasDescendant reports whether other is the node itself or appears anywhere
// in its subtree. Used to reject containment cycles when reparenting.
func (n *Node) HasDescendant(other *Node) bool {
	if n == other {
		return true
	}
	for _, c := range n.children {
		if c.HasDescendant(other) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node and its subtree. The clone has a
// fresh identity, no parent, and independently cloned children whose parent
// pointers refer to the cloned subtree.
func (n *Node) Clone() Element { return n.cloneNode() }

func (n *Node) cloneNode() *Node {
	attrs := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		attrs[k] = v
	}
	c := &Node{
		id:       uuid.New(),
		kind:     n.kind,
		position: n.position,
		size:     n.size,
		attrs:    attrs,
	}
	c.props = propertiesFromAttrs(attrs, nodeKindSpecs[n.kind].props)
	for _, child := range n.children {
		cc := child.cloneNode()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// attach links child into n's children. Containment is managed by Diagram.
func (n *Node) attach(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// detach unlinks child from n's children.
func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}
