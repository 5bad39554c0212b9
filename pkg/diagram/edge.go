package diagram

import (
	"github.com/google/uuid"

	"github.com/umlkit/umlkit/pkg/errors"
)

// Edge is a diagram element connecting exactly one start node to one end
// node. Edges hold references only; they never own nodes, and removing an
// edge never removes a node.
//
// Call edges additionally carry an ordinal giving their position in the
// diagram's call sequence, and a signal flag distinguishing asynchronous
// signals from synchronous calls. Ordinals are maintained by the sequence
// builder.
type Edge struct {
	id      uuid.UUID
	kind    EdgeKind
	subtype EdgeSubtype
	start   *Node
	end     *Node
	ordinal int
	signal  bool
	attrs   map[string]string
	props   *Properties
}

// NewEdge creates a detached, unconnected edge of the given kind.
func NewEdge(kind EdgeKind) *Edge {
	attrs := make(map[string]string)
	return &Edge{
		id:    uuid.New(),
		kind:  kind,
		attrs: attrs,
		props: propertiesFromAttrs(attrs, edgeKindSpecs[kind].props),
	}
}

// NewEdgeSubtyped creates a detached edge with a subtype refinement.
// The combination must be legal for the kind; the registry's prototype
// catalogs are static, so an illegal combination is a programming error.
func NewEdgeSubtyped(kind EdgeKind, subtype EdgeSubtype) *Edge {
	errors.Precondition(kind.AllowsSubtype(subtype),
		"subtype %v is not valid for edge kind %v", subtype, kind)
	e := NewEdge(kind)
	e.subtype = subtype
	return e
}

// ID returns the edge's stable identity.
func (e *Edge) ID() uuid.UUID { return e.id }

// Kind returns the edge's variant tag.
func (e *Edge) Kind() EdgeKind { return e.kind }

// Subtype returns the edge's subtype refinement, or SubtypeNone.
func (e *Edge) Subtype() EdgeSubtype { return e.subtype }

// SetSubtype changes the subtype refinement. Returns an INVALID_ARGUMENT
// error if the subtype is not legal for the edge's kind.
func (e *Edge) SetSubtype(s EdgeSubtype) error {
	if !e.kind.AllowsSubtype(s) {
		return errors.New(errors.ErrCodeInvalidArgument,
			"subtype %v is not valid for edge kind %v", s, e.kind)
	}
	e.subtype = s
	return nil
}

// Properties returns the edge's ordered property set.
func (e *Edge) Properties() *Properties { return e.props }

// Start returns the edge's start node, or nil for a detached prototype.
func (e *Edge) Start() *Node { return e.start }

// End returns the edge's end node, or nil for a detached prototype.
func (e *Edge) End() *Node { return e.end }

// Connect sets both endpoints. Builders call this after validating the
// connection; the endpoints must already be part of the target diagram.
func (e *Edge) Connect(start, end *Node) {
	e.start = start
	e.end = end
}

// Ordinal returns the edge's position in the call sequence. It is only
// meaningful for Call edges.
func (e *Edge) Ordinal() int { return e.ordinal }

// SetOrdinal assigns the call-sequence position. Maintained by the sequence
// builder; persisted so load preserves call order.
func (e *Edge) SetOrdinal(ordinal int) { e.ordinal = ordinal }

// Signal reports whether a Call edge denotes an asynchronous signal.
func (e *Edge) Signal() bool { return e.signal }

// SetSignal marks a Call edge as a signal.
func (e *Edge) SetSignal(signal bool) { e.signal = signal }

// Clone returns an independent copy of the edge with a fresh identity.
// Endpoint references are copied as-is: edges never own nodes, and prototype
// edges are detached anyway.
func (e *Edge) Clone() Element { return e.cloneEdge() }

func (e *Edge) cloneEdge() *Edge {
	attrs := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	c := &Edge{
		id:      uuid.New(),
		kind:    e.kind,
		subtype: e.subtype,
		start:   e.start,
		end:     e.end,
		ordinal: e.ordinal,
		signal:  e.signal,
		attrs:   attrs,
	}
	c.props = propertiesFromAttrs(attrs, edgeKindSpecs[e.kind].props)
	return c
}
