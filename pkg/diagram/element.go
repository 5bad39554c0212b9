package diagram

import "github.com/google/uuid"

// Element is the contract shared by nodes and edges: a stable identity used
// for selection and persistence correlation, an ordered set of named
// properties, and deep cloning.
//
// Cloning produces an independent copy with a fresh identity; everything
// except the identity is preserved, so structural comparison of a clone and
// its original (property values, kinds, subtrees) yields equality.
type Element interface {
	// ID returns the element's stable identity.
	ID() uuid.UUID

	// Properties returns the element's ordered property set. The returned
	// properties read and write through to the element.
	Properties() *Properties

	// Clone returns a deep, independent copy of the element with a fresh
	// identity. Cloning a node clones its entire subtree; cloning an edge
	// copies its state but keeps endpoint references (edges never own nodes).
	Clone() Element
}
